package market

import (
	"math"

	"github.com/modelchain/MarketLedger/params"
)

const bpsDenominator = 10000

// RoyaltyParams are passed explicitly so a distribution is reproducible
// without any ambient state.
type RoyaltyParams struct {
	PlatformFeeBps uint64
	PerAncestorBps uint64
	MinShareAmount uint64
}

// DefaultRoyaltyParams returns the configured parameters, falling back
// to protocol defaults when no config is loaded.
func DefaultRoyaltyParams() RoyaltyParams {
	var cfg *params.RoyaltyConfig
	if mc := params.GetConfig(); mc != nil {
		cfg = mc.Royalty
	}
	return RoyaltyParams{
		PlatformFeeBps: cfg.GetPlatformFeeBps(),
		PerAncestorBps: cfg.GetPerAncestorBps(),
		MinShareAmount: cfg.GetMinShareAmount(),
	}
}

func bpsShare(total, bps uint64) (uint64, error) {
	if bps > bpsDenominator {
		return 0, ErrFeeBpsOutOfRange
	}
	if bps != 0 && total > math.MaxUint64/bps {
		return 0, ErrAmountOverflow
	}
	return total * bps / bpsDenominator, nil
}

// DistributeRoyalties splits a gross payment between the platform, the
// lineage chain and the model developer. The lineage is paid root first;
// the first share that falls under the minimum or over what remains
// stops the whole payout loop, and the developer takes whatever is left.
// platform + ancestors + developer always equals total exactly.
func DistributeRoyalties(totalAmount uint64, trace *LineageTrace, p RoyaltyParams) (*RoyaltyDistribution, error) {
	platformAmount, err := bpsShare(totalAmount, p.PlatformFeeBps)
	if err != nil {
		return nil, err
	}
	dist := &RoyaltyDistribution{
		TotalAmount:    totalAmount,
		PlatformAmount: platformAmount,
	}
	remaining := totalAmount - platformAmount

	share, err := bpsShare(totalAmount, p.PerAncestorBps)
	if err != nil {
		return nil, err
	}
	// root first payout order; the queried model itself is a payable
	// entry in addition to receiving the developer remainder
	for i := len(trace.Lineage) - 1; i >= 0; i-- {
		if share == 0 || share < p.MinShareAmount || share > remaining {
			break
		}
		dist.AncestorShares = append(dist.AncestorShares, &AncestorShare{
			Address: trace.Lineage[i].Creator,
			Amount:  share,
		})
		remaining -= share
		dist.TotalAncestorAmount += share
	}
	dist.DeveloperAmount = remaining
	return dist, nil
}
