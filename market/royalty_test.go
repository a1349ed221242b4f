package market

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineageOfLength(n int) *LineageTrace {
	trace := &LineageTrace{IsValid: true}
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("royalty-model-%d", i)
		trace.Lineage = append(trace.Lineage, &ModelRecord{
			Address:      keyFromLabel(label),
			Creator:      keyFromLabel(label + "-creator"),
			Name:         label,
			LineageDepth: uint16(i),
		})
	}
	if n > 0 {
		trace.TotalDepth = n - 1
	}
	return trace
}

func defaultTestParams() RoyaltyParams {
	return RoyaltyParams{
		PlatformFeeBps: 500,
		PerAncestorBps: 250,
		MinShareAmount: 1000,
	}
}

func TestDistributeThresholdExample(t *testing.T) {
	trace := lineageOfLength(2)
	dist, err := DistributeRoyalties(1_000_000_000, trace, defaultTestParams())
	require.NoError(t, err)

	assert.Equal(t, uint64(50_000_000), dist.PlatformAmount)
	require.Len(t, dist.AncestorShares, 2)
	// root first payout order
	assert.Equal(t, trace.Lineage[1].Creator, dist.AncestorShares[0].Address)
	assert.Equal(t, uint64(25_000_000), dist.AncestorShares[0].Amount)
	assert.Equal(t, trace.Lineage[0].Creator, dist.AncestorShares[1].Address)
	assert.Equal(t, uint64(25_000_000), dist.AncestorShares[1].Amount)
	assert.Equal(t, uint64(50_000_000), dist.TotalAncestorAmount)
	assert.Equal(t, uint64(900_000_000), dist.DeveloperAmount)
}

func TestDistributePaysCreatorWallets(t *testing.T) {
	trace := lineageOfLength(3)
	dist, err := DistributeRoyalties(1_000_000_000, trace, defaultTestParams())
	require.NoError(t, err)
	require.Len(t, dist.AncestorShares, 3)
	// shares go to the creator wallets, never to the program derived
	// model accounts themselves
	for i, share := range dist.AncestorShares {
		record := trace.Lineage[len(trace.Lineage)-1-i]
		assert.Equal(t, record.Creator, share.Address)
		assert.NotEqual(t, record.Address, share.Address)
	}
}

func TestDistributeConservation(t *testing.T) {
	totals := []uint64{0, 1_000, 1_000_000_000}
	platformBpsSet := []uint64{0, 500, 10_000}
	for _, total := range totals {
		for _, platformBps := range platformBpsSet {
			for depth := 0; depth <= 32; depth++ {
				p := RoyaltyParams{
					PlatformFeeBps: platformBps,
					PerAncestorBps: 250,
					MinShareAmount: 1000,
				}
				dist, err := DistributeRoyalties(total, lineageOfLength(depth), p)
				require.NoError(t, err)
				sum := dist.PlatformAmount + dist.TotalAncestorAmount + dist.DeveloperAmount
				assert.Equal(t, total, sum,
					"total=%d platformBps=%d depth=%d", total, platformBps, depth)
			}
		}
	}
}

func TestDistributeStopsBelowMinimum(t *testing.T) {
	// share = 1_000_000 * 250 / 10000 = 25_000 < minShare 100_000
	p := RoyaltyParams{PlatformFeeBps: 500, PerAncestorBps: 250, MinShareAmount: 100_000}
	dist, err := DistributeRoyalties(1_000_000, lineageOfLength(5), p)
	require.NoError(t, err)
	assert.Empty(t, dist.AncestorShares)
	assert.Equal(t, uint64(0), dist.TotalAncestorAmount)
	assert.Equal(t, dist.TotalAmount-dist.PlatformAmount, dist.DeveloperAmount)
}

func TestDistributeStopsWhenRemainingExhausted(t *testing.T) {
	// platform 100% leaves nothing for lineage shares
	p := RoyaltyParams{PlatformFeeBps: 10_000, PerAncestorBps: 250, MinShareAmount: 1}
	dist, err := DistributeRoyalties(1_000_000, lineageOfLength(8), p)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), dist.PlatformAmount)
	assert.Empty(t, dist.AncestorShares)
	assert.Equal(t, uint64(0), dist.DeveloperAmount)
}

func TestDistributeZeroShareNeverEmitted(t *testing.T) {
	// share floors to zero: 100 * 250 / 10000 = 2 -> use tiny total
	p := RoyaltyParams{PlatformFeeBps: 0, PerAncestorBps: 250, MinShareAmount: 0}
	dist, err := DistributeRoyalties(3, lineageOfLength(4), p)
	require.NoError(t, err)
	assert.Empty(t, dist.AncestorShares)
	assert.Equal(t, uint64(3), dist.DeveloperAmount)
	for _, share := range dist.AncestorShares {
		assert.NotZero(t, share.Amount)
	}
}

func TestDistributeEmptyLineage(t *testing.T) {
	dist, err := DistributeRoyalties(1_000_000, lineageOfLength(0), defaultTestParams())
	require.NoError(t, err)
	assert.Equal(t, uint64(50_000), dist.PlatformAmount)
	assert.Empty(t, dist.AncestorShares)
	assert.Equal(t, uint64(950_000), dist.DeveloperAmount)
}

func TestDistributeOverflow(t *testing.T) {
	p := defaultTestParams()
	_, err := DistributeRoyalties(1<<63, lineageOfLength(1), p)
	assert.Equal(t, ErrAmountOverflow, err)
}

func TestDistributeBpsOutOfRange(t *testing.T) {
	p := RoyaltyParams{PlatformFeeBps: 10_001, PerAncestorBps: 250, MinShareAmount: 1000}
	_, err := DistributeRoyalties(1_000_000, lineageOfLength(1), p)
	assert.Equal(t, ErrFeeBpsOutOfRange, err)
}

func TestDistributeDeepLineageTruncation(t *testing.T) {
	// 32 entries at 250 bps consume 80% of the pool; platform takes 5%,
	// so the last few shares exceed what remains and stop the loop
	p := RoyaltyParams{PlatformFeeBps: 2000, PerAncestorBps: 250, MinShareAmount: 1}
	total := uint64(1_000_000)
	dist, err := DistributeRoyalties(total, lineageOfLength(32), p)
	require.NoError(t, err)
	// remaining = 800_000, share = 25_000 -> exactly 32 would consume
	// 800_000; all fit
	assert.Len(t, dist.AncestorShares, 32)
	assert.Equal(t, uint64(0), dist.DeveloperAmount)

	p.PlatformFeeBps = 2100
	dist, err = DistributeRoyalties(total, lineageOfLength(32), p)
	require.NoError(t, err)
	// remaining = 790_000 fits only 31 shares of 25_000
	assert.Len(t, dist.AncestorShares, 31)
	assert.Equal(t, uint64(15_000), dist.DeveloperAmount)
	assert.Equal(t, total, dist.PlatformAmount+dist.TotalAncestorAmount+dist.DeveloperAmount)
}

func TestDistributeOverflowInAncestorShare(t *testing.T) {
	// platform bps 0 passes, per ancestor bps still overflows
	p := RoyaltyParams{PlatformFeeBps: 0, PerAncestorBps: 250, MinShareAmount: 1}
	_, err := DistributeRoyalties(1<<63, lineageOfLength(1), p)
	assert.Equal(t, ErrAmountOverflow, err)
}
