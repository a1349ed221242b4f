package market

import (
	"github.com/dfuse-io/solana-go"

	"github.com/modelchain/MarketLedger/log"
)

// AccountFetcher reads raw account bytes for an address from a fixed
// ledger snapshot. Return ErrAccountNotFound (or any error) when the
// account does not exist; the walk records a violation and stops rather
// than retrying.
type AccountFetcher func(address solana.PublicKey) ([]byte, error)

// TraceLineage walks the parent chain from startAddress up to the root.
// The walk is iterative and strictly serial: each step needs the parent
// key decoded in the previous one. Violations are collected on the trace
// instead of aborting, so the caller gets the partial chain and decides
// what to do with it.
func TraceLineage(startAddress solana.PublicKey, fetch AccountFetcher, maxDepth int) *LineageTrace {
	trace := &LineageTrace{}
	current := startAddress
	depth := 0
	for depth < maxDepth {
		data, err := fetch(current)
		if err != nil {
			log.Debug("lineage fetch failed", "address", current.String(), "depth", depth, "err", err)
			trace.Violations = append(trace.Violations, ViolationAccountNotFound)
			break
		}
		record, err := DecodeModelAccount(data)
		if err != nil {
			log.Debug("lineage decode failed", "address", current.String(), "depth", depth, "err", err)
			trace.Violations = append(trace.Violations, ViolationDecodeFailure)
			break
		}
		// the account bytes do not embed their own key
		record.Address = current
		trace.Lineage = append(trace.Lineage, record)
		if record.Parent == nil {
			break // root reached
		}
		current = *record.Parent
		depth++
	}
	if depth == maxDepth {
		trace.Violations = append(trace.Violations, ViolationMaxDepthExceeded)
	}
	if hasDuplicateAddress(trace.Lineage) {
		trace.Violations = append(trace.Violations, ViolationCircularReference)
	}
	trace.TotalDepth = depth
	trace.IsValid = len(trace.Violations) == 0
	return trace
}

func hasDuplicateAddress(records []*ModelRecord) bool {
	seen := make(map[solana.PublicKey]struct{}, len(records))
	for _, record := range records {
		if _, dup := seen[record.Address]; dup {
			return true
		}
		seen[record.Address] = struct{}{}
	}
	return false
}
