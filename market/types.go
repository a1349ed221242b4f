package market

import (
	"github.com/dfuse-io/solana-go"
)

// ModelRecord is the decoded form of an on-chain model account.
// Address is not part of the account bytes; the lineage resolver stamps
// it from the key it fetched.
type ModelRecord struct {
	Address      solana.PublicKey
	Creator      solana.PublicKey
	Name         string
	MetadataJSON string
	CidRoot      string
	Parent       *solana.PublicKey
	LineageDepth uint16
	CreatedAt    int64
}

// HasParent whether this model was derived from another model
func (r *ModelRecord) HasParent() bool {
	return r.Parent != nil
}

// LineageTrace is the ordered parent chain of a model.
// Lineage[0] is the queried model, the last entry is the root.
type LineageTrace struct {
	Lineage    []*ModelRecord
	TotalDepth int
	IsValid    bool
	Violations []string
}

// Root returns the deepest ancestor or nil on an empty trace
func (t *LineageTrace) Root() *ModelRecord {
	if len(t.Lineage) == 0 {
		return nil
	}
	return t.Lineage[len(t.Lineage)-1]
}

// AncestorShare one lineage payout entry
type AncestorShare struct {
	Address solana.PublicKey
	Amount  uint64
}

// RoyaltyDistribution how a gross payment is split
type RoyaltyDistribution struct {
	TotalAmount         uint64
	PlatformAmount      uint64
	AncestorShares      []*AncestorShare
	TotalAncestorAmount uint64
	DeveloperAmount     uint64
}

// TransferDirective a plain value transfer to include in a transaction
type TransferDirective struct {
	From     solana.PublicKey
	To       solana.PublicKey
	Lamports uint64
}
