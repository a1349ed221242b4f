package market

import (
	"fmt"

	"github.com/dfuse-io/solana-go"

	"github.com/modelchain/MarketLedger/log"
	"github.com/modelchain/MarketLedger/params"
)

// Market is the marketplace ledger client. It holds the deployed
// program identity and gateway config; all core computations stay pure
// functions of their inputs.
type Market struct {
	ProgramID   solana.PublicKey
	Treasury    solana.PublicKey
	RelayedMode bool

	GatewayConfig *params.GatewayConfig

	Royalty         RoyaltyParams
	MaxLineageDepth int
}

// NewMarket build a market client from checked config
func NewMarket(cfg *params.MarketConfig) (*Market, error) {
	if err := cfg.CheckConfig(); err != nil {
		return nil, err
	}
	programID, err := solana.PublicKeyFromBase58(cfg.Program.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid program address: %v", err)
	}
	treasury, err := solana.PublicKeyFromBase58(cfg.Program.Treasury)
	if err != nil {
		return nil, fmt.Errorf("invalid treasury address: %v", err)
	}
	m := &Market{
		ProgramID:     programID,
		Treasury:      treasury,
		RelayedMode:   cfg.Program.RelayedMode,
		GatewayConfig: cfg.Gateway,
		Royalty: RoyaltyParams{
			PlatformFeeBps: cfg.Royalty.GetPlatformFeeBps(),
			PerAncestorBps: cfg.Royalty.GetPerAncestorBps(),
			MinShareAmount: cfg.Royalty.GetMinShareAmount(),
		},
		MaxLineageDepth: cfg.Royalty.GetMaxLineageDepth(),
	}
	log.Info("market client initialized", "program", programID.String(), "treasury", treasury.String(), "relayed", m.RelayedMode)
	return m, nil
}

// FetchModelRecord fetch and decode one model account
func (m *Market) FetchModelRecord(address solana.PublicKey) (*ModelRecord, error) {
	data, err := m.GetAccountBytes(address)
	if err != nil {
		return nil, err
	}
	record, err := DecodeModelAccount(data)
	if err != nil {
		return nil, err
	}
	record.Address = address
	return record, nil
}

// TraceModelLineage walk the parent chain of a model on the live ledger
func (m *Market) TraceModelLineage(address solana.PublicKey) *LineageTrace {
	return TraceLineage(address, m.GetAccountBytes, m.MaxLineageDepth)
}

// BuildRegisterModelTransaction assembles the registration transaction
// for a new model. The treasury pays the fee; in relayed mode it is the
// only signer.
func (m *Market) BuildRegisterModelTransaction(creator solana.PublicKey, modelName, metadataJSON, cidRoot string, parent *solana.PublicKey) (*solana.Transaction, solana.PublicKey, error) {
	instr, modelAddr, err := NewRegisterModelInstruction(m.ProgramID, creator, m.Treasury, modelName, metadataJSON, cidRoot, parent, m.RelayedMode)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	blockhash, err := m.GetRecentBlockhash()
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	tx, err := AssembleTransaction([]solana.TransactionInstruction{instr}, nil, m.Treasury, blockhash)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	log.Info("built register model tx", "model", modelAddr.String(), "name", modelName, "hasParent", parent != nil)
	return tx, modelAddr, nil
}

// BuildPurchaseSubscriptionTransaction assembles the subscription
// purchase for user on model: the purchase instruction plus the full
// royalty settlement in one atomic transaction, so the ledger either
// applies the whole split or none of it. An invalid lineage trace
// refuses distribution.
func (m *Market) BuildPurchaseSubscriptionTransaction(user, model solana.PublicKey, amount uint64) (*solana.Transaction, *RoyaltyDistribution, error) {
	trace := m.TraceModelLineage(model)
	if !trace.IsValid {
		log.Warn("refuse purchase on invalid lineage", "model", model.String(), "violations", trace.Violations)
		return nil, nil, ErrInvalidLineage
	}
	dist, err := DistributeRoyalties(amount, trace, m.Royalty)
	if err != nil {
		return nil, nil, err
	}
	instr, receiptAddr, err := NewPurchaseSubscriptionInstruction(m.ProgramID, model, user)
	if err != nil {
		return nil, nil, err
	}
	developer := trace.Lineage[0].Creator
	transfers := RoyaltyTransfers(dist, user, m.Treasury, developer)
	blockhash, err := m.GetRecentBlockhash()
	if err != nil {
		return nil, nil, err
	}
	tx, err := AssembleTransaction([]solana.TransactionInstruction{instr}, transfers, user, blockhash)
	if err != nil {
		return nil, nil, err
	}
	log.Info("built purchase subscription tx",
		"model", model.String(), "receipt", receiptAddr.String(),
		"amount", amount, "platform", dist.PlatformAmount,
		"ancestors", len(dist.AncestorShares), "developer", dist.DeveloperAmount)
	return tx, dist, nil
}
