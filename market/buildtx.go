package market

import (
	"fmt"

	bin "github.com/dfuse-io/binary"
	"github.com/dfuse-io/solana-go"
	"github.com/dfuse-io/solana-go/programs/system"

	"github.com/modelchain/MarketLedger/log"
)

// ProgramInstruction is a generic marketplace program instruction with
// pre-packed data and an explicit account ordering.
type ProgramInstruction struct {
	ProgID      solana.PublicKey
	AccountMeta []*solana.AccountMeta
	InstrData   []byte
}

// Accounts impl solana.TransactionInstruction
func (in *ProgramInstruction) Accounts() []*solana.AccountMeta {
	return in.AccountMeta
}

// ProgramID impl solana.TransactionInstruction
func (in *ProgramInstruction) ProgramID() solana.PublicKey {
	return in.ProgID
}

// Data impl solana.TransactionInstruction
func (in *ProgramInstruction) Data() ([]byte, error) {
	return in.InstrData, nil
}

func newTransferInstruction(directive *TransferDirective) solana.TransactionInstruction {
	return &system.Instruction{
		BaseVariant: bin.BaseVariant{
			TypeID: 2, // system program transfer
			Impl: &system.Transfer{
				Lamports: bin.Uint64(directive.Lamports),
				Accounts: &system.TransferAccounts{
					From: &solana.AccountMeta{PublicKey: directive.From, IsSigner: true, IsWritable: true},
					To:   &solana.AccountMeta{PublicKey: directive.To, IsSigner: false, IsWritable: true},
				},
			},
		},
	}
}

// AssembleTransaction builds one atomic transaction from program
// instructions plus value transfer directives. Zero amount directives
// are dropped. The recent blockhash anchors the transaction to a network
// checkpoint; the ledger applies all instructions or none.
func AssembleTransaction(instructions []solana.TransactionInstruction, transfers []*TransferDirective, feePayer, recentBlockhash solana.PublicKey) (*solana.Transaction, error) {
	all := make([]solana.TransactionInstruction, 0, len(instructions)+len(transfers))
	all = append(all, instructions...)
	for _, directive := range transfers {
		if directive.Lamports == 0 {
			log.Debug("omit zero value transfer", "to", directive.To.String())
			continue
		}
		all = append(all, newTransferInstruction(directive))
	}
	opt := &solana.Options{
		Payer: feePayer,
	}
	tx, err := solana.TransactionWithInstructions(all, recentBlockhash, opt)
	if err != nil {
		return nil, fmt.Errorf("transaction with instructions error: %v", err)
	}
	return tx, nil
}

// NewRegisterModelInstruction builds the create_model instruction with
// its fixed key ordering: writable model address, creator, writable
// treasury fee payer, optional read only parent, system program. In
// relayed mode the treasury signs on the creator's behalf and the
// creator key is a plain key.
func NewRegisterModelInstruction(programID, creator, treasury solana.PublicKey, modelName, metadataJSON, cidRoot string, parent *solana.PublicKey, relayedMode bool) (*ProgramInstruction, solana.PublicKey, error) {
	modelAddr, _, err := ModelAddress(programID, creator, modelName)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	keys := []*solana.AccountMeta{
		{PublicKey: modelAddr, IsSigner: false, IsWritable: true},
		{PublicKey: creator, IsSigner: !relayedMode, IsWritable: false},
		{PublicKey: treasury, IsSigner: true, IsWritable: true},
	}
	if parent != nil {
		keys = append(keys, &solana.AccountMeta{PublicKey: *parent, IsSigner: false, IsWritable: false})
	}
	keys = append(keys, &solana.AccountMeta{PublicKey: system.PROGRAM_ID, IsSigner: false, IsWritable: false})
	instr := &ProgramInstruction{
		ProgID:      programID,
		AccountMeta: keys,
		InstrData:   EncodeCreateModel(modelName, metadataJSON, cidRoot, parent),
	}
	return instr, modelAddr, nil
}

// NewPurchaseSubscriptionInstruction builds the purchase_subscription
// instruction: writable receipt address, subscriber signer, writable
// model address, system program.
func NewPurchaseSubscriptionInstruction(programID, model, user solana.PublicKey) (*ProgramInstruction, solana.PublicKey, error) {
	receiptAddr, _, err := ReceiptAddress(programID, model, user)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	instr := &ProgramInstruction{
		ProgID: programID,
		AccountMeta: []*solana.AccountMeta{
			{PublicKey: receiptAddr, IsSigner: false, IsWritable: true},
			{PublicKey: user, IsSigner: true, IsWritable: false},
			{PublicKey: model, IsSigner: false, IsWritable: true},
			{PublicKey: system.PROGRAM_ID, IsSigner: false, IsWritable: false},
		},
		InstrData: EncodePurchaseSubscription(),
	}
	return instr, receiptAddr, nil
}

// RoyaltyTransfers turns a distribution into the transfer directives of
// a subscription settlement: platform share, each accepted ancestor
// share, then the developer remainder. Zero amounts are kept out by
// AssembleTransaction.
func RoyaltyTransfers(dist *RoyaltyDistribution, payer, platform, developer solana.PublicKey) []*TransferDirective {
	transfers := make([]*TransferDirective, 0, len(dist.AncestorShares)+2)
	transfers = append(transfers, &TransferDirective{From: payer, To: platform, Lamports: dist.PlatformAmount})
	for _, share := range dist.AncestorShares {
		transfers = append(transfers, &TransferDirective{From: payer, To: share.Address, Lamports: share.Amount})
	}
	transfers = append(transfers, &TransferDirective{From: payer, To: developer, Lamports: dist.DeveloperAmount})
	return transfers
}
