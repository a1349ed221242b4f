package market

import (
	"context"
	"fmt"
	"math/big"

	bin "github.com/dfuse-io/binary"
	"github.com/dfuse-io/solana-go"
	solanarpc "github.com/dfuse-io/solana-go/rpc"
	"github.com/ybbus/jsonrpc"

	"github.com/modelchain/MarketLedger/log"
)

const rpcCommitment = "finalized"

func (m *Market) getClients() (clis []*solanarpc.Client) {
	clis = make([]*solanarpc.Client, 0, len(m.GatewayConfig.APIAddress))
	for _, endpoint := range m.GatewayConfig.APIAddress {
		cli := solanarpc.NewClient(endpoint)
		if cli != nil {
			clis = append(clis, cli)
		}
	}
	return clis
}

func (m *Market) getURLs() []string {
	return m.GatewayConfig.APIAddress
}

// RPCError aggregates per gateway failures of one logical call
type RPCError struct {
	errs   []error
	method string
}

func (e *RPCError) log(msg error) {
	log.Warn("[Market RPC error]", "method", e.method, "msg", msg)
	e.errs = append(e.errs, msg)
}

// Error returns the aggregated error
func (e *RPCError) Error() error {
	return fmt.Errorf("[Market RPC error] method: %v errors:%+v", e.method, e.errs)
}

// GetLatestSlot returns the current finalized slot
func (m *Market) GetLatestSlot() (uint64, error) {
	ctx := context.Background()
	rpcError := &RPCError{method: "GetLatestSlot"}
	for _, cli := range m.getClients() {
		res, err := cli.GetSlot(ctx, rpcCommitment)
		if err == nil {
			return uint64(res), nil
		}
		rpcError.log(err)
	}
	return 0, rpcError.Error()
}

// GetAccountBytes fetch raw account data of an address. Returns
// ErrAccountNotFound when no gateway knows the account.
func (m *Market) GetAccountBytes(address solana.PublicKey) ([]byte, error) {
	ctx := context.Background()
	rpcError := &RPCError{method: "GetAccountBytes"}
	for _, cli := range m.getClients() {
		res, err := cli.GetAccountInfo(ctx, address)
		if err == solanarpc.ErrNotFound {
			return nil, ErrAccountNotFound
		}
		if err != nil {
			rpcError.log(err)
			continue
		}
		if res == nil || res.Value == nil {
			return nil, ErrAccountNotFound
		}
		return res.Value.Data, nil
	}
	return nil, rpcError.Error()
}

// GetBalance gets native token balance
func (m *Market) GetBalance(account string) (*big.Int, error) {
	ctx := context.Background()
	rpcError := &RPCError{method: "GetBalance"}
	for _, cli := range m.getClients() {
		res, err := cli.GetBalance(ctx, account, rpcCommitment)
		if err == nil {
			return new(big.Int).SetUint64(uint64(res.Value)), nil
		}
		rpcError.log(err)
	}
	return big.NewInt(0), rpcError.Error()
}

// GetRecentBlockhash gets the recent network checkpoint every assembled
// transaction must reference
func (m *Market) GetRecentBlockhash() (solana.PublicKey, error) {
	ctx := context.Background()
	rpcError := &RPCError{method: "GetRecentBlockhash"}
	for _, cli := range m.getClients() {
		res, err := cli.GetRecentBlockhash(ctx, rpcCommitment)
		if err == nil {
			return res.Value.Blockhash, nil
		}
		rpcError.log(err)
	}
	return solana.PublicKey{}, rpcError.Error()
}

// BroadcastTx broadcast a signed transaction, returns its signature
func (m *Market) BroadcastTx(tx *solana.Transaction) (string, error) {
	ctx := context.Background()
	rpcError := &RPCError{method: "BroadcastTx"}
	for _, cli := range m.getClients() {
		hash, err := cli.SendTransaction(ctx, tx)
		if err == nil {
			return hash, nil
		}
		rpcError.log(err)
	}
	return "", rpcError.Error()
}

// GetTransactionResult is the raw confirmed transaction lookup used to
// check whether a settlement landed
type GetTransactionResult struct {
	Transaction *solana.Transaction        `json:"transaction"`
	Meta        *solanarpc.TransactionMeta `json:"meta,omitempty"`
	Slot        bin.Uint64                 `json:"slot,omitempty"`
	BlockTime   bin.Uint64                 `json:"blockTime,omitempty"`
}

// GetTransaction gets a confirmed transaction by signature
func (m *Market) GetTransaction(txHash string) (*GetTransactionResult, error) {
	rpcError := &RPCError{method: "GetTransaction"}
	callParams := []interface{}{txHash, "json"}
	for _, rpcURL := range m.getURLs() {
		rpcClient := jsonrpc.NewClient(rpcURL)
		tx := &GetTransactionResult{}
		err := rpcClient.CallFor(tx, "getConfirmedTransaction", callParams...)
		if err == nil {
			return tx, nil
		}
		rpcError.log(err)
	}
	return nil, rpcError.Error()
}

// IsTransactionConfirmed whether the transaction landed without error
func (m *Market) IsTransactionConfirmed(txHash string) bool {
	tx, err := m.GetTransaction(txHash)
	if err != nil || tx == nil || tx.Meta == nil {
		return false
	}
	return tx.Meta.Err == nil
}
