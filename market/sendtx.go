package market

import (
	"github.com/dfuse-io/solana-go"

	"github.com/modelchain/MarketLedger/log"
)

// SendTransaction broadcast a signed transaction. Submission failures
// are passed through unmodified; no retry policy lives at this layer.
func (m *Market) SendTransaction(signedTx interface{}) (txHash string, err error) {
	tx, ok := signedTx.(*solana.Transaction)
	if !ok {
		return "", ErrWrongRawTx
	}
	txHash, err = m.BroadcastTx(tx)
	if err != nil {
		log.Info("SendTransaction failed", "hash", txHash, "err", err)
		return txHash, err
	}
	log.Info("SendTransaction success", "hash", txHash)
	return txHash, nil
}
