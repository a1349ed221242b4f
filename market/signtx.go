package market

import (
	"bytes"
	"crypto/ed25519"

	bin "github.com/dfuse-io/binary"
	"github.com/dfuse-io/solana-go"
)

// SignTransactionWithPrivateKey sign an assembled transaction with a
// local ed25519 fee payer key
func (m *Market) SignTransactionWithPrivateKey(rawTx interface{}, privKey *ed25519.PrivateKey) (signedTx interface{}, txHash string, err error) {
	tx, ok := rawTx.(*solana.Transaction)
	if !ok {
		return nil, "", ErrWrongRawTx
	}

	buf := new(bytes.Buffer)
	if err = bin.NewEncoder(buf).Encode(tx.Message); err != nil {
		return nil, "", err
	}

	p := solana.PrivateKey(*privKey)
	signature, err := p.Sign(buf.Bytes())
	if err != nil {
		return nil, "", err
	}
	tx.Signatures = append(tx.Signatures, signature)
	return tx, signature.String(), nil
}
