package market

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/dfuse-io/solana-go"
)

const (
	maxSeedLength = 32
	maxSeedCount  = 16

	modelSeedPrefix   = "model"
	receiptSeedPrefix = "receipt"
)

// pdaMarker is the domain separator the ledger appends when deriving
// program addresses, guaranteeing the result never collides with a
// normally generated key.
var pdaMarker = []byte("ProgramDerivedAddress")

// IsValidAddress check address
func IsValidAddress(address string) bool {
	_, err := solana.PublicKeyFromBase58(address)
	return err == nil
}

func isOnCurve(bs []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(bs)
	return err == nil
}

func createProgramAddress(programID solana.PublicKey, seeds [][]byte, bump byte) (solana.PublicKey, error) {
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return solana.PublicKey{}, ErrSeedTooLong
		}
		_, _ = h.Write(seed)
	}
	_, _ = h.Write([]byte{bump})
	_, _ = h.Write(programID[:])
	_, _ = h.Write(pdaMarker)
	digest := h.Sum(nil)
	if isOnCurve(digest) {
		return solana.PublicKey{}, ErrNoViableBump
	}
	var addr solana.PublicKey
	copy(addr[:], digest)
	return addr, nil
}

// FindProgramAddress derives the canonical program address for the given
// ordered seeds, trying bump 255 down to 0 until the digest falls off the
// ed25519 curve. Deterministic, no I/O.
func FindProgramAddress(programID solana.PublicKey, seeds [][]byte) (solana.PublicKey, uint8, error) {
	if len(seeds) > maxSeedCount {
		return solana.PublicKey{}, 0, ErrTooManySeeds
	}
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return solana.PublicKey{}, 0, ErrSeedTooLong
		}
	}
	for bump := 255; bump >= 0; bump-- {
		addr, err := createProgramAddress(programID, seeds, byte(bump))
		if err == nil {
			return addr, uint8(bump), nil
		}
	}
	return solana.PublicKey{}, 0, ErrNoViableBump
}

// ModelAddress derives the account address of a model registered by
// creator under modelName.
func ModelAddress(programID, creator solana.PublicKey, modelName string) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		[]byte(modelSeedPrefix),
		creator[:],
		[]byte(modelName),
	}
	return FindProgramAddress(programID, seeds)
}

// ReceiptAddress derives the subscription receipt address for a user on
// a model.
func ReceiptAddress(programID, model, user solana.PublicKey) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		[]byte(receiptSeedPrefix),
		model[:],
		user[:],
	}
	return FindProgramAddress(programID, seeds)
}
