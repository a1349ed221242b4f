package market

import (
	"errors"
)

// address derivation errors
var (
	ErrSeedTooLong  = errors.New("seed is longer than 32 bytes")
	ErrTooManySeeds = errors.New("more than 16 derivation seeds")
	ErrNoViableBump = errors.New("unable to find a viable bump seed")
)

// codec errors
var (
	ErrMalformedAccount = errors.New("malformed account data")
)

// rpc and transaction errors
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrNoGatewayConfigured = errors.New("no gateway configured")
	ErrWrongRawTx          = errors.New("wrong raw tx")
)

// royalty computation errors
var (
	ErrAmountOverflow   = errors.New("royalty amount overflow")
	ErrInvalidLineage   = errors.New("refuse to distribute on invalid lineage")
	ErrFeeBpsOutOfRange = errors.New("fee basis points over 10000")
)

// lineage violations, collected on the trace instead of returned as errors
const (
	ViolationAccountNotFound   = "account not found"
	ViolationDecodeFailure     = "decode failure"
	ViolationMaxDepthExceeded  = "max depth exceeded"
	ViolationCircularReference = "circular reference detected"
)
