package common

import (
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

// Now returns the current unix timestamp
func Now() int64 {
	return time.Now().Unix()
}

// NowStr returns the current unix timestamp as string
func NowStr() string {
	return strconv.FormatInt(Now(), 10)
}

// GetUint64FromStr parse string into unsigned 64 bit integer
func GetUint64FromStr(str string) (uint64, error) {
	res, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, errors.New("invalid unsigned 64 bit integer: " + str)
	}
	return res, nil
}

// HasHexPrefix check '0x' or '0X' prefix
func HasHexPrefix(str string) bool {
	return len(str) >= 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X')
}

// FromHex decode hex string with or without '0x' prefix
func FromHex(str string) ([]byte, error) {
	if HasHexPrefix(str) {
		str = str[2:]
	}
	if len(str)%2 == 1 {
		str = "0" + str
	}
	return hex.DecodeString(str)
}

// ToHex encode bytes into '0x' prefixed hex string
func ToHex(bs []byte) string {
	return "0x" + hex.EncodeToString(bs)
}
