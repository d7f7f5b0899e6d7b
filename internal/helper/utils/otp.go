package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// GenerateOTP returns a numeric code of the given length, e.g. "493027".
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid otp length")
	}

	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", errors.New("failed to generate otp")
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
