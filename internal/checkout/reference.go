package checkout

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	referencePrefix   = "ORD-"
	referenceLength   = 8
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ReferenceGenerator returns a new human-readable order reference.
type ReferenceGenerator func() (string, error)

// NewReference returns ORD- followed by 8 random uppercase alphanumerics.
func NewReference() (string, error) {
	buf := make([]byte, referenceLength)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate order reference: %w", err)
		}
		buf[i] = referenceAlphabet[n.Int64()]
	}
	return referencePrefix + string(buf), nil
}
