package visitors

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	codeMin  = 100000
	codeSpan = 900000
)

// GenerateAccessCode draws a 6-digit access code uniformly from
// 100000-999999. Uniqueness is not checked here; the creation flow inserts
// with a conditional put and retries on collision.
func GenerateAccessCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate access code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
