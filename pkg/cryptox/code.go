package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// CodeLength is the fixed length of a parent access code.
const CodeLength = 10

// CodeAlphabet is the symbol set parent codes are drawn from. Visually
// ambiguous glyphs (0/O, 1/I) are excluded so codes survive being read
// aloud or retyped from a printout.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode creates a new random parent access code. The code is a
// credential, not a display ID, so it is drawn from crypto/rand.
func GenerateCode() (string, error) {
	max := big.NewInt(int64(len(CodeAlphabet)))
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to generate code: %w", err)
		}
		b.WriteByte(CodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
