package session

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	idLength   = 9
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewID returns a short base-36 token. It is not checked for
// uniqueness against existing sessions.
func NewID() string {
	var sb strings.Builder
	max := big.NewInt(int64(len(idAlphabet)))
	for i := 0; i < idLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing leaves us nothing better than a fixed digit
			sb.WriteByte('0')
			continue
		}
		sb.WriteByte(idAlphabet[n.Int64()])
	}
	return sb.String()
}
