package identifier

import "math/rand/v2"

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// DefaultLength gives 62^11 possible identifiers.
	DefaultLength = 11
)

// Generator produces random URL-safe public identifiers. Uniqueness is the
// caller's responsibility.
type Generator struct{}

// NewGenerator constructor.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a string of length characters drawn uniformly from
// [A-Za-z0-9]. Safe for concurrent callers.
func (s *Generator) Generate(length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphabet[rand.IntN(len(alphabet))]
	}

	return string(buf)
}
