package hub

import "math/rand"

const (
	CodeLength = 6
	// No 0/O, 1/I/L lookalikes.
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

func GenerateCode(rng *rand.Rand) string {
	code := make([]byte, CodeLength)
	for i := range code {
		code[i] = codeAlphabet[rng.Intn(len(codeAlphabet))]
	}
	return string(code)
}
