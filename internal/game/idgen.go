package game

import "math/rand/v2"

// Visually ambiguous characters (0/O, 1/I) are left out so codes survive being read aloud.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

type CodeGenerator interface {
	Generate() string
}

type randomCodeGen struct{}

func NewCodeGen() CodeGenerator {
	return randomCodeGen{}
}

func (randomCodeGen) Generate() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}
