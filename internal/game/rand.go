package game

import (
	"crypto/rand"
	"math/big"
)

// Rand is the uniform random source used for target generation.
// *math/rand.Rand satisfies it; tests pass scripted sources.
type Rand interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// cryptoRand draws from crypto/rand. It is the default source.
type cryptoRand struct{}

func (cryptoRand) Intn(n int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}
	return int(nBig.Int64())
}
