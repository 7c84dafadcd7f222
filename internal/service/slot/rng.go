package slot

import (
	"math/rand/v2"
	"time"
)

// RandomSource - источник случайности для барабанов.
// Потокобезопасность не требуется, движок вызывает его под мьютексом.
type RandomSource interface {
	IntN(n int) int
}

// NewRandomSource - PCG, засеянный текущим временем
func NewRandomSource() RandomSource {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSeededRNG - воспроизводимый источник для повторов и тестов
func NewSeededRNG(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed))
}
