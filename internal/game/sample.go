package game

import (
	"math/rand"

	"github.com/litclass/litclass-lms/internal/bank"
)

// Playable filters the question bank down to what the arcade can render:
// choice questions with at least two options. Nil rows are dropped here so
// corrupt bank data never reaches a level.
func Playable(qs []*bank.BankQuestion) []*bank.BankQuestion {
	out := make([]*bank.BankQuestion, 0, len(qs))
	for _, q := range qs {
		if q == nil || q.Text == "" || q.Type != bank.TypeChoice || len(q.Options) < 2 {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Sample draws n questions uniformly without replacement: Fisher-Yates
// over a copy, then the head of the shuffle. Fewer than n playable
// questions yields all of them.
func Sample(rng *rand.Rand, qs []*bank.BankQuestion, n int) []*bank.BankQuestion {
	pool := Playable(qs)
	shuffled := make([]*bank.BankQuestion, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
