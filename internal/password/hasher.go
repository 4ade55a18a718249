package password

import (
	"context"
	"crypto/rand"
	"io"

	"golang.org/x/sync/semaphore"
)

// Hasher bounds how many PBKDF2 derivations run at once. Callers over the
// limit wait, and give up when their context ends.
type Hasher struct {
	iterations int
	rand       io.Reader
	gate       *semaphore.Weighted
}

func NewHasher(iterations, concurrency int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Hasher{
		iterations: iterations,
		rand:       rand.Reader,
		gate:       semaphore.NewWeighted(int64(concurrency)),
	}
}

// WithRand swaps the salt source. Intended for tests.
func (h *Hasher) WithRand(r io.Reader) *Hasher {
	h.rand = r
	return h
}

func (h *Hasher) Iterations() int {
	return h.iterations
}

func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	salt, err := NewSalt(h.rand)
	if err != nil {
		return "", err
	}
	if err := h.gate.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.gate.Release(1)
	return Hash(password, salt, h.iterations), nil
}

func (h *Hasher) Verify(ctx context.Context, password, digest string) (bool, error) {
	if err := h.gate.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.gate.Release(1)
	return Verify(password, digest)
}
