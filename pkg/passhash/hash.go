// Package passhash hashes and verifies user passwords with an adaptive
// cost function, offloading the blocking work to a worker pool so a burst
// of signups cannot starve the request scheduler (spec §4.8, §5).
package passhash

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"ecomfleet/pkg/workerpool"
)

// MinCost is the lowest adaptive cost the identity engine will accept.
const MinCost = 10

// ErrCostTooLow is returned by NewHasher when cost is below MinCost.
var ErrCostTooLow = errors.New("passhash: cost must be at least 10")

// Hasher hashes and verifies passwords off the request path.
type Hasher struct {
	cost int
	pool *workerpool.Pool
}

// NewHasher builds a Hasher with the given bcrypt cost and a worker pool
// sized for `workers` concurrent hashing jobs (0 defaults to GOMAXPROCS).
func NewHasher(cost, workers int) (*Hasher, error) {
	if cost < MinCost {
		return nil, ErrCostTooLow
	}
	return &Hasher{cost: cost, pool: workerpool.New(workers)}, nil
}

// Hash computes a bcrypt hash of password on a pool worker.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	return workerpool.Submit(ctx, h.pool, func() (string, error) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		if err != nil {
			return "", err
		}
		return string(hash), nil
	})
}

// Verify reports whether password matches hash, on a pool worker. A
// malformed hash or a mismatched password both report false with no
// error distinguishing the two, so callers cannot use it to enumerate
// accounts.
func (h *Hasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	return workerpool.Submit(ctx, h.pool, func() (bool, error) {
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if err == nil {
			return true, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, nil
	})
}

// Close releases the hasher's worker pool.
func (h *Hasher) Close() {
	h.pool.Close()
}
