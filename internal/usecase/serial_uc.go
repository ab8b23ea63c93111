package usecase

import (
	"context"
	"fmt"
	"time"

	"gym-membership-platform/internal/domain/ports/repository"
)

// SerialAllocator issues strictly increasing human-readable identifiers per
// (prefix, year) key, e.g. DP-2026-0117. Sequence numbers are monotonic but
// not guaranteed contiguous: an allocation whose consumer record is never
// persisted simply leaves a hole, which is acceptable for identifiers.
type SerialAllocator struct {
	counters repository.CounterRepository
}

func NewSerialAllocator(counters repository.CounterRepository) *SerialAllocator {
	return &SerialAllocator{counters: counters}
}

func (s *SerialAllocator) Allocate(ctx context.Context, prefix string) (string, error) {
	key := fmt.Sprintf("%s-%d", prefix, time.Now().Year())
	seq, err := s.counters.Next(ctx, repository.NoTX, key)
	if err != nil {
		return "", fmt.Errorf("allocate serial %s: %w", key, err)
	}
	return fmt.Sprintf("%s-%04d", key, seq), nil
}
