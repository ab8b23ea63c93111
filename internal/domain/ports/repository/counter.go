package repository

import "context"

// CounterRepository backs the serial allocator. Next must be a single atomic
// increment-and-return: two concurrent calls for the same key must never
// observe the same sequence value. Counters are created on first use and
// never deleted.
type CounterRepository interface {
	Next(ctx context.Context, tx Tx, key string) (int64, error)
}
