package service

import "context"

// Optimistic applies a local change before the remote call it mirrors. The
// state captured by snapshot is handed back to restore if remote fails.
func Optimistic[T any](ctx context.Context, snapshot func() T, restore func(T), apply func(), remote func(context.Context) error) error {
	before := snapshot()
	apply()
	if err := remote(ctx); err != nil {
		restore(before)
		return err
	}
	return nil
}
