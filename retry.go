package monowalk

import (
	"context"

	"github.com/unityscope/monowalk/internal/retry"
)

// retryFor adapts a (T, bool, error) probe to retry.Do's (T, bool) shape: a
// failed read is treated the same as a name miss, both are worth retrying.
func retryFor[T any](ctx context.Context, probe func() (T, bool, error)) (T, bool) {
	return retry.Do(ctx, func() (T, bool) {
		v, ok, err := probe()
		return v, err == nil && ok
	})
}
