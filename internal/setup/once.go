package setup

import (
	"context"
	"sync"

	"github.com/bornholm/pdfsplit/internal/config"
	"github.com/pkg/errors"
)

// createFromConfigOnce memoizes a component factory: the first call builds
// the component, later calls share it (or the error).
func createFromConfigOnce[T any](factory func(ctx context.Context, conf *config.Config) (T, error)) func(ctx context.Context, conf *config.Config) (T, error) {
	var (
		once  sync.Once
		value T
		err   error
	)

	return func(ctx context.Context, conf *config.Config) (T, error) {
		once.Do(func() {
			value, err = factory(ctx, conf)
		})
		if err != nil {
			return value, errors.WithStack(err)
		}

		return value, nil
	}
}
