package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/curator/internal/logger"
)

// Hydrator is a store that can be restored from its persister.
type Hydrator interface {
	Hydrate(ctx context.Context) (found bool, err error)
}

// StateSyncer restores every curation store from the persistence backend
// on startup.
type StateSyncer struct {
	stores map[string]Hydrator
	logger logger.Logger
}

func NewStateSyncer(stores map[string]Hydrator, log logger.Logger) *StateSyncer {
	return &StateSyncer{
		stores: stores,
		logger: log,
	}
}

// Sync hydrates each store. A store with no saved record, or one that
// fails to load, keeps its defaults; failures are joined in the result.
func (ss *StateSyncer) Sync(ctx context.Context) error {
	ss.logger.Info("Restoring curation state")

	var errs []error
	restored := 0
	for name, s := range ss.stores {
		found, err := s.Hydrate(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s state: %w", name, err))
			continue
		}
		if found {
			restored++
		} else {
			ss.logger.Debug("No saved state, using defaults", logger.String("store", name))
		}
	}

	ss.logger.Info("Curation state restored",
		logger.Int("restored", restored),
		logger.Int("stores", len(ss.stores)))

	return errors.Join(errs...)
}
