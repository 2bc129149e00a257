// Package store holds the dataset currently served and rebuilds it on demand.
package store

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/KaramelBytes/enrollboard/internal/dataset"
	"github.com/KaramelBytes/enrollboard/internal/metrics"
)

// Store publishes immutable datasets. Readers never block; a reload builds a
// new dataset off to the side and swaps it in.
type Store struct {
	src     dataset.Source
	logger  *zap.Logger
	metrics *metrics.Metrics

	current atomic.Pointer[dataset.Dataset]
	group   singleflight.Group
}

// New returns a store serving an empty dataset until the first Reload.
// logger and m may be nil.
func New(src dataset.Source, logger *zap.Logger, m *metrics.Metrics) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{src: src, logger: logger, metrics: m}
	s.current.Store(dataset.Empty(src.String()))
	return s
}

// Current returns the dataset being served.
func (s *Store) Current() *dataset.Dataset {
	return s.current.Load()
}

// Reload rebuilds the dataset from the source and returns the one now served.
// Concurrent calls share a single load. An empty result does not replace a
// non-empty dataset already being served.
func (s *Store) Reload(ctx context.Context) *dataset.Dataset {
	v, _, shared := s.group.Do("reload", func() (any, error) {
		next := dataset.Load(ctx, s.src, s.logger)
		s.metrics.ObserveLoad(next.Len())
		prev := s.current.Load()
		if next.IsEmpty() && prev != nil && !prev.IsEmpty() {
			s.logger.Warn("reload produced no records, keeping previous dataset",
				zap.String("dataset_id", prev.ID),
				zap.Int("records", prev.Len()),
			)
			return prev, nil
		}
		s.current.Store(next)
		return next, nil
	})
	if shared {
		s.logger.Debug("reload shared with concurrent caller")
	}
	return v.(*dataset.Dataset)
}
