// Package slog provides logging decorators for rhinodoc services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rhinodoc"
)

// Ensure LoggingCorpusStore implements rhinodoc.CorpusStore.
var _ rhinodoc.CorpusStore = (*LoggingCorpusStore)(nil)

// LoggingCorpusStore wraps a CorpusStore with logging.
type LoggingCorpusStore struct {
	next   rhinodoc.CorpusStore
	logger *slog.Logger
}

// NewLoggingCorpusStore creates a new LoggingCorpusStore.
func NewLoggingCorpusStore(next rhinodoc.CorpusStore, logger *slog.Logger) *LoggingCorpusStore {
	return &LoggingCorpusStore{next: next, logger: logger}
}

// Persist delegates to the wrapped store and logs the operation.
func (s *LoggingCorpusStore) Persist(ctx context.Context, corpus rhinodoc.Corpus, version string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("persist corpus",
			"version", version,
			"namespaces", len(corpus),
			"classes", corpus.TotalClasses(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Persist(ctx, corpus, version)
}

// LoadManifest delegates to the wrapped store and logs the operation.
func (s *LoggingCorpusStore) LoadManifest(ctx context.Context, version string) (m *rhinodoc.Manifest, err error) {
	defer func(begin time.Time) {
		var namespaces int
		if m != nil {
			namespaces = len(m.Namespaces)
		}
		s.logger.Debug("load manifest",
			"version", version,
			"namespaces", namespaces,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadManifest(ctx, version)
}

// LoadShard delegates to the wrapped store and logs the operation.
func (s *LoggingCorpusStore) LoadShard(ctx context.Context, namespace, version string) (shard *rhinodoc.Shard, err error) {
	defer func(begin time.Time) {
		var classes int
		if shard != nil {
			classes = len(shard.Classes)
		}
		s.logger.Debug("load shard",
			"namespace", namespace,
			"version", version,
			"classes", classes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadShard(ctx, namespace, version)
}
