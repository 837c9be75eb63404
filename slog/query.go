package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rhinodoc"
)

// Ensure LoggingQueryService implements rhinodoc.QueryService.
var _ rhinodoc.QueryService = (*LoggingQueryService)(nil)

// LoggingQueryService wraps a QueryService with logging. Successful
// lookups log at Debug, failures at Warn.
type LoggingQueryService struct {
	next   rhinodoc.QueryService
	logger *slog.Logger
}

// NewLoggingQueryService creates a new LoggingQueryService.
func NewLoggingQueryService(next rhinodoc.QueryService, logger *slog.Logger) *LoggingQueryService {
	return &LoggingQueryService{next: next, logger: logger}
}

func (s *LoggingQueryService) log(ctx context.Context, msg string, begin time.Time, err error, args ...any) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelWarn
		args = append(args, "code", rhinodoc.ErrorCode(err), "err", err)
	}
	args = append(args, "duration", time.Since(begin))
	s.logger.Log(ctx, level, msg, args...)
}

// Search delegates to the wrapped service and logs the query.
func (s *LoggingQueryService) Search(ctx context.Context, query, namespace string) (hits []rhinodoc.SearchHit, err error) {
	defer func(begin time.Time) {
		s.log(ctx, "search", begin, err, "query", query, "namespace", namespace, "count", len(hits))
	}(time.Now())
	return s.next.Search(ctx, query, namespace)
}

// ClassDetails delegates to the wrapped service and logs the lookup.
func (s *LoggingQueryService) ClassDetails(ctx context.Context, className, namespaceHint string) (class *rhinodoc.Class, err error) {
	defer func(begin time.Time) {
		s.log(ctx, "class details", begin, err, "class", className, "namespace", namespaceHint)
	}(time.Now())
	return s.next.ClassDetails(ctx, className, namespaceHint)
}

// Examples delegates to the wrapped service and logs the lookup.
func (s *LoggingQueryService) Examples(ctx context.Context, className string) (examples []rhinodoc.Example, err error) {
	defer func(begin time.Time) {
		s.log(ctx, "examples", begin, err, "class", className, "count", len(examples))
	}(time.Now())
	return s.next.Examples(ctx, className)
}

// Namespaces delegates to the wrapped service.
func (s *LoggingQueryService) Namespaces() []string {
	return s.next.Namespaces()
}

// NamespaceShard delegates to the wrapped service and logs the lookup.
func (s *LoggingQueryService) NamespaceShard(ctx context.Context, namespace string) (shard *rhinodoc.Shard, err error) {
	defer func(begin time.Time) {
		s.log(ctx, "namespace shard", begin, err, "namespace", namespace)
	}(time.Now())
	return s.next.NamespaceShard(ctx, namespace)
}
