package mock

import (
	"context"

	"github.com/fwojciec/rhinodoc"
)

var _ rhinodoc.QueryService = (*QueryService)(nil)

// QueryService is a mock implementation of rhinodoc.QueryService.
type QueryService struct {
	SearchFn         func(ctx context.Context, query, namespace string) ([]rhinodoc.SearchHit, error)
	ClassDetailsFn   func(ctx context.Context, className, namespaceHint string) (*rhinodoc.Class, error)
	ExamplesFn       func(ctx context.Context, className string) ([]rhinodoc.Example, error)
	NamespacesFn     func() []string
	NamespaceShardFn func(ctx context.Context, namespace string) (*rhinodoc.Shard, error)
}

func (s *QueryService) Search(ctx context.Context, query, namespace string) ([]rhinodoc.SearchHit, error) {
	return s.SearchFn(ctx, query, namespace)
}

func (s *QueryService) ClassDetails(ctx context.Context, className, namespaceHint string) (*rhinodoc.Class, error) {
	return s.ClassDetailsFn(ctx, className, namespaceHint)
}

func (s *QueryService) Examples(ctx context.Context, className string) ([]rhinodoc.Example, error) {
	return s.ExamplesFn(ctx, className)
}

func (s *QueryService) Namespaces() []string {
	return s.NamespacesFn()
}

func (s *QueryService) NamespaceShard(ctx context.Context, namespace string) (*rhinodoc.Shard, error) {
	return s.NamespaceShardFn(ctx, namespace)
}
