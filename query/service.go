// Package query answers name lookups over a persisted corpus, loading
// namespace shards lazily through a bounded cache.
package query

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/fwojciec/rhinodoc"
	"github.com/fwojciec/rhinodoc/lru"
)

// Operation names attached to errors returned by Service.
const (
	OpSearch         = "search"
	OpClassDetails   = "get_class_details"
	OpExamples       = "get_examples"
	OpNamespaceShard = "get_namespace"
)

// Ensure Service implements rhinodoc.QueryService.
var _ rhinodoc.QueryService = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithExamples sets the store examples are looked up in.
func WithExamples(store rhinodoc.ExampleStore) Option {
	return func(s *Service) {
		s.examples = store
	}
}

// WithCapacity sets how many shards stay resident.
func WithCapacity(n int) Option {
	return func(s *Service) {
		s.capacity = n
	}
}

// WithLogger sets the logger for skipped shards and recovered faults.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// Service implements rhinodoc.QueryService over a CorpusStore.
type Service struct {
	store    rhinodoc.CorpusStore
	examples rhinodoc.ExampleStore
	version  string
	manifest *rhinodoc.Manifest
	capacity int
	cache    *lru.ShardCache
	logger   *slog.Logger
}

// NewService loads the manifest for version and returns a ready service.
// A version that was never persisted yields a service over an empty
// manifest; any other store error fails construction.
func NewService(ctx context.Context, store rhinodoc.CorpusStore, version string, opts ...Option) (*Service, error) {
	s := &Service{
		store:    store,
		version:  version,
		capacity: lru.DefaultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.cache = lru.NewShardCache(s.capacity)

	m, err := store.LoadManifest(ctx, version)
	switch {
	case rhinodoc.ErrorCode(err) == rhinodoc.ENOTFOUND:
		s.logger.Warn("manifest not found, serving empty corpus", "version", version)
		m = &rhinodoc.Manifest{Version: version, Namespaces: []string{}}
	case err != nil:
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	s.manifest = m
	return s, nil
}

// Manifest returns a copy of the loaded manifest.
func (s *Service) Manifest() rhinodoc.Manifest {
	m := *s.manifest
	m.Namespaces = slices.Clone(m.Namespaces)
	return m
}

// CacheStats reports shard cache activity.
func (s *Service) CacheStats() lru.Stats {
	return s.cache.Stats()
}

// Namespaces returns the manifest namespaces in persisted order.
func (s *Service) Namespaces() []string {
	return slices.Clone(s.manifest.Namespaces)
}

// Search returns class and method hits whose names contain query,
// ignoring case. Hits follow namespace order, then class order, with a
// class hit ahead of its method hits. An unknown namespace yields no hits.
func (s *Service) Search(ctx context.Context, query, namespace string) (hits []rhinodoc.SearchHit, err error) {
	defer s.recoverFault(OpSearch, &err)

	scope := s.manifest.Namespaces
	if namespace != "" {
		id := rhinodoc.NamespaceID(namespace)
		if !s.manifest.HasNamespace(id) {
			return []rhinodoc.SearchHit{}, nil
		}
		scope = []string{id}
	}

	needle := strings.ToLower(query)
	hits = []rhinodoc.SearchHit{}
	for _, ns := range scope {
		err := s.withShard(ctx, ns, func(shard *rhinodoc.Shard) {
			hits = appendHits(hits, ns, shard, needle)
		})
		if err != nil {
			return nil, rhinodoc.WithOp(OpSearch, err)
		}
	}
	return hits, nil
}

func appendHits(hits []rhinodoc.SearchHit, ns string, shard *rhinodoc.Shard, needle string) []rhinodoc.SearchHit {
	for _, c := range shard.Classes {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			hits = append(hits, rhinodoc.SearchHit{
				Kind:      rhinodoc.HitClass,
				Namespace: ns,
				Name:      c.Name,
				Excerpt:   rhinodoc.Excerpt(c.Description),
				URL:       c.URL,
			})
		}
		for _, m := range c.Methods {
			if !strings.Contains(strings.ToLower(m.Name), needle) {
				continue
			}
			hits = append(hits, rhinodoc.SearchHit{
				Kind:        rhinodoc.HitMethod,
				Namespace:   ns,
				OwningClass: c.Name,
				Name:        m.Name,
				Signature:   m.Signature,
				Excerpt:     rhinodoc.Excerpt(m.Description),
			})
		}
	}
	return hits
}

// ClassDetails returns a copy of the first class named className, ignoring
// case. The hinted namespace is tried first, then the rest of the manifest
// in order. Returns ENOTFOUND if no namespace has the class.
func (s *Service) ClassDetails(ctx context.Context, className, namespaceHint string) (class *rhinodoc.Class, err error) {
	defer s.recoverFault(OpClassDetails, &err)

	// No class has an empty name.
	if className == "" {
		return nil, &rhinodoc.Error{Code: rhinodoc.ENOTFOUND, Message: `class "" not found`, Op: OpClassDetails}
	}

	for _, ns := range s.lookupOrder(namespaceHint) {
		err := s.withShard(ctx, ns, func(shard *rhinodoc.Shard) {
			if c := shard.FindClassByName(className); c != nil {
				class = c.Clone()
			}
		})
		if err != nil {
			return nil, rhinodoc.WithOp(OpClassDetails, err)
		}
		if class != nil {
			return class, nil
		}
	}
	return nil, &rhinodoc.Error{
		Code:    rhinodoc.ENOTFOUND,
		Message: fmt.Sprintf("class %q not found", className),
		Op:      OpClassDetails,
	}
}

func (s *Service) lookupOrder(hint string) []string {
	id := rhinodoc.NamespaceID(hint)
	if hint == "" || !s.manifest.HasNamespace(id) {
		return s.manifest.Namespaces
	}
	order := make([]string, 0, len(s.manifest.Namespaces))
	order = append(order, id)
	for _, ns := range s.manifest.Namespaces {
		if ns != id {
			order = append(order, ns)
		}
	}
	return order
}

// Examples returns the usage examples for className. A service without an
// example store, or a class without examples, yields an empty slice.
func (s *Service) Examples(ctx context.Context, className string) (examples []rhinodoc.Example, err error) {
	defer s.recoverFault(OpExamples, &err)

	if s.examples == nil {
		return []rhinodoc.Example{}, nil
	}
	examples, err = s.examples.FindExamples(ctx, className)
	if err != nil {
		return nil, rhinodoc.WithOp(OpExamples, err)
	}
	if examples == nil {
		examples = []rhinodoc.Example{}
	}
	return examples, nil
}

// NamespaceShard returns the shard of namespace. The shard is shared and
// must not be modified. Returns ENOTFOUND for namespaces outside the
// manifest or whose shard is missing.
func (s *Service) NamespaceShard(ctx context.Context, namespace string) (shard *rhinodoc.Shard, err error) {
	defer s.recoverFault(OpNamespaceShard, &err)

	id := rhinodoc.NamespaceID(namespace)
	if !s.manifest.HasNamespace(id) {
		return nil, &rhinodoc.Error{
			Code:    rhinodoc.ENOTFOUND,
			Message: fmt.Sprintf("namespace %q not found", namespace),
			Op:      OpNamespaceShard,
		}
	}
	err = s.withShard(ctx, id, func(sh *rhinodoc.Shard) {
		shard = sh
	})
	if err != nil {
		return nil, rhinodoc.WithOp(OpNamespaceShard, err)
	}
	if shard == nil {
		return nil, &rhinodoc.Error{
			Code:    rhinodoc.ENOTFOUND,
			Message: fmt.Sprintf("shard for namespace %q not found", namespace),
			Op:      OpNamespaceShard,
		}
	}
	return shard, nil
}

// withShard calls fn with the resident shard of ns, pinned for the
// duration of the call. A shard missing from the store is logged and
// skipped without calling fn.
func (s *Service) withShard(ctx context.Context, ns string, fn func(*rhinodoc.Shard)) error {
	shard, release, err := s.cache.Acquire(ctx, ns, s.loader(ns))
	if rhinodoc.ErrorCode(err) == rhinodoc.ENOTFOUND {
		s.logger.Warn("skipping missing shard", "namespace", ns, "version", s.version)
		return nil
	} else if err != nil {
		return err
	}
	defer release()
	fn(shard)
	return nil
}

// loader returns a cache fill for ns. Store panics become errors here
// because the cache runs fills on their own goroutine.
func (s *Service) loader(ns string) lru.LoadFunc {
	return func(ctx context.Context) (shard *rhinodoc.Shard, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = rhinodoc.Errorf(rhinodoc.EINTERNAL, "loading shard %q: %v", ns, r)
			}
		}()
		shard, err = s.store.LoadShard(ctx, ns, s.version)
		if err == nil && shard == nil {
			err = rhinodoc.Errorf(rhinodoc.ENOTFOUND, "shard %q not found", ns)
		}
		return shard, err
	}
}

func (s *Service) recoverFault(op string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	s.logger.Error("recovered query fault", "op", op, "panic", r)
	*err = &rhinodoc.Error{
		Code:    rhinodoc.EINTERNAL,
		Message: fmt.Sprint(r),
		Op:      op,
	}
}
