package rhinodoc

import "context"

// ExcerptLength is the number of characters kept in a search hit excerpt.
const ExcerptLength = 200

// HitKind identifies what a search hit matched.
type HitKind string

// HitKind constants.
const (
	HitClass  HitKind = "class"
	HitMethod HitKind = "method"
)

// SearchHit is a single match returned by QueryService.Search.
type SearchHit struct {
	Kind        HitKind `json:"kind"`
	Namespace   string  `json:"namespace"`
	OwningClass string  `json:"owning_class,omitempty"`
	Name        string  `json:"name"`
	Signature   string  `json:"signature,omitempty"`
	Excerpt     string  `json:"description_excerpt"`
	URL         string  `json:"url,omitempty"`
}

// Excerpt returns the first ExcerptLength characters of s.
func Excerpt(s string) string {
	n := 0
	for i := range s {
		if n == ExcerptLength {
			return s[:i]
		}
		n++
	}
	return s
}

// QueryService answers name-based queries over a persisted corpus.
// Implementations must be safe for concurrent use.
type QueryService interface {
	// Search matches query case-insensitively against class and method
	// names. An empty namespace searches every namespace. An unknown
	// namespace yields no hits.
	Search(ctx context.Context, query, namespace string) ([]SearchHit, error)

	// ClassDetails returns the first class whose name matches
	// case-insensitively, trying namespaceHint first.
	// Returns ENOTFOUND if no namespace has the class.
	ClassDetails(ctx context.Context, className, namespaceHint string) (*Class, error)

	// Examples returns usage examples for a class, possibly none.
	Examples(ctx context.Context, className string) ([]Example, error)

	// Namespaces lists the namespace ids in manifest order.
	Namespaces() []string

	// NamespaceShard returns the full shard of one namespace.
	// Returns ENOTFOUND for namespaces outside the manifest.
	NamespaceShard(ctx context.Context, namespace string) (*Shard, error)
}
