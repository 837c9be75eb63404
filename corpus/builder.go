// Package corpus assembles raw documentation members into a namespace-
// sharded corpus of class records.
package corpus

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/fwojciec/rhinodoc"
)

// DefaultRoot is the qualified-name prefix of documented types.
const DefaultRoot = "Rhino."

// Builder turns members into a corpus in two passes: every type becomes a
// class first, then methods, properties and fields attach to their owner
// through a full-name index. Input order therefore never affects the result.
type Builder struct {
	// Root limits the corpus to types whose full name starts with it.
	Root string

	// BaseURL prefixes class documentation links.
	BaseURL string

	// Logger receives collision, rejection and orphan diagnostics.
	Logger *slog.Logger
}

// NewBuilder returns a Builder with the default root and URL base.
func NewBuilder() *Builder {
	return &Builder{Root: DefaultRoot, BaseURL: rhinodoc.DefaultClassURL}
}

// Orphan is a member whose owning class was not found.
type Orphan struct {
	Kind  rhinodoc.MemberKind
	Name  string
	Owner string
}

// Rejected is a type entry whose name could not be split into a namespace
// and a class name.
type Rejected struct {
	Name   string
	Reason string
}

// Report describes what a build did with its input.
type Report struct {
	Types      int
	Methods    int
	Properties int
	Fields     int

	// Skipped counts type entries outside the root prefix.
	Skipped int

	// Collisions lists full names defined by more than one type entry.
	Collisions []string

	Rejected []Rejected
	Orphans  []Orphan
}

// OrphanCount returns the number of dropped members.
func (r *Report) OrphanCount() int {
	return len(r.Orphans)
}

// BuildFrom reads every member from src and builds a corpus from them.
// A source error aborts the build before anything is produced.
func (b *Builder) BuildFrom(ctx context.Context, src rhinodoc.MemberSource) (rhinodoc.Corpus, *Report, error) {
	members, err := src.Members(ctx)
	if err != nil {
		return nil, nil, err
	}
	return b.Build(members)
}

// Build assembles members into shards keyed by lower-cased namespace id.
// Returns EPARSE if any member has an unknown kind; no corpus is produced
// in that case.
func (b *Builder) Build(members []*rhinodoc.Member) (rhinodoc.Corpus, *Report, error) {
	for i, m := range members {
		if m == nil || !m.Kind.Valid() {
			return nil, nil, rhinodoc.Errorf(rhinodoc.EPARSE, "member %d has no valid kind", i)
		}
	}

	logger := b.logger()
	report := &Report{}
	corpus := make(rhinodoc.Corpus)
	index := make(map[string]*rhinodoc.Class)

	// Pass 1: types.
	for _, m := range members {
		if m.Kind != rhinodoc.KindType {
			continue
		}
		if !strings.HasPrefix(m.Name, b.root()) {
			report.Skipped++
			continue
		}
		ns, name, ok := m.Owner()
		if !ok {
			report.Rejected = append(report.Rejected, Rejected{Name: m.Name, Reason: "no namespace"})
			logger.Warn("rejected type", "name", m.Name)
			continue
		}

		class := b.newClass(m, name)
		if existing, ok := index[m.Name]; ok {
			*existing = *class
			report.Collisions = append(report.Collisions, m.Name)
			logger.Warn("duplicate type", "name", m.Name)
			continue
		}

		id := rhinodoc.NamespaceID(ns)
		shard, ok := corpus[id]
		if !ok {
			shard = &rhinodoc.Shard{Namespace: id, Classes: []*rhinodoc.Class{}}
			corpus[id] = shard
		}
		shard.Classes = append(shard.Classes, class)
		index[m.Name] = class
		report.Types++
	}

	// Pass 2: members.
	for _, m := range members {
		if m.Kind == rhinodoc.KindType {
			continue
		}
		owner, name, ok := m.Owner()
		class := index[owner]
		if !ok || class == nil {
			report.Orphans = append(report.Orphans, Orphan{Kind: m.Kind, Name: m.Name, Owner: owner})
			logger.Debug("orphaned member", "kind", m.Kind.String(), "name", m.Name)
			continue
		}
		attach(class, m, name, report)
	}

	for _, shard := range corpus {
		sortShard(shard)
	}

	logger.Info("corpus built",
		"namespaces", len(corpus),
		"classes", report.Types,
		"methods", report.Methods,
		"properties", report.Properties,
		"fields", report.Fields,
		"orphans", report.OrphanCount(),
		"collisions", len(report.Collisions),
	)

	return corpus, report, nil
}

func (b *Builder) newClass(m *rhinodoc.Member, name string) *rhinodoc.Class {
	return &rhinodoc.Class{
		Name:        name,
		FullName:    m.Name,
		Description: m.Summary,
		Remarks:     m.Remarks,
		Methods:     []rhinodoc.Method{},
		Properties:  []rhinodoc.Property{},
		Fields:      []rhinodoc.Field{},
		URL:         rhinodoc.ClassURL(b.BaseURL, m.Name),
	}
}

func attach(class *rhinodoc.Class, m *rhinodoc.Member, name string, report *Report) {
	switch m.Kind {
	case rhinodoc.KindMethod:
		params := slices.Clone(m.Params)
		if params == nil {
			params = []rhinodoc.Parameter{}
		}
		class.Methods = append(class.Methods, rhinodoc.Method{
			Name:        name,
			Signature:   m.Name, // keeps the parameter list
			Description: m.Summary,
			Parameters:  params,
			Returns:     m.Returns,
			Remarks:     m.Remarks,
		})
		report.Methods++
	case rhinodoc.KindProperty:
		class.Properties = append(class.Properties, rhinodoc.Property{
			Name:        name,
			Description: m.Summary,
			Value:       m.Value,
		})
		report.Properties++
	case rhinodoc.KindField:
		class.Fields = append(class.Fields, rhinodoc.Field{
			Name:        name,
			Description: m.Summary,
		})
		report.Fields++
	}
}

// sortShard puts classes and their members in a canonical order so that
// permuted input produces identical shards. Members sharing a name are
// ordered by their whole content.
func sortShard(s *rhinodoc.Shard) {
	slices.SortFunc(s.Classes, func(a, b *rhinodoc.Class) int {
		return strings.Compare(a.FullName, b.FullName)
	})
	for _, c := range s.Classes {
		slices.SortFunc(c.Methods, compareMethods)
		slices.SortFunc(c.Properties, func(a, b rhinodoc.Property) int {
			return cmp.Or(
				strings.Compare(a.Name, b.Name),
				strings.Compare(a.Description, b.Description),
				strings.Compare(a.Value, b.Value),
			)
		})
		slices.SortFunc(c.Fields, func(a, b rhinodoc.Field) int {
			return cmp.Or(
				strings.Compare(a.Name, b.Name),
				strings.Compare(a.Description, b.Description),
			)
		})
	}
}

func compareMethods(a, b rhinodoc.Method) int {
	return cmp.Or(
		strings.Compare(a.Name, b.Name),
		strings.Compare(a.Signature, b.Signature),
		strings.Compare(a.Description, b.Description),
		strings.Compare(a.Returns, b.Returns),
		strings.Compare(a.Remarks, b.Remarks),
		slices.CompareFunc(a.Parameters, b.Parameters, func(x, y rhinodoc.Parameter) int {
			return cmp.Or(
				strings.Compare(x.Name, y.Name),
				strings.Compare(x.Description, y.Description),
			)
		}),
	)
}

func (b *Builder) root() string {
	if b.Root == "" {
		return DefaultRoot
	}
	return b.Root
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b.Logger
}
