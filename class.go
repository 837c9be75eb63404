package rhinodoc

import (
	"context"
	"slices"
	"strings"
)

// Method is a documented method attached to a class.
type Method struct {
	Name string `json:"name"`

	// Signature is the qualified name with its parameter list, e.g.
	// "Rhino.Geometry.Brep.Split(Rhino.Geometry.Brep,System.Double)".
	// Keeping the parameters tells overloads apart; older corpora stored
	// the bare "Rhino.Geometry.Brep.Split" here.
	Signature   string      `json:"signature"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
	Remarks     string      `json:"remarks"`
}

// Property is a documented property attached to a class.
type Property struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       string `json:"value"`
}

// Field is a documented field attached to a class.
type Field struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Class is a documented type together with its members.
type Class struct {
	Name        string     `json:"name"`
	FullName    string     `json:"full_name"`
	Description string     `json:"description"`
	Remarks     string     `json:"remarks"`
	Methods     []Method   `json:"methods"`
	Properties  []Property `json:"properties"`
	Fields      []Field    `json:"fields"`
	URL         string     `json:"url"`
}

// Clone returns a deep copy of c.
func (c *Class) Clone() *Class {
	other := *c
	other.Methods = make([]Method, len(c.Methods))
	for i, m := range c.Methods {
		m.Parameters = slices.Clone(m.Parameters)
		if m.Parameters == nil {
			m.Parameters = []Parameter{}
		}
		other.Methods[i] = m
	}
	other.Properties = append([]Property{}, c.Properties...)
	other.Fields = append([]Field{}, c.Fields...)
	return &other
}

// Shard holds every class of one namespace.
type Shard struct {
	Namespace string   `json:"namespace"`
	Classes   []*Class `json:"classes"`
}

// FindClass returns the class with the exact full name, or nil.
func (s *Shard) FindClass(fullName string) *Class {
	for _, c := range s.Classes {
		if c.FullName == fullName {
			return c
		}
	}
	return nil
}

// FindClassByName returns the first class whose short name matches name
// case-insensitively, or nil.
func (s *Shard) FindClassByName(name string) *Class {
	for _, c := range s.Classes {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// Manifest indexes one corpus version.
type Manifest struct {
	Version      string   `json:"version"`
	Namespaces   []string `json:"namespaces"`
	TotalClasses int      `json:"total_classes"`
}

// HasNamespace reports whether ns is listed in the manifest.
func (m *Manifest) HasNamespace(ns string) bool {
	return slices.Contains(m.Namespaces, ns)
}

// Corpus maps namespace ids to their shards.
type Corpus map[string]*Shard

// Namespaces returns the namespace ids in sorted order.
func (c Corpus) Namespaces() []string {
	ns := make([]string, 0, len(c))
	for id := range c {
		ns = append(ns, id)
	}
	slices.Sort(ns)
	return ns
}

// TotalClasses returns the number of classes across all shards.
func (c Corpus) TotalClasses() int {
	var n int
	for _, s := range c {
		n += len(s.Classes)
	}
	return n
}

// Manifest describes the corpus as the given version.
func (c Corpus) Manifest(version string) *Manifest {
	return &Manifest{
		Version:      version,
		Namespaces:   c.Namespaces(),
		TotalClasses: c.TotalClasses(),
	}
}

// CorpusStore persists and loads corpus versions.
type CorpusStore interface {
	// Persist writes every shard plus a manifest for version, replacing
	// whatever was stored for that version before.
	Persist(ctx context.Context, corpus Corpus, version string) error

	// LoadManifest returns the manifest for version.
	// Returns ENOTFOUND if the version has not been persisted.
	LoadManifest(ctx context.Context, version string) (*Manifest, error)

	// LoadShard returns one namespace shard of version.
	// Returns ENOTFOUND if the shard does not exist.
	LoadShard(ctx context.Context, namespace, version string) (*Shard, error)
}

// Example is a usage example for a class.
type Example struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Code        string `json:"code"`
}

// ExampleStore looks up usage examples by class name.
type ExampleStore interface {
	// FindExamples returns the examples for a class. A class without
	// examples yields an empty slice, not an error.
	FindExamples(ctx context.Context, className string) ([]Example, error)
}
