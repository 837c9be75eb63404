package rhinodoc

import (
	"context"
	"strings"
)

// MemberKind discriminates documentation-comment entries.
type MemberKind int

// MemberKind constants. The zero value is not a valid kind.
const (
	KindType MemberKind = iota + 1
	KindMethod
	KindProperty
	KindField
)

var kindTags = map[MemberKind]string{
	KindType:     "T",
	KindMethod:   "M",
	KindProperty: "P",
	KindField:    "F",
}

// Kinds lists every valid member kind in tag order.
func Kinds() []MemberKind {
	return []MemberKind{KindType, KindMethod, KindProperty, KindField}
}

// Valid reports whether k is one of the declared kinds.
func (k MemberKind) Valid() bool {
	_, ok := kindTags[k]
	return ok
}

// Tag returns the single-letter documentation prefix for k ("T", "M", ...).
func (k MemberKind) Tag() string {
	return kindTags[k]
}

func (k MemberKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindMethod:
		return "method"
	case KindProperty:
		return "property"
	case KindField:
		return "field"
	}
	return "unknown"
}

// ParseMemberName splits a tagged documentation name such as
// "M:Rhino.Geometry.Brep.IsValid()" into its kind and qualified name.
// Tags other than T, M, P and F return EINVALID.
func ParseMemberName(s string) (MemberKind, string, error) {
	tag, name, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return 0, "", Errorf(EINVALID, "malformed member name %q", s)
	}
	for kind, t := range kindTags {
		if t == tag {
			return kind, name, nil
		}
	}
	return 0, "", Errorf(EINVALID, "unsupported member tag %q", tag)
}

// Parameter describes a single method parameter.
type Parameter struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Member is one raw documentation-comment entry. Params and Returns are
// only meaningful for methods, Value only for properties.
type Member struct {
	Kind    MemberKind
	Name    string // qualified name without tag; methods keep their parameter list
	Summary string
	Remarks string
	Params  []Parameter
	Returns string
	Value   string
}

// Owner splits the member into the full name of its declaring type and its
// own short name. For types the owner is the namespace. Method overload
// signatures are removed before splitting.
func (m *Member) Owner() (owner, name string, ok bool) {
	if m.Kind == KindMethod {
		return SplitName(StripSignature(m.Name))
	}
	return SplitName(m.Name)
}

// MemberSource produces the raw members of a documentation source.
type MemberSource interface {
	// Members returns every supported member in source order.
	// Returns EPARSE if the source cannot be parsed at all.
	Members(ctx context.Context) ([]*Member, error)
}
