// Package etree reads .NET XML documentation files into rhinodoc members.
package etree

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/rhinodoc"
)

// Ensure Source implements rhinodoc.MemberSource.
var _ rhinodoc.MemberSource = (*Source)(nil)

// Source parses members from an XML documentation file such as
// RhinoCommon.xml.
type Source struct {
	open func() (io.ReadCloser, error)
}

// NewSource creates a Source reading the file at path.
func NewSource(path string) *Source {
	return &Source{open: func() (io.ReadCloser, error) {
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, rhinodoc.Errorf(rhinodoc.ENOTFOUND, "documentation file %q not found", path)
		}
		return f, err
	}}
}

// NewReaderSource creates a Source reading r. Members can be called once.
func NewReaderSource(r io.Reader) *Source {
	return &Source{open: func() (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	}}
}

// Members parses the whole document. Members with tags other than T, M, P
// and F are skipped. Returns EPARSE for malformed XML or a document whose
// root element is not <doc>.
func (s *Source) Members(ctx context.Context) ([]*rhinodoc.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := s.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Parse(rc)
}

// Parse reads every supported member from r.
func Parse(r io.Reader) ([]*rhinodoc.Member, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, rhinodoc.Errorf(rhinodoc.EPARSE, "parsing documentation XML: %s", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, rhinodoc.Errorf(rhinodoc.EPARSE, "empty documentation XML")
	}
	if root.Tag != "doc" {
		return nil, rhinodoc.Errorf(rhinodoc.EPARSE, "unexpected root element <%s>", root.Tag)
	}

	var members []*rhinodoc.Member
	for _, el := range root.FindElements(".//member") {
		m, ok := parseMember(el)
		if !ok {
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

// parseFunc fills the kind-specific payload of a member.
type parseFunc func(el *etree.Element, m *rhinodoc.Member)

var parsers = map[rhinodoc.MemberKind]parseFunc{
	rhinodoc.KindType:     parseType,
	rhinodoc.KindMethod:   parseMethod,
	rhinodoc.KindProperty: parseProperty,
	rhinodoc.KindField:    parseField,
}

func parseMember(el *etree.Element) (*rhinodoc.Member, bool) {
	raw := strings.TrimSpace(el.SelectAttrValue("name", ""))
	if raw == "" {
		return nil, false
	}
	kind, name, err := rhinodoc.ParseMemberName(raw)
	if err != nil {
		return nil, false
	}
	m := &rhinodoc.Member{Kind: kind, Name: name}
	parsers[kind](el, m)
	return m, true
}

func parseType(el *etree.Element, m *rhinodoc.Member) {
	m.Summary = childText(el, "summary")
	m.Remarks = childText(el, "remarks")
}

func parseMethod(el *etree.Element, m *rhinodoc.Member) {
	m.Summary = childText(el, "summary")
	m.Remarks = childText(el, "remarks")
	m.Returns = childText(el, "returns")
	m.Params = []rhinodoc.Parameter{}
	for _, p := range el.SelectElements("param") {
		m.Params = append(m.Params, rhinodoc.Parameter{
			Name:        p.SelectAttrValue("name", ""),
			Description: innerText(p),
		})
	}
}

func parseProperty(el *etree.Element, m *rhinodoc.Member) {
	m.Summary = childText(el, "summary")
	m.Remarks = childText(el, "remarks")
	m.Value = childText(el, "value")
}

func parseField(el *etree.Element, m *rhinodoc.Member) {
	m.Summary = childText(el, "summary")
	m.Remarks = childText(el, "remarks")
}

// childText returns the flattened text of the first child named tag.
func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return innerText(child)
}

// innerText flattens an element's mixed content into a single line.
func innerText(el *etree.Element) string {
	var b strings.Builder
	writeText(&b, el)
	return strings.Join(strings.Fields(b.String()), " ")
}

func writeText(b *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			writeInline(b, t)
		}
	}
}

func writeInline(b *strings.Builder, el *etree.Element) {
	switch el.Tag {
	case "see", "seealso":
		if cref := el.SelectAttrValue("cref", ""); cref != "" {
			b.WriteString(crefName(cref))
			return
		}
		if word := el.SelectAttrValue("langword", ""); word != "" {
			b.WriteString(word)
			return
		}
		writeText(b, el)
	case "paramref", "typeparamref":
		b.WriteString(el.SelectAttrValue("name", ""))
	case "para", "br", "list", "item":
		b.WriteByte(' ')
		writeText(b, el)
		b.WriteByte(' ')
	default:
		writeText(b, el)
	}
}

// crefName renders a cref such as "M:Rhino.Geometry.Brep.Split(System.Double)"
// as its short name, "Split".
func crefName(cref string) string {
	if _, name, ok := strings.Cut(cref, ":"); ok {
		cref = name
	}
	cref = rhinodoc.StripSignature(cref)
	if _, last, ok := rhinodoc.SplitName(cref); ok {
		return last
	}
	return cref
}
