package rhinodoc

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultClassURL is the documentation site classes link to.
const DefaultClassURL = "https://mcneel-apidocs.herokuapp.com/api/rhinocommon/"

// SplitName splits a qualified name at its last dot.
// Rhino.Geometry.Brep → ("Rhino.Geometry", "Brep").
func SplitName(full string) (prefix, last string, ok bool) {
	i := strings.LastIndexByte(full, '.')
	if i <= 0 || i == len(full)-1 {
		return "", "", false
	}
	return full[:i], full[i+1:], true
}

// StripSignature removes a trailing parenthesized parameter list and
// anything after it (conversion operators append "~ReturnType").
func StripSignature(name string) string {
	if i := strings.IndexByte(name, '('); i >= 0 {
		return name[:i]
	}
	return name
}

// NamespaceID normalizes a dotted namespace to its lower-case id.
func NamespaceID(ns string) string {
	return strings.ToLower(ns)
}

// ClassURL returns the documentation URL for a class.
func ClassURL(base, fullName string) string {
	if base == "" {
		base = DefaultClassURL
	}
	return base + strings.ToLower(fullName)
}

// StorageKey maps a namespace id to a key that is safe as a file or object
// name. Dots become underscores, lower-case letters, digits and hyphens are
// kept, and every other byte is percent-encoded, so distinct ids never
// share a key.
func StorageKey(ns string) string {
	var b strings.Builder
	for i := 0; i < len(ns); i++ {
		c := ns[i]
		switch {
		case c == '.':
			b.WriteByte('_')
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// ParseStorageKey is the inverse of StorageKey.
func ParseStorageKey(key string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch c {
		case '_':
			b.WriteByte('.')
		case '%':
			if i+2 >= len(key) {
				return "", Errorf(EINVALID, "truncated escape in storage key %q", key)
			}
			v, err := strconv.ParseUint(key[i+1:i+3], 16, 8)
			if err != nil {
				return "", Errorf(EINVALID, "bad escape in storage key %q", key)
			}
			b.WriteByte(byte(v))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// ValidateSegment returns EINVALID if s cannot be used as a single storage
// path segment (versions, namespace ids).
func ValidateSegment(kind, s string) error {
	if s == "" {
		return Errorf(EINVALID, "%s required", kind)
	}
	if s == "." || s == ".." || strings.ContainsAny(s, `/\`) || strings.ContainsRune(s, 0) {
		return Errorf(EINVALID, "invalid %s %q", kind, s)
	}
	return nil
}
