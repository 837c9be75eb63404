package rhinodoc

import (
	"bytes"
	"encoding/json"
)

// MarshalDocument encodes a shard or manifest in its persisted form:
// two-space indented JSON in struct field order with a trailing newline.
// Equal values always encode to identical bytes.
func MarshalDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalShard decodes a persisted shard.
// Returns EINTERNAL if the stored bytes are not a valid shard.
func UnmarshalShard(data []byte) (*Shard, error) {
	var s Shard
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, Errorf(EINTERNAL, "corrupt shard: %v", err)
	}
	s.normalize()
	return &s, nil
}

// normalize drops null classes and turns null member lists into empty
// ones, so a decoded shard serves the same way a built one does.
func (s *Shard) normalize() {
	classes := make([]*Class, 0, len(s.Classes))
	for _, c := range s.Classes {
		if c == nil {
			continue
		}
		if c.Methods == nil {
			c.Methods = []Method{}
		}
		for i := range c.Methods {
			if c.Methods[i].Parameters == nil {
				c.Methods[i].Parameters = []Parameter{}
			}
		}
		if c.Properties == nil {
			c.Properties = []Property{}
		}
		if c.Fields == nil {
			c.Fields = []Field{}
		}
		classes = append(classes, c)
	}
	s.Classes = classes
}

// UnmarshalManifest decodes a persisted manifest.
// Returns EINTERNAL if the stored bytes are not a valid manifest.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, Errorf(EINTERNAL, "corrupt manifest: %v", err)
	}
	if m.Namespaces == nil {
		m.Namespaces = []string{}
	}
	return &m, nil
}

// ValidateCorpus checks that every shard can be persisted under version.
// Returns EINVALID for an unusable version or namespace, or a shard whose
// own namespace disagrees with its key.
func ValidateCorpus(corpus Corpus, version string) error {
	if err := ValidateSegment("version", version); err != nil {
		return err
	}
	for ns, shard := range corpus {
		if err := ValidateSegment("namespace", ns); err != nil {
			return err
		}
		if shard == nil || shard.Namespace != ns {
			return Errorf(EINVALID, "shard keyed %q has a mismatched namespace", ns)
		}
	}
	return nil
}
