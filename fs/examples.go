package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/rhinodoc"
)

// Ensure ExampleStore implements rhinodoc.ExampleStore at compile time.
var _ rhinodoc.ExampleStore = (*ExampleStore)(nil)

// ExampleStore reads usage examples from dir/<lower-cased class>.json.
// Each file holds a JSON array of examples.
type ExampleStore struct {
	dir string
}

// NewExampleStore creates an ExampleStore reading from dir.
func NewExampleStore(dir string) *ExampleStore {
	return &ExampleStore{dir: dir}
}

// ExampleFile returns the file name holding the examples of className, or
// "" if the name cannot map to a file inside the store.
func ExampleFile(className string) string {
	if className == "" || strings.ContainsAny(className, `/\`) || strings.Contains(className, "..") {
		return ""
	}
	return strings.ToLower(className) + ".json"
}

// FindExamples returns the examples for className. Unknown classes and
// names that cannot be files yield an empty slice. A file that is not a
// JSON example array returns EINTERNAL.
func (s *ExampleStore) FindExamples(ctx context.Context, className string) ([]rhinodoc.Example, error) {
	name := ExampleFile(className)
	if name == "" {
		return []rhinodoc.Example{}, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return []rhinodoc.Example{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("read examples: %w", err)
	}

	var examples []rhinodoc.Example
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, rhinodoc.Errorf(rhinodoc.EINTERNAL, "corrupt examples for %q: %v", className, err)
	}
	if examples == nil {
		examples = []rhinodoc.Example{}
	}
	return examples, nil
}

// SaveExamples writes the examples of className, replacing any already
// stored. Returns EINVALID for names that cannot be files.
func (s *ExampleStore) SaveExamples(ctx context.Context, className string, examples []rhinodoc.Example) error {
	name := ExampleFile(className)
	if name == "" {
		return rhinodoc.Errorf(rhinodoc.EINVALID, "invalid class name %q", className)
	}
	if examples == nil {
		examples = []rhinodoc.Example{}
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	data, err := rhinodoc.MarshalDocument(examples)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0644)
}
