// Package fs provides file-based storage for the documentation corpus.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/rhinodoc"
	"golang.org/x/sync/errgroup"
)

// ManifestFile is the name of the manifest inside a version directory.
const ManifestFile = "index.json"

// Ensure CorpusStore implements rhinodoc.CorpusStore at compile time.
var _ rhinodoc.CorpusStore = (*CorpusStore)(nil)

// CorpusStore implements rhinodoc.CorpusStore on a directory tree with
// atomic update semantics. Each version lives in baseDir/v<version>.
// Persist writes into baseDir/v<version>.tmp and swaps it in by rename.
type CorpusStore struct {
	baseDir string

	// Concurrency bounds parallel shard writes. Zero means 8.
	Concurrency int
}

// NewCorpusStore creates a CorpusStore rooted at baseDir.
func NewCorpusStore(baseDir string) *CorpusStore {
	return &CorpusStore{baseDir: baseDir}
}

// VersionDir returns the directory holding a persisted version.
func (s *CorpusStore) VersionDir(version string) string {
	return filepath.Join(s.baseDir, "v"+version)
}

func (s *CorpusStore) tempDir(version string) string {
	return s.VersionDir(version) + ".tmp"
}

// ShardFile returns the file name of a namespace shard.
func ShardFile(namespace string) string {
	return rhinodoc.StorageKey(namespace) + ".json"
}

// Persist writes every shard and the manifest for version, replacing
// whatever was stored for it before. Readers see either the old version
// or the new one, never a mix.
func (s *CorpusStore) Persist(ctx context.Context, corpus rhinodoc.Corpus, version string) error {
	if err := rhinodoc.ValidateCorpus(corpus, version); err != nil {
		return err
	}

	tmp := s.tempDir(version)
	if err := os.RemoveAll(tmp); err != nil {
		return err
	}
	if err := os.MkdirAll(tmp, 0755); err != nil {
		return err
	}

	if err := s.save(ctx, tmp, corpus, version); err != nil {
		_ = s.abort(version)
		return err
	}
	if err := s.commit(version); err != nil {
		_ = s.abort(version)
		return err
	}
	return nil
}

func (s *CorpusStore) save(ctx context.Context, dir string, corpus rhinodoc.Corpus, version string) error {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for ns, shard := range corpus {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeDocument(filepath.Join(dir, ShardFile(ns)), shard)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// The manifest goes last so a partially written directory never
	// carries one.
	return writeDocument(filepath.Join(dir, ManifestFile), corpus.Manifest(version))
}

func writeDocument(path string, v any) error {
	data, err := rhinodoc.MarshalDocument(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *CorpusStore) commit(version string) error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.VersionDir(version)); err != nil {
		return err
	}
	return os.Rename(s.tempDir(version), s.VersionDir(version))
}

func (s *CorpusStore) abort(version string) error {
	return os.RemoveAll(s.tempDir(version))
}

// LoadManifest reads the manifest of version.
// Returns ENOTFOUND if the version has not been persisted.
func (s *CorpusStore) LoadManifest(ctx context.Context, version string) (*rhinodoc.Manifest, error) {
	if err := rhinodoc.ValidateSegment("version", version); err != nil {
		return nil, err
	}
	data, err := readFile(filepath.Join(s.VersionDir(version), ManifestFile))
	if err != nil {
		return nil, err
	}
	return rhinodoc.UnmarshalManifest(data)
}

// LoadShard reads one namespace shard of version.
// Returns ENOTFOUND if the shard does not exist.
func (s *CorpusStore) LoadShard(ctx context.Context, namespace, version string) (*rhinodoc.Shard, error) {
	if err := rhinodoc.ValidateSegment("version", version); err != nil {
		return nil, err
	}
	if err := rhinodoc.ValidateSegment("namespace", namespace); err != nil {
		return nil, err
	}
	data, err := readFile(filepath.Join(s.VersionDir(version), ShardFile(namespace)))
	if err != nil {
		return nil, err
	}
	return rhinodoc.UnmarshalShard(data)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, rhinodoc.Errorf(rhinodoc.ENOTFOUND, "%s not found", filepath.Base(path))
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
