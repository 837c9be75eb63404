package postgres

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/rhinodoc"
	"github.com/google/uuid"
)

var (
	_ rhinodoc.CorpusStore  = (*CorpusStore)(nil)
	_ rhinodoc.BuildHistory = (*CorpusStore)(nil)
)

// CorpusStore implements rhinodoc.CorpusStore on PostgreSQL with the same
// tables and guarantees as the SQLite store.
type CorpusStore struct {
	db *DB

	// Now returns the build timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewCorpusStore creates a new CorpusStore.
func NewCorpusStore(db *DB) *CorpusStore {
	return &CorpusStore{db: db, Now: time.Now}
}

// ContentHash returns the hex xxHash of a persisted shard.
func ContentHash(content []byte) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64(content))
	return hex.EncodeToString(b[:])
}

// Persist replaces version with corpus in one transaction.
func (s *CorpusStore) Persist(ctx context.Context, corpus rhinodoc.Corpus, version string) error {
	if err := rhinodoc.ValidateCorpus(corpus, version); err != nil {
		return err
	}

	manifest := corpus.Manifest(version)
	manifestJSON, err := rhinodoc.MarshalDocument(manifest)
	if err != nil {
		return err
	}

	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	buildID := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO builds (id, version, namespaces, total_classes, created_at)
VALUES ($1, $2, $3, $4, $5)`,
		buildID, version, len(manifest.Namespaces), manifest.TotalClasses, s.Now().UTC()); err != nil {
		return fmt.Errorf("insert build: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM shards WHERE version = $1`, version); err != nil {
		return fmt.Errorf("clear shards: %w", err)
	}

	for _, ns := range manifest.Namespaces {
		data, err := rhinodoc.MarshalDocument(corpus[ns])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO shards (version, namespace, build_id, content, content_hash)
VALUES ($1, $2, $3, $4, $5)`,
			version, ns, buildID, string(data), ContentHash(data)); err != nil {
			return fmt.Errorf("insert shard %s: %w", ns, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO manifests (version, build_id, content)
VALUES ($1, $2, $3)
ON CONFLICT (version)
DO UPDATE SET build_id = EXCLUDED.build_id, content = EXCLUDED.content`,
		version, buildID, string(manifestJSON)); err != nil {
		return fmt.Errorf("upsert manifest: %w", err)
	}

	return tx.Commit()
}

// LoadManifest retrieves the manifest of version.
func (s *CorpusStore) LoadManifest(ctx context.Context, version string) (*rhinodoc.Manifest, error) {
	if err := rhinodoc.ValidateSegment("version", version); err != nil {
		return nil, err
	}

	var content string
	err := s.db.db.QueryRowContext(ctx, `SELECT content FROM manifests WHERE version = $1`, version).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, rhinodoc.Errorf(rhinodoc.ENOTFOUND, "manifest not found")
	} else if err != nil {
		return nil, err
	}
	return rhinodoc.UnmarshalManifest([]byte(content))
}

// LoadShard retrieves one namespace shard of version, verifying its
// content hash.
func (s *CorpusStore) LoadShard(ctx context.Context, namespace, version string) (*rhinodoc.Shard, error) {
	if err := rhinodoc.ValidateSegment("version", version); err != nil {
		return nil, err
	}
	if err := rhinodoc.ValidateSegment("namespace", namespace); err != nil {
		return nil, err
	}

	var content, hash string
	err := s.db.db.QueryRowContext(ctx, `
SELECT content, content_hash FROM shards WHERE version = $1 AND namespace = $2`,
		version, namespace).Scan(&content, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, rhinodoc.Errorf(rhinodoc.ENOTFOUND, "shard not found")
	} else if err != nil {
		return nil, err
	}

	if ContentHash([]byte(content)) != hash {
		return nil, rhinodoc.Errorf(rhinodoc.EINTERNAL, "shard %s@%s failed its content check", namespace, version)
	}
	return rhinodoc.UnmarshalShard([]byte(content))
}

// FindBuilds returns recorded builds, newest first.
func (s *CorpusStore) FindBuilds(ctx context.Context, version string) ([]*rhinodoc.BuildRecord, error) {
	rows, err := s.db.db.QueryContext(ctx, `
SELECT id, version, namespaces, total_classes, created_at
FROM builds
WHERE $1 = '' OR version = $1
ORDER BY created_at DESC`, version)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	builds := []*rhinodoc.BuildRecord{}
	for rows.Next() {
		var b rhinodoc.BuildRecord
		if err := rows.Scan(&b.ID, &b.Version, &b.Namespaces, &b.TotalClasses, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.CreatedAt = b.CreatedAt.UTC()
		builds = append(builds, &b)
	}
	return builds, rows.Err()
}
