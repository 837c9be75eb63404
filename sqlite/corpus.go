package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/rhinodoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ rhinodoc.CorpusStore  = (*CorpusStore)(nil)
	_ rhinodoc.BuildHistory = (*CorpusStore)(nil)
)

// CorpusStore implements rhinodoc.CorpusStore using SQLite. Each Persist
// replaces a version inside one transaction and records a build.
type CorpusStore struct {
	db *DB

	// Now returns the build timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewCorpusStore creates a new CorpusStore.
func NewCorpusStore(db *DB) *CorpusStore {
	return &CorpusStore{db: db, Now: time.Now}
}

// Persist writes every shard and the manifest for version in one
// transaction, replacing whatever was stored for it before.
func (s *CorpusStore) Persist(ctx context.Context, corpus rhinodoc.Corpus, version string) error {
	if err := rhinodoc.ValidateCorpus(corpus, version); err != nil {
		return err
	}

	manifest := corpus.Manifest(version)
	manifestJSON, err := rhinodoc.MarshalDocument(manifest)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	buildID := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO builds (id, version, namespaces, total_classes, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, buildID, version, len(manifest.Namespaces), manifest.TotalClasses,
		formatTime(s.Now())); err != nil {
		return fmt.Errorf("insert build: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM shards WHERE version = ?`, version); err != nil {
		return fmt.Errorf("clear shards: %w", err)
	}

	for _, ns := range manifest.Namespaces {
		data, err := rhinodoc.MarshalDocument(corpus[ns])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO shards (version, namespace, build_id, content, content_hash)
			VALUES (?, ?, ?, ?, ?)
		`, version, ns, buildID, string(data), hashContent(data)); err != nil {
			return fmt.Errorf("insert shard %s: %w", ns, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO manifests (version, build_id, content)
		VALUES (?, ?, ?)
		ON CONFLICT(version) DO UPDATE SET build_id = excluded.build_id, content = excluded.content
	`, version, buildID, string(manifestJSON)); err != nil {
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
	err := s.db.QueryRowContext(ctx, `
		SELECT content FROM manifests WHERE version = ?
	`, version).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, rhinodoc.Errorf(rhinodoc.ENOTFOUND, "manifest not found")
	}
	if err != nil {
		return nil, err
	}
	return rhinodoc.UnmarshalManifest([]byte(content))
}

// LoadShard retrieves one namespace shard of version. The stored content
// hash is checked before decoding; a mismatch returns EINTERNAL.
func (s *CorpusStore) LoadShard(ctx context.Context, namespace, version string) (*rhinodoc.Shard, error) {
	if err := rhinodoc.ValidateSegment("version", version); err != nil {
		return nil, err
	}
	if err := rhinodoc.ValidateSegment("namespace", namespace); err != nil {
		return nil, err
	}

	var content, hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT content, content_hash FROM shards WHERE version = ? AND namespace = ?
	`, version, namespace).Scan(&content, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, rhinodoc.Errorf(rhinodoc.ENOTFOUND, "shard not found")
	}
	if err != nil {
		return nil, err
	}

	if got := hashContent([]byte(content)); got != hash {
		return nil, rhinodoc.Errorf(rhinodoc.EINTERNAL, "shard %s@%s failed its content check", namespace, version)
	}
	return rhinodoc.UnmarshalShard([]byte(content))
}

// FindBuilds returns recorded builds, newest first.
func (s *CorpusStore) FindBuilds(ctx context.Context, version string) ([]*rhinodoc.BuildRecord, error) {
	query := `SELECT id, version, namespaces, total_classes, created_at FROM builds`
	var args []any
	if version != "" {
		query += ` WHERE version = ?`
		args = append(args, version)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	builds := []*rhinodoc.BuildRecord{}
	for rows.Next() {
		var b rhinodoc.BuildRecord
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Version, &b.Namespaces, &b.TotalClasses, &createdAt); err != nil {
			return nil, err
		}
		if b.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		builds = append(builds, &b)
	}
	return builds, rows.Err()
}
