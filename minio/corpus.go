// Package minio provides S3-compatible object storage for the documentation
// corpus using the MinIO client.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/fwojciec/rhinodoc"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ManifestObject is the object name of a manifest inside a version prefix.
const ManifestObject = "index.json"

// Config holds connection settings for an S3-compatible endpoint.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// Prefix is prepended to every object key, e.g. "docs/".
	Prefix string
}

// Ensure CorpusStore implements rhinodoc.CorpusStore at compile time.
var _ rhinodoc.CorpusStore = (*CorpusStore)(nil)

// CorpusStore implements rhinodoc.CorpusStore on an S3 bucket. Objects of
// a version live under <prefix>v<version>/. Shards are uploaded before the
// manifest, so a reader never sees a manifest naming missing shards.
type CorpusStore struct {
	client *minio.Client
	bucket string
	region string
	prefix string

	initOnce sync.Once
	initErr  error
}

// NewCorpusStore creates a CorpusStore from cfg. Returns EINVALID when
// the endpoint, credentials or bucket are missing.
func NewCorpusStore(cfg Config) (*CorpusStore, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, rhinodoc.Errorf(rhinodoc.EINVALID, "s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, rhinodoc.Errorf(rhinodoc.EINVALID, "s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, rhinodoc.Errorf(rhinodoc.EINVALID, "s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &CorpusStore{
		client: client,
		bucket: bucket,
		region: region,
		prefix: cfg.Prefix,
	}, nil
}

// VersionPrefix returns the key prefix holding a version's objects.
func VersionPrefix(prefix, version string) string {
	return prefix + "v" + version + "/"
}

// ShardKey returns the object key of a namespace shard.
func ShardKey(prefix, version, namespace string) string {
	return VersionPrefix(prefix, version) + rhinodoc.StorageKey(namespace) + ".json"
}

// ManifestKey returns the object key of a version's manifest.
func ManifestKey(prefix, version string) string {
	return VersionPrefix(prefix, version) + ManifestObject
}

// namespaceFromKey recovers the namespace of a shard key under
// versionPrefix. Reports false for the manifest and foreign objects.
func namespaceFromKey(versionPrefix, key string) (string, bool) {
	name, ok := strings.CutPrefix(key, versionPrefix)
	if !ok || name == ManifestObject || strings.Contains(name, "/") {
		return "", false
	}
	base, ok := strings.CutSuffix(name, ".json")
	if !ok {
		return "", false
	}
	ns, err := rhinodoc.ParseStorageKey(base)
	if err != nil {
		return "", false
	}
	return ns, true
}

func (s *CorpusStore) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Persist uploads every shard, removes shard objects of namespaces no
// longer in the corpus, then writes the manifest.
func (s *CorpusStore) Persist(ctx context.Context, corpus rhinodoc.Corpus, version string) error {
	if err := rhinodoc.ValidateCorpus(corpus, version); err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	manifest := corpus.Manifest(version)
	for _, ns := range manifest.Namespaces {
		if err := s.put(ctx, ShardKey(s.prefix, version, ns), corpus[ns]); err != nil {
			return fmt.Errorf("put shard %s: %w", ns, err)
		}
	}

	versionPrefix := VersionPrefix(s.prefix, version)
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    versionPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return obj.Err
		}
		ns, ok := namespaceFromKey(versionPrefix, obj.Key)
		if !ok || manifest.HasNamespace(ns) {
			continue
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove stale shard %s: %w", ns, err)
		}
	}

	return s.put(ctx, ManifestKey(s.prefix, version), manifest)
}

func (s *CorpusStore) put(ctx context.Context, key string, v any) error {
	data, err := rhinodoc.MarshalDocument(v)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

// LoadManifest downloads the manifest of version.
func (s *CorpusStore) LoadManifest(ctx context.Context, version string) (*rhinodoc.Manifest, error) {
	if err := rhinodoc.ValidateSegment("version", version); err != nil {
		return nil, err
	}
	data, err := s.get(ctx, ManifestKey(s.prefix, version))
	if err != nil {
		return nil, err
	}
	return rhinodoc.UnmarshalManifest(data)
}

// LoadShard downloads one namespace shard of version.
func (s *CorpusStore) LoadShard(ctx context.Context, namespace, version string) (*rhinodoc.Shard, error) {
	if err := rhinodoc.ValidateSegment("version", version); err != nil {
		return nil, err
	}
	if err := rhinodoc.ValidateSegment("namespace", namespace); err != nil {
		return nil, err
	}
	data, err := s.get(ctx, ShardKey(s.prefix, version, namespace))
	if err != nil {
		return nil, err
	}
	return rhinodoc.UnmarshalShard(data)
}

func (s *CorpusStore) get(ctx context.Context, key string) ([]byte, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, rhinodoc.Errorf(rhinodoc.ENOTFOUND, "%s not found", path.Base(key))
		}
		return nil, err
	}
	return data, nil
}
