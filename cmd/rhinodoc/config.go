package main

import (
	"strconv"
	"strings"

	"github.com/fwojciec/rhinodoc/minio"
)

// LoadS3Config reads the s3 backend settings from the environment.
func LoadS3Config(getenv func(string) string) minio.Config {
	env := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}
	return minio.Config{
		Endpoint:  env("RHINODOC_S3_ENDPOINT"),
		Region:    firstNonEmpty(env("RHINODOC_S3_REGION"), "us-east-1"),
		AccessKey: firstNonEmpty(env("RHINODOC_S3_ACCESS_KEY"), env("MINIO_ROOT_USER")),
		SecretKey: firstNonEmpty(env("RHINODOC_S3_SECRET_KEY"), env("MINIO_ROOT_PASSWORD")),
		Bucket:    firstNonEmpty(env("RHINODOC_S3_BUCKET"), "rhinodoc"),
		UseSSL:    parseBool(env("RHINODOC_S3_USE_SSL"), true),
		Prefix:    env("RHINODOC_S3_PREFIX"),
	}
}

func parseBool(raw string, fallback bool) bool {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
