// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The CipherLite Authors

// Package snapshot ships database files to S3-compatible object storage
// and restores them. Snapshots are whole-file copies: the store stays
// encrypted at rest in the bucket exactly as it is on disk.
package snapshot

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cipherlite/cipherlite-go/pkg/contracts"
)

const contentType = "application/octet-stream"

// Config holds the object storage endpoint and bucket for snapshots.
type Config struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	UseSSL          bool   `yaml:"use_ssl"`
}

// Store saves and restores database snapshots in one bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// New builds a Store and ensures the configured bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Save uploads the connection's database file as objectName. The WAL is
// checkpointed through the connection first so the file on disk is the
// complete store.
func (s *Store) Save(ctx context.Context, conn contracts.IConnection, objectName string) error {
	if err := conn.Exec(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpointing before snapshot: %w", err)
	}

	_, err := s.client.FPutObject(ctx, s.bucket, objectName, conn.Path(),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("uploading snapshot %s: %w", objectName, err)
	}

	return nil
}

// Restore downloads objectName to destPath. The destination must not be a
// live database file; restore first, then establish against it.
func (s *Store) Restore(ctx context.Context, objectName, destPath string) error {
	if err := s.client.FGetObject(ctx, s.bucket, objectName, destPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("downloading snapshot %s: %w", objectName, err)
	}
	return nil
}
