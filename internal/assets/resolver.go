// Package assets resolves catalog image keys to public, cache-busted URLs.
//
// Catalog rows store bare object keys ("items/it_ab12/photo.jpg"); the
// resolver derives the public URL from the object-store endpoint and appends
// a version parameter from the owning record's updated_at, so a changed image
// gets a new URL without the detector treating the key itself as changed.
package assets

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Resolver struct {
	client *minio.Client
	bucket string
	base   *url.URL
}

// New creates a resolver against an S3-compatible endpoint. It does not dial;
// Healthy performs the first network call.
func New(endpoint, bucket, accessKey, secretKey string, useSSL bool) (*Resolver, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("assets client: %w", err)
	}
	return &Resolver{client: client, bucket: bucket, base: client.EndpointURL()}, nil
}

// Healthy checks that the assets bucket is reachable, reporting the cause
// when it is not.
func (r *Resolver) Healthy(ctx context.Context) error {
	if r == nil {
		return fmt.Errorf("assets resolver not configured")
	}
	ok, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("assets bucket check: %w", err)
	}
	if !ok {
		return fmt.Errorf("assets bucket %s does not exist", r.bucket)
	}
	return nil
}

// PublicURL returns the cache-busted URL for an object key. Keys that are
// already absolute URLs only get the version parameter appended. Empty keys
// and a nil resolver pass the key through unchanged.
func (r *Resolver) PublicURL(key string, version time.Time) string {
	if key == "" {
		return ""
	}
	if r == nil {
		return key
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return appendVersion(key, version)
	}
	u := *r.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + r.bucket + "/" + strings.TrimPrefix(key, "/")
	return appendVersion(u.String(), version)
}

func appendVersion(rawURL string, version time.Time) string {
	if version.IsZero() {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sv=%d", rawURL, sep, version.Unix())
}
