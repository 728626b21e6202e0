package imagecache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"
	"shopfront/pkg/domain"
)

const warmConcurrency = 4

// ObjectStore is the object-storage surface the warmer writes to.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// MinioStore implements ObjectStore for MinIO/S3 compatible storage.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioStore{client: client, bucket: bucket}, nil
}

// Put uploads an object.
func (m *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// Warmer copies product thumbnails into object storage so kiosk displays
// keep working offline.
type Warmer struct {
	objects    ObjectStore
	httpClient *http.Client
}

// NewWarmer builds a thumbnail warmer over the given object store.
func NewWarmer(objects ObjectStore) *Warmer {
	return &Warmer{
		objects:    objects,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// WarmProducts downloads each product's thumbnail and stores it under
// thumbnails/<productID><ext>. Products without a thumbnail are skipped.
func (w *Warmer) WarmProducts(ctx context.Context, products []domain.Product) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, p := range products {
		if p.Thumbnail == "" {
			continue
		}
		p := p
		g.Go(func() error {
			return w.warmOne(ctx, p)
		})
	}
	return g.Wait()
}

func (w *Warmer) warmOne(ctx context.Context, p domain.Product) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Thumbnail, nil)
	if err != nil {
		return fmt.Errorf("thumbnail request for %s: %w", p.ID, err)
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch thumbnail for %s: %w", p.ID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch thumbnail for %s: %s", p.ID, resp.Status)
	}
	key := "thumbnails/" + p.ID + thumbnailExt(p.Thumbnail)
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return w.objects.Put(ctx, key, resp.Body, resp.ContentLength, contentType)
}

func thumbnailExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}
