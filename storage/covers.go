package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"waxcrate/config"
	"waxcrate/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// CoverStore mirrors album cover art from the catalog CDN into a MinIO
// bucket, so the collection survives catalog image URLs going stale.
type CoverStore struct {
	client *minio.Client
	bucket string
	http   *http.Client
}

// NewCoverStore connects to MinIO and ensures the bucket exists.
func NewCoverStore(cfg *config.Config) (*CoverStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("Created cover bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return &CoverStore{
		client: client,
		bucket: cfg.MinioBucket,
		http:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// MirrorCover downloads the image at imgURL and stores it under
// covers/<spotifyAlbumID>. Returns the object path.
func (s *CoverStore) MirrorCover(ctx context.Context, spotifyAlbumID, imgURL string) (string, error) {
	if imgURL == "" {
		return "", fmt.Errorf("no image URL for album %s", spotifyAlbumID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imgURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build cover request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download cover: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cover download returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	objectPath := fmt.Sprintf("covers/%s", spotifyAlbumID)
	_, err = s.client.PutObject(ctx, s.bucket, objectPath, resp.Body, resp.ContentLength, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store cover: %w", err)
	}

	return objectPath, nil
}
