// Package storage wraps the S3-compatible object store (Cloudflare R2 in
// production) that holds meeting recordings: presigned upload/download
// URLs, listing, per-object metadata and deletion.
package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/laneway/backend/config"
)

const (
	// RecordingPrefix is the bucket prefix for recording objects.
	RecordingPrefix = "recordings/"
	// RecordingContentType is the fixed content type the extension uploads.
	RecordingContentType = "video/webm"
	// DefaultListMaxKeys bounds a single listing page when config gives no cap.
	DefaultListMaxKeys = 1000
)

// RecordingKey returns the bucket key for a recording: recordings/{recordingId}.webm.
func RecordingKey(recordingID string) string {
	return RecordingPrefix + recordingID + ".webm"
}

// FallbackUploadURL is the local-placeholder upload URL returned when
// presigning fails. Callers must treat it as possibly non-functional.
func FallbackUploadURL(key string) string {
	return "local://" + key
}

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"` // filename portion of the key
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ContentType  string    `json:"content_type,omitempty"`
}

// objectAPI is the slice of the S3 client the gateway calls.
type objectAPI interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// presignAPI is the slice of the S3 presign client the gateway calls.
type presignAPI interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Client provides recording object operations against one bucket.
// Constructed once at startup and injected; it holds no hidden globals.
type Client struct {
	api     objectAPI
	presign presignAPI
	bucket  string
	maxKeys int32
	logger  *zap.Logger
}

// NewClient creates a storage client from config. A non-empty Endpoint
// points the client at R2 (or MinIO etc.); empty means plain AWS S3.
func NewClient(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	} else {
		logger.Warn("storage client using default credential chain (R2_ACCESS_KEY_ID/R2_SECRET_ACCESS_KEY not set)")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	maxKeys := cfg.ListMaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultListMaxKeys
	}
	logger.Info("storage client ready",
		zap.String("bucket", cfg.Bucket),
		zap.String("endpoint", cfg.Endpoint),
		zap.Int32("list_max_keys", maxKeys))
	return &Client{
		api:     client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		maxKeys: maxKeys,
		logger:  logger,
	}, nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string { return c.bucket }

// IssueUploadHandle returns a presigned PUT URL and the deterministic
// bucket key for a recording. It never fails: when presigning errors
// (storage outage, bad credentials) it logs and degrades to a
// local-placeholder URL carrying the same key, so registry insertion
// can still proceed. Callers must treat the URL as possibly
// non-functional.
func (c *Client) IssueUploadHandle(ctx context.Context, recordingID string, expiry time.Duration) (url, key string) {
	key = RecordingKey(recordingID)
	url, err := c.PresignUpload(ctx, key, expiry)
	if err != nil {
		c.logger.Warn("presign upload failed, falling back to local placeholder",
			zap.String("key", key), zap.Error(err))
		return FallbackUploadURL(key), key
	}
	return url, key
}

// PresignUpload returns a presigned PUT URL for the exact key with the
// fixed recording content type.
func (c *Client) PresignUpload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(RecordingContentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, nil
}

// PresignDownload returns a presigned GET URL for the key. An error
// means "download currently unavailable", not "object does not exist".
func (c *Client) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, nil
}

// ListObjects returns a single bounded page of objects under prefix.
// There is no continuation-token looping: buckets larger than the page
// cap are under-counted, a documented scaling limit of this system.
func (c *Client) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	out, err := c.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(c.maxKeys),
	})
	if err != nil {
		return nil, fmt.Errorf("list objects %s: %w", prefix, err)
	}
	objects := make([]ObjectInfo, 0, len(out.Contents))
	for _, obj := range out.Contents {
		info := ObjectInfo{
			Key:  aws.ToString(obj.Key),
			Size: aws.ToInt64(obj.Size),
		}
		info.Name = path.Base(info.Key)
		if obj.LastModified != nil {
			info.LastModified = *obj.LastModified
		}
		objects = append(objects, info)
	}
	return objects, nil
}

// HeadObject returns metadata for one object.
func (c *Client) HeadObject(ctx context.Context, key string) (*ObjectInfo, error) {
	out, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("head object %s: %w", key, err)
	}
	info := &ObjectInfo{
		Key:         key,
		Name:        path.Base(key),
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	return info, nil
}

// DeleteObject removes one object. S3 deletes are idempotent: deleting
// a key that no longer exists succeeds, so callers may safely retry.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// BucketSize sums the sizes of one listing page of recordings. Subject
// to the same single-page bound as ListObjects.
func (c *Client) BucketSize(ctx context.Context) (int64, error) {
	objects, err := c.ListObjects(ctx, RecordingPrefix)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, obj := range objects {
		total += obj.Size
	}
	return total, nil
}
