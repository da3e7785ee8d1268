package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Download streams one object into w using ranged parts. Used by the
// fetch tool to pull recordings to local disk for offline processing.
func (c *Client) Download(ctx context.Context, key string, w io.WriterAt) (int64, error) {
	downloader := manager.NewDownloader(c.api, func(d *manager.Downloader) {
		d.PartSize = 5 * 1024 * 1024
	})
	n, err := downloader.Download(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", key, err)
	}
	return n, nil
}
