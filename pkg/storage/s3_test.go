package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeObjectAPI struct {
	listOut   *s3.ListObjectsV2Output
	listIn    *s3.ListObjectsV2Input
	listErr   error
	headOut   *s3.HeadObjectOutput
	headErr   error
	deleteErr error
	deleted   []string
}

func (f *fakeObjectAPI) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listIn = in
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeObjectAPI) HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return f.headOut, nil
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeObjectAPI) GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return nil, errors.New("not implemented")
}

type fakePresignAPI struct {
	putURL string
	putErr error
	getURL string
	getErr error
}

func (f *fakePresignAPI) PresignPutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &v4.PresignedHTTPRequest{URL: f.putURL}, nil
}

func (f *fakePresignAPI) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &v4.PresignedHTTPRequest{URL: f.getURL}, nil
}

func newTestClient(api objectAPI, presign presignAPI) *Client {
	return &Client{
		api:     api,
		presign: presign,
		bucket:  "test-bucket",
		maxKeys: 1000,
		logger:  zap.NewNop(),
	}
}

func TestRecordingKey(t *testing.T) {
	require.Equal(t, "recordings/recording_m1_1717230000.webm", RecordingKey("recording_m1_1717230000"))
}

func TestIssueUploadHandle(t *testing.T) {
	c := newTestClient(&fakeObjectAPI{}, &fakePresignAPI{putURL: "https://signed.example/put"})

	url, key := c.IssueUploadHandle(context.Background(), "recording_m1_1", time.Hour)
	require.Equal(t, "https://signed.example/put", url)
	require.Equal(t, "recordings/recording_m1_1.webm", key)
}

func TestIssueUploadHandleFallsBackOnPresignFailure(t *testing.T) {
	c := newTestClient(&fakeObjectAPI{}, &fakePresignAPI{putErr: errors.New("credentials rejected")})

	url, key := c.IssueUploadHandle(context.Background(), "recording_m1_1", time.Hour)
	require.Equal(t, "recordings/recording_m1_1.webm", key)
	require.Equal(t, "local://recordings/recording_m1_1.webm", url)
}

func TestListObjectsMapsSinglePage(t *testing.T) {
	modified := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	api := &fakeObjectAPI{listOut: &s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("recordings/rec_1.webm"), Size: aws.Int64(1024), LastModified: aws.Time(modified)},
			{Key: aws.String("recordings/rec_2.webm"), Size: aws.Int64(2048)},
		},
	}}
	c := newTestClient(api, &fakePresignAPI{})

	objects, err := c.ListObjects(context.Background(), RecordingPrefix)
	require.NoError(t, err)
	require.Len(t, objects, 2)

	require.Equal(t, "recordings/rec_1.webm", objects[0].Key)
	require.Equal(t, "rec_1.webm", objects[0].Name)
	require.Equal(t, int64(1024), objects[0].Size)
	require.True(t, objects[0].LastModified.Equal(modified))
	require.True(t, objects[1].LastModified.IsZero())

	// Single bounded page: the configured cap goes out on the wire.
	require.Equal(t, int32(1000), aws.ToInt32(api.listIn.MaxKeys))
	require.Equal(t, RecordingPrefix, aws.ToString(api.listIn.Prefix))
}

func TestListObjectsError(t *testing.T) {
	c := newTestClient(&fakeObjectAPI{listErr: errors.New("timeout")}, &fakePresignAPI{})

	objects, err := c.ListObjects(context.Background(), RecordingPrefix)
	require.Error(t, err)
	require.Nil(t, objects)
}

func TestDeleteObject(t *testing.T) {
	api := &fakeObjectAPI{}
	c := newTestClient(api, &fakePresignAPI{})

	require.NoError(t, c.DeleteObject(context.Background(), "recordings/rec_1.webm"))
	require.Equal(t, []string{"recordings/rec_1.webm"}, api.deleted)

	api.deleteErr = errors.New("access denied")
	err := c.DeleteObject(context.Background(), "recordings/rec_1.webm")
	require.Error(t, err)
	require.Contains(t, err.Error(), "recordings/rec_1.webm")
}

func TestBucketSize(t *testing.T) {
	api := &fakeObjectAPI{listOut: &s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("recordings/a.webm"), Size: aws.Int64(100)},
			{Key: aws.String("recordings/b.webm"), Size: aws.Int64(250)},
		},
	}}
	c := newTestClient(api, &fakePresignAPI{})

	size, err := c.BucketSize(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(350), size)
}

func TestHeadObject(t *testing.T) {
	modified := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	api := &fakeObjectAPI{headOut: &s3.HeadObjectOutput{
		ContentLength: aws.Int64(4096),
		ContentType:   aws.String(RecordingContentType),
		LastModified:  aws.Time(modified),
	}}
	c := newTestClient(api, &fakePresignAPI{})

	info, err := c.HeadObject(context.Background(), "recordings/rec_1.webm")
	require.NoError(t, err)
	require.Equal(t, "recordings/rec_1.webm", info.Key)
	require.Equal(t, "rec_1.webm", info.Name)
	require.Equal(t, int64(4096), info.Size)
	require.Equal(t, RecordingContentType, info.ContentType)
	require.True(t, info.LastModified.Equal(modified))
}
