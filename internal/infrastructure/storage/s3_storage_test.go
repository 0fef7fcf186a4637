package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/nordvest/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeS3 records calls and serves ListObjectsV2 from a fixed page set
type fakeS3 struct {
	puts      []*s3.PutObjectInput
	bodies    []string
	deletes   []string
	pages     []*s3.ListObjectsV2Output
	listCalls int
	headErr   error
	created   bool
	err       error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[f.listCalls]
	f.listCalls++
	return page, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(_ context.Context, _ *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = true
	return &s3.CreateBucketOutput{}, nil
}

func TestNewS3Storage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3Storage(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3Storage(ctx, &config.StorageConfig{Region: "eu-north-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half a credential pair returns error", func(t *testing.T) {
		_, err := NewS3Storage(ctx, &config.StorageConfig{Bucket: "b", AccessKeyID: "key"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("valid config with options", func(t *testing.T) {
		s, err := NewS3Storage(ctx, &config.StorageConfig{
			Bucket:          "nordvest-files",
			Region:          "eu-north-1",
			Endpoint:        "localhost:9000",
			AccessKeyID:     "minio",
			SecretAccessKey: "minio-secret",
			UsePathStyle:    true,
		}, WithLogger(zaptest.NewLogger(t)), WithPresignExpiration(10*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "nordvest-files", s.Bucket())
		assert.Equal(t, 10*time.Minute, s.presignExpiration)
	})
}

func TestS3Storage_URL(t *testing.T) {
	ctx := context.Background()

	t.Run("public base url", func(t *testing.T) {
		s, err := NewS3Storage(ctx, &config.StorageConfig{
			Bucket:        "b",
			Region:        "eu-north-1",
			PublicBaseURL: "https://cdn.nordvest.no/",
		})
		require.NoError(t, err)
		u, err := s.URL(ctx, "projects/1/images/a.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.nordvest.no/projects/1/images/a.jpg", u)
	})

	t.Run("presigned when private", func(t *testing.T) {
		s, err := NewS3Storage(ctx, &config.StorageConfig{
			Bucket:          "test-bucket",
			Region:          "us-east-1",
			Endpoint:        "http://localhost:9000",
			AccessKeyID:     "minio",
			SecretAccessKey: "minio-secret",
			UsePathStyle:    true,
		})
		require.NoError(t, err)
		u, err := s.URL(ctx, "projects/1/documents/tilbud.pdf")
		require.NoError(t, err)
		assert.True(t, strings.Contains(u, "localhost:9000"))
		assert.True(t, strings.Contains(u, "test-bucket"))
		assert.Contains(t, u, "X-Amz-Signature")
	})
}

func TestS3Storage_PutListDelete(t *testing.T) {
	ctx := context.Background()
	modified := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	fake := &fakeS3{pages: []*s3.ListObjectsV2Output{
		{
			Contents:              []types.Object{{Key: aws.String("p/a.jpg"), Size: aws.Int64(10), LastModified: &modified}},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("next"),
		},
		{
			Contents: []types.Object{{Key: aws.String("p/b.pdf"), Size: aws.Int64(20)}},
		},
	}}
	s := newS3Storage(fake, "bucket", "")

	require.NoError(t, s.Put(ctx, "p/a.jpg", strings.NewReader("jpegdata"), 8, "image/jpeg"))
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "bucket", aws.ToString(fake.puts[0].Bucket))
	assert.Equal(t, "image/jpeg", aws.ToString(fake.puts[0].ContentType))
	assert.Equal(t, int64(8), aws.ToInt64(fake.puts[0].ContentLength))
	assert.Equal(t, "jpegdata", fake.bodies[0])

	objs, err := s.List(ctx, "p/")
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, 2, fake.listCalls)
	assert.Equal(t, "p/a.jpg", objs[0].Key)
	assert.Equal(t, modified, objs[0].LastModified)
	assert.Equal(t, int64(20), objs[1].Size)

	require.NoError(t, s.Delete(ctx, "p/a.jpg"))
	assert.Equal(t, []string{"p/a.jpg"}, fake.deletes)

	assert.Error(t, s.Put(ctx, "", strings.NewReader(""), 0, "text/plain"))
	assert.Error(t, s.Delete(ctx, ""))

	_, err = s.URL(ctx, "p/a.jpg")
	assert.Error(t, err, "no presigner and no public url")
}

func TestS3Storage_Errors(t *testing.T) {
	ctx := context.Background()
	s := newS3Storage(&fakeS3{err: errors.New("connection refused")}, "bucket", "")

	assert.ErrorContains(t, s.Put(ctx, "k", strings.NewReader("x"), 1, "text/plain"), "failed to upload object")
	_, err := s.List(ctx, "p/")
	assert.ErrorContains(t, err, "failed to list objects")
	assert.ErrorContains(t, s.Delete(ctx, "k"), "failed to delete object")
}

func TestS3Storage_EnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("existing bucket", func(t *testing.T) {
		fake := &fakeS3{}
		require.NoError(t, newS3Storage(fake, "b", "").EnsureBucket(ctx))
		assert.False(t, fake.created)
	})

	t.Run("missing bucket is created", func(t *testing.T) {
		fake := &fakeS3{headErr: &types.NotFound{}}
		require.NoError(t, newS3Storage(fake, "b", "").EnsureBucket(ctx))
		assert.True(t, fake.created)
	})

	t.Run("other errors are returned", func(t *testing.T) {
		fake := &fakeS3{headErr: errors.New("forbidden")}
		assert.Error(t, newS3Storage(fake, "b", "").EnsureBucket(ctx))
		assert.False(t, fake.created)
	})
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage("http://files.test/")

	require.NoError(t, m.Put(ctx, "projects/1/images/b.png", strings.NewReader("png"), 3, "image/png"))
	require.NoError(t, m.Put(ctx, "projects/1/images/a.png", strings.NewReader("png!"), 4, "image/png"))
	require.NoError(t, m.Put(ctx, "projects/2/images/c.png", strings.NewReader("x"), 1, "image/png"))

	objs, err := m.List(ctx, "projects/1/")
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "projects/1/images/a.png", objs[0].Key)
	assert.Equal(t, int64(4), objs[0].Size)

	u, err := m.URL(ctx, "projects/1/images/a.png")
	require.NoError(t, err)
	assert.Equal(t, "http://files.test/projects/1/images/a.png", u)

	require.NoError(t, m.Delete(ctx, "projects/1/images/a.png"))
	require.NoError(t, m.Delete(ctx, "projects/1/images/missing.png"))
	_, ok := m.Get("projects/1/images/a.png")
	assert.False(t, ok)
	data, ok := m.Get("projects/1/images/b.png")
	assert.True(t, ok)
	assert.Equal(t, "png", string(data))
}
