package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	getErr  error
}

func (f *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}
	key := aws.ToString(in.Key)
	if _, ok := f.objects[key]; ok && aws.ToString(in.IfNoneMatch) == "*" {
		return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "At least one of the pre-conditions you specified did not hold"}
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist."}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func newTestS3Store(bucket *fakeBucket) *S3Store {
	s := newS3Store(bucket, "resumes", "artifacts/")
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestS3Store_SaveAndOpen(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}}
	s := newTestS3Store(bucket)
	ctx := context.Background()

	name, err := s.Save(ctx, "enhanced_resume", []byte("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, "enhanced_resume_1700000000000.pdf", name)
	assert.Contains(t, bucket.objects, "artifacts/enhanced_resume_1700000000000.pdf")

	obj, err := s.Open(ctx, name)
	require.NoError(t, err)
	defer func() { _ = obj.Body.Close() }()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
	assert.Equal(t, int64(9), obj.Size)
}

func TestS3Store_CollisionAdvancesTimestamp(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}}
	s := newTestS3Store(bucket)
	ctx := context.Background()

	first, err := s.Save(ctx, "enhanced_resume", []byte("one"))
	require.NoError(t, err)
	second, err := s.Save(ctx, "enhanced_resume", []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, "one", string(bucket.objects["artifacts/"+first]))
}

func TestS3Store_UploadFailure(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}, putErr: errors.New("connection reset")}
	s := newTestS3Store(bucket)

	_, err := s.Save(context.Background(), "enhanced_resume", []byte("x"))
	assert.ErrorContains(t, err, "failed to upload artifact")
}

func TestS3Store_OpenErrors(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}}
	s := newTestS3Store(bucket)
	ctx := context.Background()

	_, err := s.Open(ctx, "enhanced_resume_1.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Open(ctx, "../enhanced_resume_1.pdf")
	assert.ErrorIs(t, err, ErrInvalidName)

	bucket.getErr = &smithy.GenericAPIError{Code: "AccessDenied"}
	_, err = s.Open(ctx, "enhanced_resume_1.pdf")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	assert.ErrorContains(t, err, "bucket")
}
