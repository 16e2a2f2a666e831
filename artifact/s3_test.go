package artifact

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3Client struct {
	PutObjectFunc func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObjectFunc func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return m.PutObjectFunc(ctx, params, optFns...)
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return m.GetObjectFunc(ctx, params, optFns...)
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()

	t.Run("write under prefix", func(t *testing.T) {
		var got *s3.PutObjectInput
		var body []byte
		client := &mockS3Client{
			PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				got = params
				var err error
				body, err = io.ReadAll(params.Body)
				require.NoError(t, err)
				return &s3.PutObjectOutput{}, nil
			},
		}
		store := NewS3Store(client, "icaa-tickets", "/prod/")

		loc, err := store.Write(ctx, "tickets/T1.pdf", []byte("%PDF"))
		require.NoError(t, err)

		assert.Equal(t, "s3://icaa-tickets/prod/tickets/T1.pdf", loc)
		assert.Equal(t, "icaa-tickets", aws.ToString(got.Bucket))
		assert.Equal(t, "prod/tickets/T1.pdf", aws.ToString(got.Key))
		assert.Equal(t, "application/pdf", aws.ToString(got.ContentType))
		assert.Equal(t, []byte("%PDF"), body)
	})

	t.Run("write failure", func(t *testing.T) {
		client := &mockS3Client{
			PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				return nil, errors.New("access denied")
			},
		}
		store := NewS3Store(client, "icaa-tickets", "")

		_, err := store.Write(ctx, "tickets/T1.pdf", nil)
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("read by location", func(t *testing.T) {
		var got *s3.GetObjectInput
		client := &mockS3Client{
			GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
				got = params
				return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte("%PDF")))}, nil
			},
		}
		store := NewS3Store(client, "icaa-tickets", "")

		data, err := store.Read(ctx, "s3://icaa-tickets/tickets/T1.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF"), data)
		assert.Equal(t, "icaa-tickets", aws.ToString(got.Bucket))
		assert.Equal(t, "tickets/T1.pdf", aws.ToString(got.Key))
	})

	t.Run("invalid locations", func(t *testing.T) {
		store := NewS3Store(&mockS3Client{}, "icaa-tickets", "")

		for _, loc := range []string{"file:///tmp/x.pdf", "s3://", "s3://bucket-only", "s3:///key"} {
			_, err := store.Read(ctx, loc)
			assert.Error(t, err, loc)
		}
	})
}
