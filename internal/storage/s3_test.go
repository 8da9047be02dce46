package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	return &s3.PutObjectOutput{}, f.err
}

type fakePresigner struct {
	options s3.PresignOptions
	key     string
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	for _, fn := range optFns {
		fn(&f.options)
	}
	f.key = aws.ToString(params.Key)
	return &v4.PresignedHTTPRequest{URL: "https://example.test/" + f.key}, nil
}

func TestS3Storage_UploadFile(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StorageWithClients(client, &fakePresigner{}, "certs")

	key, err := store.UploadFile(context.Background(), "certificates/abc.pdf", stringsReader("%PDF-1.3"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "certificates/abc.pdf", key)
	assert.Equal(t, "certs", aws.ToString(client.input.Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(client.input.ContentType))
	assert.Equal(t, "%PDF-1.3", string(client.body))
}

func TestS3Storage_UploadFile_Error(t *testing.T) {
	store := NewS3StorageWithClients(&fakeS3{err: errors.New("access denied")}, &fakePresigner{}, "certs")

	_, err := store.UploadFile(context.Background(), "k", stringsReader(""), "application/pdf")
	assert.ErrorContains(t, err, "access denied")
}

func TestS3Storage_PresignedURL(t *testing.T) {
	presigner := &fakePresigner{}
	store := NewS3StorageWithClients(&fakeS3{}, presigner, "certs")

	url, err := store.PresignedURL(context.Background(), "certificates/abc.pdf", 15*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/certificates/abc.pdf", url)
	assert.Equal(t, 15*time.Minute, presigner.options.Expires)
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
