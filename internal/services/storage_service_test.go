package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prolance/prolance-backend/internal/config"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 0x0D}

func newLocalStorage(t *testing.T) (*StorageService, string) {
	t.Helper()
	dir := t.TempDir()
	svc, err := NewStorageService(&config.Config{
		Upload: config.UploadConfig{Dir: dir, PublicBaseURL: "http://localhost:8080/"},
	})
	require.NoError(t, err)
	require.True(t, svc.UsesLocalDisk())
	return svc, dir
}

func TestUploadCoverWritesToLocalDisk(t *testing.T) {
	svc, dir := newLocalStorage(t)
	sellerID := uuid.New()

	result, err := svc.UploadCover(context.Background(), sellerID, bytes.NewReader(pngHeader), "Cover.PNG", int64(len(pngHeader)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "covers/"+sellerID.String()+"/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "http://localhost:8080/uploads/"+result.Key, result.URL)
	assert.Equal(t, "image/png", result.MimeType)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(result.Key)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

type fakeS3 struct {
	s3iface.S3API
	puts []*s3.PutObjectInput
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func TestUploadCoverToS3(t *testing.T) {
	client := &fakeS3{}
	svc := &StorageService{
		s3Client: client,
		config: &config.Config{AWS: config.AWSConfig{
			Region:   "us-east-1",
			S3Bucket: "prolance-covers",
		}},
	}
	require.False(t, svc.UsesLocalDisk())

	result, err := svc.UploadCover(context.Background(), uuid.New(), bytes.NewReader(pngHeader), "cover.png", int64(len(pngHeader)))
	require.NoError(t, err)

	require.Len(t, client.puts, 1)
	put := client.puts[0]
	assert.Equal(t, "prolance-covers", aws.StringValue(put.Bucket))
	assert.Equal(t, result.Key, aws.StringValue(put.Key))
	assert.Equal(t, s3.ObjectCannedACLPublicRead, aws.StringValue(put.ACL))
	assert.Equal(t, "image/png", aws.StringValue(put.ContentType))
	assert.Equal(t, "https://prolance-covers.s3.us-east-1.amazonaws.com/"+result.Key, result.URL)

	svc.config.AWS.CloudFrontURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/covers/a.png", svc.getS3URL("covers/a.png"))
}

func TestUploadCoverRejectsBadFiles(t *testing.T) {
	svc, _ := newLocalStorage(t)
	sellerID := uuid.New()
	ctx := context.Background()

	_, err := svc.UploadCover(ctx, sellerID, bytes.NewReader(pngHeader), "cover.pdf", int64(len(pngHeader)))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = svc.UploadCover(ctx, sellerID, strings.NewReader("plain text pretending"), "cover.png", 21)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = svc.UploadCover(ctx, sellerID, bytes.NewReader(pngHeader), "cover.png", MaxCoverSize+1)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	big := append(append([]byte{}, pngHeader...), make([]byte, MaxCoverSize)...)
	_, err = svc.UploadCover(ctx, sellerID, bytes.NewReader(big), "cover.png", 10)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestImageSignatures(t *testing.T) {
	assert.True(t, isValidImageType([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
	assert.True(t, isValidImageType([]byte("GIF89a....")))
	assert.True(t, isValidImageType(pngHeader))
	assert.False(t, isValidImageType([]byte("GIF")))
	assert.False(t, isValidImageType([]byte("%PDF-1.7")))
}
