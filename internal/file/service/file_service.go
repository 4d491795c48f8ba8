package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/tangimds/EMS/config"
	apperrors "github.com/tangimds/EMS/internal/errors"
	"github.com/tangimds/EMS/internal/file/dto"
)

// S3API is the subset of the S3 client the service calls; tests provide a
// fake.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an S3 client from static credentials, honoring a
// custom base endpoint for MinIO-style deployments.
func NewS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
	})

	return client, nil
}

// FileService resolves uploads to opaque storage keys and streams
// downloads back. Keys embed a random id, so identical filenames never
// collide. Download performs no ownership check against the owning
// experiment; any authenticated identity holding a key can fetch it.
type FileService struct {
	client  S3API
	bucket  string
	timeout time.Duration
}

func NewFileService(client S3API, cfg *config.Config) *FileService {
	return &FileService{
		client:  client,
		bucket:  cfg.S3Bucket,
		timeout: time.Duration(cfg.S3TimeoutSeconds) * time.Second,
	}
}

// StorageKey builds the key an upload is addressed by:
// file{folder}/{random_id}/{filename}.{extension}.
func StorageKey(folder, filename string) string {
	extension := filename
	if i := strings.LastIndex(filename, "."); i >= 0 {
		extension = filename[i+1:]
	}
	return fmt.Sprintf("file%s/%s/%s.%s", folder, uuid.New().String(), filename, extension)
}

// parseDataURL splits a "data:<content-type>;base64,<payload>" string into
// its content type and decoded payload.
func parseDataURL(rawBody string) (string, []byte, error) {
	meta, payload, found := strings.Cut(rawBody, ",")
	if !found {
		return "", nil, apperrors.NewValidation("rawBody", "Malformed file body")
	}

	contentType := strings.TrimPrefix(meta, "data:")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if contentType == "" {
		return "", nil, apperrors.NewValidation("rawBody", "Missing content type")
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, apperrors.NewValidation("rawBody", "Invalid base64 payload")
	}

	return contentType, decoded, nil
}

func (s *FileService) Upload(ctx context.Context, folder string, files []dto.FileInput) ([]string, error) {
	keys := make([]string, 0, len(files))

	for _, file := range files {
		contentType, body, err := parseDataURL(file.RawBody)
		if err != nil {
			return nil, err
		}

		key := StorageKey(folder, file.Name)

		putCtx, cancel := context.WithTimeout(ctx, s.timeout)
		_, err = s.client.PutObject(putCtx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ACL:         types.ObjectCannedACLPrivate,
			ContentType: aws.String(contentType),
		})
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamStorage, err)
		}

		keys = append(keys, key)
	}

	return keys, nil
}

// DownloadResult carries the object stream plus the stored metadata the
// response headers echo.
type DownloadResult struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	ETag          string
	Filename      string
}

// Download checks the object's metadata first so an absent key turns into
// a clean 404 before any bytes move.
func (s *FileService) Download(ctx context.Context, key string) (*DownloadResult, error) {
	headCtx, cancel := context.WithTimeout(ctx, s.timeout)
	head, err := s.client.HeadObject(headCtx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	cancel()
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamStorage, err)
	}

	// No timeout here: the returned body streams on this context and a
	// cancelled context would cut the transfer off mid-read.
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamStorage, err)
	}

	result := &DownloadResult{
		Body:        obj.Body,
		ContentType: "application/octet-stream",
		Filename:    "file",
	}

	if head.ContentType != nil && *head.ContentType != "" {
		result.ContentType = *head.ContentType
	}
	if head.ContentLength != nil {
		result.ContentLength = *head.ContentLength
	}
	if head.ETag != nil {
		result.ETag = *head.ETag
	}
	if parts := strings.Split(key, "/"); len(parts) > 0 && parts[len(parts)-1] != "" {
		result.Filename = parts[len(parts)-1]
	}

	return result, nil
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}
