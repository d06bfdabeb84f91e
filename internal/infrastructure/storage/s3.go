// Package storage provides image store implementations backing product
// media reconciliation.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/application/reconcile"
	infraconfig "github.com/sellerhub/backend/internal/infrastructure/config"
)

// uploadScheme marks a value in an image field as a temporary upload
// reference rather than a plain URL. The part after the scheme is the
// object name issued when the upload session was created.
const uploadScheme = "upload://"

// Ensure S3ImageStore implements the reconciliation image store port
var _ reconcile.ImageStore = (*S3ImageStore)(nil)

// S3ImageStore stores product images in an S3-compatible bucket.
// Upload sessions land under a temporary prefix and are promoted to the
// permanent prefix once the owning record has been accepted.
type S3ImageStore struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	tempPrefix        string
	permanentPrefix   string
	publicBaseURL     string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3ImageStoreOption is a functional option for configuring S3ImageStore
type S3ImageStoreOption func(*S3ImageStore)

// WithLogger sets a custom logger for S3ImageStore
func WithLogger(logger *zap.Logger) S3ImageStoreOption {
	return func(s *S3ImageStore) {
		s.logger = logger
	}
}

// WithPresignExpiration sets a custom presign expiration duration
func WithPresignExpiration(d time.Duration) S3ImageStoreOption {
	return func(s *S3ImageStore) {
		s.presignExpiration = d
	}
}

// NewS3ImageStore creates an S3ImageStore from configuration.
// It supports any S3-compatible storage backend (AWS S3, MinIO, etc.)
func NewS3ImageStore(cfg *infraconfig.StorageConfig, opts ...S3ImageStoreOption) (*S3ImageStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	awsOpts := []func(*awsconfig.LoadOptions) error{}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsOpts = append(awsOpts, awsconfig.WithRegion(region))

	if cfg.AccessKeyID != "" {
		awsOpts = append(awsOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	store := &S3ImageStore{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		tempPrefix:        strings.Trim(cfg.TempPrefix, "/"),
		permanentPrefix:   strings.Trim(cfg.PermanentPrefix, "/"),
		publicBaseURL:     strings.TrimRight(cfg.PublicBaseURL, "/"),
		presignExpiration: 15 * time.Minute,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3ImageStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Ignore "BucketAlreadyOwnedByYou" error (race condition)
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// IssueUploadRef opens an upload session for a product image. It
// returns the reference the client submits in image fields later, plus
// a presigned PUT URL for the actual bytes.
func (s *S3ImageStore) IssueUploadRef(
	ctx context.Context,
	tenantID uuid.UUID,
	contentType string,
) (ref, uploadURL string, expiresAt time.Time, err error) {
	name := uuid.New().String()
	key := s.tempKey(tenantID, name)

	presignReq, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	return uploadScheme + name, presignReq.URL, time.Now().Add(s.presignExpiration), nil
}

// IsUploadRef reports whether ref is a temporary upload reference.
func (s *S3ImageStore) IsUploadRef(ref string) bool {
	return strings.HasPrefix(ref, uploadScheme)
}

// PermanentURL returns the public URL ref will resolve to after
// promotion, without moving anything.
func (s *S3ImageStore) PermanentURL(ctx context.Context, tenantID uuid.UUID, ref string) (string, error) {
	name, err := s.uploadName(ref)
	if err != nil {
		return "", err
	}
	return s.publicBaseURL + "/" + s.permanentKey(tenantID, name), nil
}

// Promote copies the temporary object to its permanent key and removes
// the temporary one. The copy runs first so a failure between the two
// steps leaves at most a stray temp object, never a missing permanent
// one.
func (s *S3ImageStore) Promote(ctx context.Context, tenantID uuid.UUID, ref string) error {
	name, err := s.uploadName(ref)
	if err != nil {
		return err
	}
	src := s.tempKey(tenantID, name)
	dst := s.permanentKey(tenantID, name)

	_, err = s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(s.bucket + "/" + src),
		Key:        aws.String(dst),
	})
	if err != nil {
		return fmt.Errorf("failed to promote image %s: %w", ref, err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(src),
	})
	if err != nil {
		s.logger.Warn("failed to remove temporary image after promotion",
			zap.String("key", src), zap.Error(err))
	}
	return nil
}

// ObjectExists checks if an uploaded object exists in storage.
func (s *S3ImageStore) ObjectExists(ctx context.Context, tenantID uuid.UUID, ref string) (bool, error) {
	name, err := s.uploadName(ref)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.tempKey(tenantID, name)),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return false, nil
		}
		// Some S3-compatible services surface not-found differently
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

func (s *S3ImageStore) uploadName(ref string) (string, error) {
	if !s.IsUploadRef(ref) {
		return "", fmt.Errorf("not an upload reference: %s", ref)
	}
	name := strings.TrimPrefix(ref, uploadScheme)
	if name == "" || strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("invalid upload reference: %s", ref)
	}
	return name, nil
}

func (s *S3ImageStore) tempKey(tenantID uuid.UUID, name string) string {
	return s.tempPrefix + "/" + tenantID.String() + "/" + name
}

func (s *S3ImageStore) permanentKey(tenantID uuid.UUID, name string) string {
	return s.permanentPrefix + "/" + tenantID.String() + "/" + name
}
