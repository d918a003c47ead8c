// Package s3store keeps backup units as key prefixes in an S3-compatible bucket.
//
// Layout:
//
//	<prefix>/<YYYYMMDD_Daily_Backup_Job>/<site>.tar.gz
//
// A unit exists as long as at least one object lives under its prefix.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/bnema/zerowrap"

	"github.com/bnema/wpbackup/internal/domain"
)

// deleteBatchSize is the DeleteObjects per-request limit.
const deleteBatchSize = 1000

// Config holds the bucket connection settings.
type Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	Prefix       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	// PartSizeMB sets the multipart chunk size. Zero keeps the SDK default.
	PartSizeMB int64
}

// API is the subset of the S3 client the store uses.
type API interface {
	s3.ListObjectsV2APIClient
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Uploader sends archives, splitting large ones into multipart uploads.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Store implements out.BackupStorage on S3.
type Store struct {
	client   API
	uploader Uploader
	bucket   string
	prefix   string
	log      zerowrap.Logger
}

// New connects to the bucket described by cfg. Static keys are used when
// given, otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config, log zerowrap.Logger) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket is required", domain.ErrInvalidConfig)
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		if cfg.PartSizeMB > 0 {
			u.PartSize = cfg.PartSizeMB * 1024 * 1024
		}
	})

	return NewWithClient(client, uploader, cfg.Bucket, cfg.Prefix, log), nil
}

// NewWithClient builds a store on an existing client.
func NewWithClient(client API, uploader Uploader, bucket, prefix string, log zerowrap.Logger) *Store {
	return &Store{
		client:   client,
		uploader: uploader,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		log:      log,
	}
}

func (s *Store) rootPrefix() string {
	if s.prefix == "" {
		return ""
	}
	return s.prefix + "/"
}

func (s *Store) unitPrefix(unitID string) string {
	return s.rootPrefix() + strings.Trim(unitID, "/") + "/"
}

func (s *Store) archiveKey(unitID, name string) string {
	return s.unitPrefix(unitID) + path.Base(name)
}

func (s *Store) ctxLog(ctx context.Context, action string) (context.Context, zerowrap.Logger) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "s3",
		zerowrap.FieldAction:  action,
		"bucket":              s.bucket,
	})
	return ctx, zerowrap.FromCtx(ctx)
}

// ListUnits returns the folder name of every unit below the prefix.
func (s *Store) ListUnits(ctx context.Context) ([]string, error) {
	ctx, log := s.ctxLog(ctx, "ListUnits")
	root := s.rootPrefix()

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(root),
		Delimiter: aws.String("/"),
	})

	var units []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, log.WrapErr(err, "failed to list backup units")
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), root), "/")
			if name != "" {
				units = append(units, name)
			}
		}
	}

	log.Debug().Int(zerowrap.FieldCount, len(units)).Msg("backup units listed")
	return units, nil
}

// DeleteUnit removes every object stored under the unit prefix.
func (s *Store) DeleteUnit(ctx context.Context, unitID string) error {
	ctx, log := s.ctxLog(ctx, "DeleteUnit")
	prefix := s.unitPrefix(unitID)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	deleted := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("%w %s: list objects: %w", domain.ErrDeletionFailed, unitID, err)
		}

		ids := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			ids = append(ids, types.ObjectIdentifier{Key: obj.Key})
		}

		for start := 0; start < len(ids); start += deleteBatchSize {
			end := min(start+deleteBatchSize, len(ids))
			if err := s.deleteBatch(ctx, ids[start:end]); err != nil {
				return fmt.Errorf("%w %s: %w", domain.ErrDeletionFailed, unitID, err)
			}
			deleted += end - start
		}
	}

	log.Debug().Str(zerowrap.FieldEntityID, unitID).Int(zerowrap.FieldCount, deleted).Msg("backup unit objects deleted")
	return nil
}

func (s *Store) deleteBatch(ctx context.Context, ids []types.ObjectIdentifier) error {
	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{
			Objects: ids,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return err
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("%d objects not deleted, first %s: %s", len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Message))
	}
	return nil
}

// Store uploads one archive into a unit and returns its object key.
func (s *Store) Store(ctx context.Context, unitID, name string, data io.Reader, size int64) (string, error) {
	ctx, log := s.ctxLog(ctx, "Store")
	key := s.archiveKey(unitID, name)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String("application/gzip"),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", log.WrapErr(err, "failed to upload archive")
	}

	log.Info().Str("key", key).Int64(zerowrap.FieldSize, size).Msg("archive uploaded")
	return key, nil
}

// Open downloads an archive.
func (s *Store) Open(ctx context.Context, unitID, name string) (io.ReadCloser, error) {
	key := s.archiveKey(unitID, name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArchiveNotFound, key)
		}
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	return out.Body, nil
}

// ListArchives returns the object names stored directly in a unit.
func (s *Store) ListArchives(ctx context.Context, unitID string) ([]string, error) {
	prefix := s.unitPrefix(unitID)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var archives []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list archives of %s: %w", unitID, err)
		}
		for _, obj := range page.Contents {
			if name := strings.TrimPrefix(aws.ToString(obj.Key), prefix); name != "" {
				archives = append(archives, name)
			}
		}
	}
	return archives, nil
}
