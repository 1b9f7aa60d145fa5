package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"team-chat/internal/domain/message"
	chat_errors "team-chat/pkg/errors"
)

type S3Config struct {
	Region     string
	Bucket     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	PublicBase string
}

// S3Store uploads attachment content to an object-storage bucket. Objects get
// a chat/user-scoped key and a direct public URL; content is never proxied
// through the application, so Load is unsupported.
type S3Store struct {
	cfg S3Config
	s3  *s3.Client
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Region == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 region and bucket are required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				if service == s3.ServiceID {
					return aws.Endpoint{URL: cfg.Endpoint, SigningRegion: cfg.Region}, nil
				}
				return aws.Endpoint{}, &aws.EndpointNotFoundError{}
			}),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	return &S3Store{cfg: cfg, s3: client}, nil
}

func (s *S3Store) Store(ctx context.Context, chatID, userID uuid.UUID, files []FileUpload) ([]message.Attachment, error) {
	attachments := make([]message.Attachment, 0, len(files))

	for _, f := range files {
		if f.Size == 0 {
			continue
		}

		key := fmt.Sprintf("chat/%s/%s/%s%s", chatID, userID, uuid.New(), path.Ext(path.Base(f.Name)))

		input := &s3.PutObjectInput{
			Bucket:        aws.String(s.cfg.Bucket),
			Key:           aws.String(key),
			Body:          f.Reader,
			ContentLength: aws.Int64(f.Size),
		}
		if f.ContentType != "" {
			input.ContentType = aws.String(f.ContentType)
		}

		if _, err := s.s3.PutObject(ctx, input); err != nil {
			return attachments, chat_errors.NewStorageError("store", f.Name, err)
		}

		attachments = append(attachments, message.Attachment{
			ID:           uuid.New(),
			StoragePath:  key,
			OriginalName: f.Name,
			ContentType:  f.ContentType,
			SizeBytes:    f.Size,
			PublicURL:    sql.NullString{String: s.objectURL(key), Valid: true},
			UploadedAt:   time.Now(),
		})
	}

	return attachments, nil
}

func (s *S3Store) Load(ctx context.Context, chatID uuid.UUID, fileName string) (io.ReadCloser, error) {
	return nil, chat_errors.ErrUnsupported
}

func (s *S3Store) objectURL(key string) string {
	if s.cfg.PublicBase != "" {
		return s.cfg.PublicBase + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
