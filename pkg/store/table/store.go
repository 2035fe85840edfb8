package table

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
)

const s3Scheme = "s3://"

// ObjectAPI is the subset of the S3 client used for s3:// paths.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Option func(*Store)

func WithRegistry(r Registry) Option {
	return func(s *Store) { s.codecs = r }
}

func WithObjectStore(api ObjectAPI) Option {
	return func(s *Store) { s.objects = api }
}

// Store reads and writes tables on local disk or in S3, picking the codec by extension.
type Store struct {
	codecs  Registry
	objects ObjectAPI
}

func NewStore(opts ...Option) *Store {
	s := &Store{codecs: DefaultRegistry()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ReadTable(ctx context.Context, path string) (domain.Table, error) {
	codec, err := s.codecs.Lookup(path)
	if err != nil {
		return domain.Table{}, err
	}

	var body io.ReadCloser
	if isS3(path) {
		body, err = s.openObject(ctx, path)
	} else {
		body, err = openFile(path)
	}
	if err != nil {
		return domain.Table{}, err
	}
	defer func() { _ = body.Close() }()

	t, err := codec.Decode(body)
	if err != nil {
		return domain.Table{}, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return t, nil
}

// WriteTable encodes the whole sheet before touching the destination, so a failed
// encode leaves nothing behind.
func (s *Store) WriteTable(ctx context.Context, sheet Sheet, path string) error {
	codec, err := s.codecs.Lookup(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := codec.Encode(&buf, sheet); err != nil {
		return err
	}

	if isS3(path) {
		return s.putObject(ctx, path, buf.Bytes())
	}

	if dir := filepath.Dir(path); dir != "" {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrOutputDir, dir)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	return nil
}

// RequireColumns fails when any of the named columns is absent from the header.
func RequireColumns(t domain.Table, columns ...string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return fmt.Errorf("%w: input must contain an '%s' column", ErrMissingColumn, c)
		}
	}
	return nil
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	return f, nil
}

func isS3(path string) bool {
	return strings.HasPrefix(path, s3Scheme)
}

func splitS3(path string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(path, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 location %q, expected s3://bucket/key", path)
	}
	return bucket, key, nil
}

func (s *Store) openObject(ctx context.Context, path string) (io.ReadCloser, error) {
	if s.objects == nil {
		return nil, fmt.Errorf("cannot read %s: S3 access is not configured", path)
	}
	bucket, key, err := splitS3(path)
	if err != nil {
		return nil, err
	}

	out, err := s.objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("unable to fetch %s: %w", path, err)
	}
	return out.Body, nil
}

func (s *Store) putObject(ctx context.Context, path string, data []byte) error {
	if s.objects == nil {
		return fmt.Errorf("cannot write %s: S3 access is not configured", path)
	}
	bucket, key, err := splitS3(path)
	if err != nil {
		return err
	}

	_, err = s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("unable to upload %s: %w", path, err)
	}
	return nil
}
