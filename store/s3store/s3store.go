// Package s3store serves S3 objects as pages.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/djdv/go-pagecache"
)

type (
	// API is the subset of [s3.Client] used by [Store].
	API interface {
		GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
		HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	}

	// Store fetches objects from one bucket, keyed by object key
	// (relative to an optional prefix).
	Store struct {
		client  API
		bucket  string
		prefix  string
		timeout time.Duration
	}

	// Option configures a [Store].
	Option func(*Store)
)

// DefaultTimeout bounds each request made by a [Store].
const DefaultTimeout = 30 * time.Second

// WithPrefix prepends prefix to every key.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithTimeout bounds each request.
// The cache layer has no notion of cancellation,
// so the store applies its own deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) { s.timeout = timeout }
}

// New creates a [Store] reading from bucket via client.
func New(client API, bucket string, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, errors.New("s3 client is required")
	}
	if bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	store := &Store{
		client:  client,
		bucket:  bucket,
		timeout: DefaultTimeout,
	}
	for _, apply := range opts {
		apply(store)
	}
	return store, nil
}

// Contains reports if the object exists.
// Any request failure is reported as absence.
func (s *Store) Contains(key string) bool {
	ctx, cancel := s.context()
	defer cancel()
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	return err == nil
}

// Page returns the object's contents.
func (s *Store) Page(key string) ([]byte, error) {
	ctx, cancel := s.context()
	defer cancel()
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		return nil, s.translateError(err, key)
	}
	defer result.Body.Close()
	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body for %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) context() (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Store) translateError(err error, key string) error {
	switch {
	case isErrorType[*s3types.NoSuchKey](err),
		isErrorType[*s3types.NotFound](err):
		return pagecache.NotFound(key)
	case isErrorType[*s3types.NoSuchBucket](err):
		return fmt.Errorf("bucket not found: %s: %w", s.bucket, err)
	default:
		return fmt.Errorf("GetObject failed for %s: %w", key, err)
	}
}

// isErrorType checks if an error is of a specific type
func isErrorType[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}
