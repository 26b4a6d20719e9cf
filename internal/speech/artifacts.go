package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

// ContentTypeMP3 is the content type of synthesized audio.
const ContentTypeMP3 = "audio/mpeg"

// Artifact is one stored synthesis result.
type Artifact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// ArtifactStore persists synthesized audio under request-scoped ids.
type ArtifactStore interface {
	Put(ctx context.Context, id string, data []byte, contentType string) (*Artifact, error)
	Open(ctx context.Context, id string) (io.ReadCloser, error)
}

// ArtifactName is the file name for an artifact id.
func ArtifactName(id string) string {
	return id + ".mp3"
}

// validID rejects anything that is not a uuid so ids never escape the store root.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// LocalStore writes artifacts into a directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir when missing.
func NewLocalStore(dir string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "audio"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("speech: create audio dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Put(_ context.Context, id string, data []byte, contentType string) (*Artifact, error) {
	if !validID(id) {
		return nil, fmt.Errorf("speech: invalid artifact id %q", id)
	}
	name := ArtifactName(id)
	p := filepath.Join(s.dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return nil, fmt.Errorf("speech: write artifact: %w", err)
	}
	return &Artifact{ID: id, Name: name, Location: p, ContentType: contentType, Size: len(data)}, nil
}

func (s *LocalStore) Open(_ context.Context, id string) (io.ReadCloser, error) {
	if !validID(id) {
		return nil, ErrArtifactNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, ArtifactName(id)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("speech: open artifact: %w", err)
	}
	return f, nil
}

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store writes artifacts to a bucket under prefix.
type S3Store struct {
	client S3API
	bucket string
	prefix string
	logger *logging.Logger
}

func NewS3Store(client S3API, bucket, prefix string, logger *logging.Logger) *S3Store {
	if client == nil {
		panic("speech: s3 client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &S3Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/"), logger: logger}
}

func (s *S3Store) key(id string) string {
	if s.prefix == "" {
		return ArtifactName(id)
	}
	return path.Join(s.prefix, ArtifactName(id))
}

func (s *S3Store) Put(ctx context.Context, id string, data []byte, contentType string) (*Artifact, error) {
	if !validID(id) {
		return nil, fmt.Errorf("speech: invalid artifact id %q", id)
	}
	key := s.key(id)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("speech: s3 put %s: %w", key, err)
	}
	s.logger.Debug("stored audio artifact", "bucket", s.bucket, "key", key, "bytes", len(data))
	return &Artifact{
		ID:          id,
		Name:        ArtifactName(id),
		Location:    fmt.Sprintf("s3://%s/%s", s.bucket, key),
		ContentType: contentType,
		Size:        len(data),
	}, nil
}

func (s *S3Store) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if !validID(id) {
		return nil, ErrArtifactNotFound
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("speech: s3 get %s: %w", s.key(id), err)
	}
	return out.Body, nil
}
