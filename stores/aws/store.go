package aws

import (
	"bytes"
	"context"
	"courseboard/core"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/oklog/ulid/v2"
)

// catalogKey is the fixed object key the course list is persisted under.
const catalogKey = "courses.json"

const exportPrefix = "exports/"

type s3Store struct {
	s3Client *s3.Client
	bucket   string
}

// NewStore creates a new S3-based store.
func NewStore(bucketName string) *s3Store {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	s3Client := s3.NewFromConfig(cfg)

	return &s3Store{
		s3Client: s3Client,
		bucket:   bucketName,
	}
}

// CatalogStore implementation

func (s *s3Store) Load(ctx context.Context) ([]core.Course, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(catalogKey),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course list: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read course list: %v", err)
	}

	var courses []core.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCorruptState, err)
	}
	return courses, nil
}

func (s *s3Store) Save(ctx context.Context, courses []core.Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("failed to marshal course list: %v", err)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(catalogKey),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to save course list: %v", err)
	}
	return nil
}

// ExportStore implementation

func (s *s3Store) exportKey(id string) (string, error) {
	// Sanitize the id to prevent path traversal; it should be a simple
	// name, not a path.
	if id == "" || path.Base(id) != id || id == "." || id == ".." {
		return "", fmt.Errorf("invalid export id")
	}
	return exportPrefix + id, nil
}

func (s *s3Store) SaveExport(ctx context.Context, data []byte) (string, error) {
	id := ulid.Make().String()
	key, err := s.exportKey(id)
	if err != nil {
		return "", err
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export: %v", err)
	}

	return id, nil
}

func (s *s3Store) FindExport(ctx context.Context, id string) ([]byte, error) {
	key, err := s.exportKey(id)
	if err != nil {
		return nil, err
	}
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", core.ErrExportNotFound, id)
		}
		return nil, fmt.Errorf("failed to get export %s: %v", id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export data: %v", err)
	}
	return data, nil
}
