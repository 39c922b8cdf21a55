package infra_posters_s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/kinokreker/core/internal/model"
)

type Storage struct {
	client *s3.Client

	prefix     string
	bucketName string
}

func New(bucketName string, client *s3.Client, prefix string) *Storage {
	return &Storage{
		bucketName: bucketName,
		client:     client,
		prefix:     prefix,
	}
}

func (s *Storage) buildKey(paths ...string) string {
	var cleaned []string
	for _, p := range paths {
		clean := strings.ReplaceAll(p, "\\", "")
		clean = strings.ReplaceAll(clean, "/", "")
		cleaned = append(cleaned, clean)
	}
	return path.Join(cleaned...)
}

func (s *Storage) Save(ctx context.Context, poster model.Poster) (string, error) {
	return s.upload(ctx, poster)
}

func (s *Storage) upload(ctx context.Context, obj model.FileObject) (string, error) {
	key := s.buildKey(s.prefix, obj.GetParent(), obj.GetFilename())

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucketName,
		Key:    &key,
		Body:   bytes.NewReader(obj.GetContent()),
		ACL:    types.ObjectCannedACLPrivate,
	}); err != nil {
		return "", fmt.Errorf("failed to save object to S3: %w", err)
	}
	return key, nil
}
