// Package storage persists claim documents in S3 and validates uploads
// against the supported document types.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DocumentStorage handles claim document uploads to S3.
type DocumentStorage struct {
	client *s3.Client
	bucket string
}

func NewDocumentStorage(client *s3.Client, bucket string) *DocumentStorage {
	return &DocumentStorage{client: client, bucket: bucket}
}

// UploadDocument writes a document body under the given key.
// Returns the storage key on success.
func (s *DocumentStorage) UploadDocument(ctx context.Context, key string, body io.Reader, contentType string, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document %s: %w", key, err)
	}

	return key, nil
}

// DeleteDocument removes a document from the bucket.
func (s *DocumentStorage) DeleteDocument(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}

	return nil
}

// DocumentKey builds the object key for a claim attachment, scoped by the
// ledger entry the claim is filed against.
func DocumentKey(entryID, documentID, fileName string) string {
	return fmt.Sprintf("claims/%s/%s-%s", entryID, documentID, fileName)
}
