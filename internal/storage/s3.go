// Package storage wraps the S3 object store used for profile pictures.
package storage

import (
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/taskhive/taskhive/internal/config"
)

// S3 represents the Amazon S3 service scoped to one bucket.
type S3 struct {
	bucketName string
	region     string
	svc        *s3.S3
}

// NewClient creates an S3 client from the application config.  Returns
// nil without error when no bucket is configured, so callers can treat
// file storage as an optional feature.
func NewClient(cfg config.Config) (*S3, error) {
	if cfg.S3Bucket == "" {
		return nil, nil
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, err
	}
	return &S3{
		bucketName: cfg.S3Bucket,
		region:     cfg.AWSRegion,
		svc:        s3.New(sess),
	}, nil
}

// UploadFile uploads the object and returns its public URL.
func (s *S3) UploadFile(src io.Reader, objectKey string) (string, error) {
	_, err := s.svc.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
		Body:   aws.ReadSeekCloser(src),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, objectKey), nil
}

// DeleteFile removes an object from the bucket.
func (s *S3) DeleteFile(objectKey string) error {
	_, err := s.svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})
	return err
}
