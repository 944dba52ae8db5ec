package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"nontonin-api/config"
)

const (
	FolderAvatars = "avatars"
	FolderPosters = "posters"
)

// Client stores avatars and posters in an S3 bucket, MinIO included.
type Client struct {
	api      s3iface.S3API
	bucket   string
	endpoint string
	region   string
	useSSL   bool
}

// NewClient returns nil, nil when no bucket is configured.
func NewClient() (*Client, error) {
	if config.S3_BUCKET == "" {
		return nil, nil
	}

	awsConfig := &aws.Config{
		Region:      aws.String(config.S3_REGION),
		Credentials: credentials.NewStaticCredentials(config.S3_ACCESS_KEY, config.S3_SECRET_KEY, ""),
	}
	if config.S3_ENDPOINT != "" {
		awsConfig.Endpoint = aws.String(config.S3_ENDPOINT)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		awsConfig.DisableSSL = aws.Bool(!config.S3_USE_SSL)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	c := NewWithAPI(s3.New(sess), config.S3_BUCKET, config.S3_ENDPOINT, config.S3_REGION, config.S3_USE_SSL)

	// MinIO starts without buckets.
	if _, err := c.api.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		if _, err := c.api.CreateBucket(&s3.CreateBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
			return nil, fmt.Errorf("bucket %s unavailable: %w", c.bucket, err)
		}
	}
	return c, nil
}

func NewWithAPI(api s3iface.S3API, bucket, endpoint, region string, useSSL bool) *Client {
	return &Client{api: api, bucket: bucket, endpoint: endpoint, region: region, useSSL: useSSL}
}

// ObjectKey builds folder/<owner>/<uuid><ext> so uploads never overwrite each other.
func ObjectKey(folder, owner, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, owner, uuid.NewString()+ext)
}

// Upload stores body under key and returns its public URL.
func (c *Client) Upload(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error) {
	_, err := c.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return c.URL(key), nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.api.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (c *Client) URL(key string) string {
	if c.endpoint != "" && !strings.Contains(c.endpoint, "amazonaws.com") {
		protocol := "http"
		if c.useSSL {
			protocol = "https"
		}
		host := strings.TrimPrefix(strings.TrimPrefix(c.endpoint, "http://"), "https://")
		return fmt.Sprintf("%s://%s/%s/%s", protocol, host, c.bucket, key)
	}
	region := c.region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, region, key)
}

// KeyFromURL recovers the object key from a URL produced by URL, so stale
// objects can be removed when a file is replaced.
func (c *Client) KeyFromURL(u string) (string, bool) {
	prefix := c.URL("")
	if !strings.HasPrefix(u, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(u, prefix)
	return key, key != ""
}
