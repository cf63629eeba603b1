package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3Getter is the part of the S3 API the template loader needs
type S3Getter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var S3Client S3Getter

// InitS3 builds the client used to fetch prompt templates. Static keys are
// used when set, otherwise the default AWS credential chain applies.
func InitS3(logger *zap.Logger) error {
	endpoint := os.Getenv("S3_ENDPOINT_URL")
	accessKeyID := os.Getenv("S3_ACCESS_KEY_ID")
	secretAccessKey := os.Getenv("S3_SECRET_ACCESS_KEY")
	region := GetEnvOrDefault("S3_REGION", "us-east-1")

	sugar := logger.Sugar()
	sugar.Info("Initializing template storage client")

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	S3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	sugar.Infow("Template storage client ready",
		"custom_endpoint", endpoint != "",
		"region", region)
	return nil
}

// DownloadS3Object downloads an object from S3 and returns the data
func DownloadS3Object(ctx context.Context, bucket, key string) ([]byte, error) {
	if S3Client == nil {
		return nil, errors.New("s3 client is nil; call InitS3 first")
	}

	maxAttempts := getRetryMaxAttempts()
	retryDelay := time.Duration(getRetryDelaySeconds()) * time.Second
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		data, err := getObject(ctx, bucket, key)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}

	return nil, fmt.Errorf("failed to download object after %d attempts: %w", maxAttempts, lastErr)
}

func getObject(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := S3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer result.Body.Close()
	return io.ReadAll(result.Body)
}

// getRetryMaxAttempts returns the maximum number of download attempts from env, default 3
func getRetryMaxAttempts() int {
	n, err := strconv.Atoi(GetEnvOrDefault("S3_RETRY_MAX_ATTEMPTS", "3"))
	if err != nil || n < 1 {
		return 3
	}
	return n
}

// getRetryDelaySeconds returns the delay between attempts from env, default 2
func getRetryDelaySeconds() int {
	n, err := strconv.Atoi(GetEnvOrDefault("S3_RETRY_DELAY_SECONDS", "2"))
	if err != nil || n < 0 {
		return 2
	}
	return n
}

// ParseS3URI parses "s3://bucket/key" into bucket + key.
func ParseS3URI(u string) (bucket, key string, _ error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return "", "", fmt.Errorf("parse s3 uri: %w", err)
	}
	if parsed.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 uri: %s", u)
	}
	if parsed.Host == "" || len(parsed.Path) < 2 {
		return "", "", fmt.Errorf("s3 uri needs a bucket and key: %s", u)
	}
	return parsed.Host, parsed.Path[1:], nil
}

// LoadPromptTemplate fetches a prompt template from an s3:// URI
func LoadPromptTemplate(ctx context.Context, uri string) (string, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return "", err
	}
	data, err := DownloadS3Object(ctx, bucket, key)
	if err != nil {
		return "", fmt.Errorf("failed to load prompt template: %w", err)
	}
	return string(data), nil
}
