package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"wiremill/internal/config"
)

type ossStore struct {
	bucket *oss.Bucket
	prefix string
}

func NewOSSStore(cfg config.Config) (Store, error) {
	endpoint := strings.TrimSpace(cfg.KVOSSEndpoint)
	if endpoint == "" {
		return nil, errors.New("kvstore: missing OSS endpoint")
	}
	bucketName := strings.TrimSpace(cfg.KVOSSBucket)
	if bucketName == "" {
		return nil, errors.New("kvstore: missing OSS bucket")
	}
	accessKey := strings.TrimSpace(cfg.KVOSSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.KVOSSAccessKeySecret)
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("kvstore: missing OSS credentials")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("kvstore: create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open OSS bucket: %w", err)
	}

	return &ossStore{
		bucket: bucket,
		prefix: trimPrefix(cfg.KVOSSPrefix),
	}, nil
}

func (s *ossStore) Get(ctx context.Context, key string) (string, bool, error) {
	body, err := s.bucket.GetObject(joinPrefix(s.prefix, key), oss.WithContext(ctx))
	if err != nil {
		if isOSSNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get object: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", false, fmt.Errorf("read object: %w", err)
	}
	return string(data), true, nil
}

func (s *ossStore) Set(ctx context.Context, key, value string) error {
	err := s.bucket.PutObject(
		joinPrefix(s.prefix, key),
		strings.NewReader(value),
		oss.WithContext(ctx),
		oss.ContentType("application/json"),
	)
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *ossStore) Remove(ctx context.Context, key string) error {
	if err := s.bucket.DeleteObject(joinPrefix(s.prefix, key), oss.WithContext(ctx)); err != nil {
		if isOSSNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *ossStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	marker := ""
	for {
		result, err := s.bucket.ListObjects(
			oss.WithContext(ctx),
			oss.Prefix(joinPrefix(s.prefix, prefix)),
			oss.Marker(marker),
		)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, object := range result.Objects {
			keys = append(keys, stripPrefix(s.prefix, object.Key))
		}
		if !result.IsTruncated {
			break
		}
		marker = result.NextMarker
	}
	return keys, nil
}

var _ Store = (*ossStore)(nil)

func isOSSNotFound(err error) bool {
	if err == nil {
		return false
	}
	var serviceErr oss.ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.StatusCode == 404
	}
	return false
}
