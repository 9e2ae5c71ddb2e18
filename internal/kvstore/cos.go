package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tencentyun/cos-go-sdk-v5"

	"wiremill/internal/config"
)

type cosStore struct {
	client *cos.Client
	prefix string
}

func NewCOSStore(cfg config.Config) (Store, error) {
	baseURL := strings.TrimSpace(cfg.KVCOSBucketURL)
	if baseURL == "" {
		return nil, errors.New("kvstore: missing COS bucket URL")
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("kvstore: parse COS bucket URL: %w", err)
	}

	secretID := strings.TrimSpace(cfg.KVCOSSecretID)
	secretKey := strings.TrimSpace(cfg.KVCOSSecretKey)
	if secretID == "" || secretKey == "" {
		return nil, errors.New("kvstore: missing COS credentials")
	}

	transport := &cos.AuthorizationTransport{
		SecretID:  secretID,
		SecretKey: secretKey,
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: parsedURL}, &http.Client{Transport: transport})

	return &cosStore{
		client: client,
		prefix: trimPrefix(cfg.KVCOSPrefix),
	}, nil
}

func (s *cosStore) Get(ctx context.Context, key string) (string, bool, error) {
	resp, err := s.client.Object.Get(ctx, joinPrefix(s.prefix, key), nil)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if cos.IsNotFoundError(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get object: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("read object: %w", err)
	}
	return string(data), true, nil
}

func (s *cosStore) Set(ctx context.Context, key, value string) error {
	options := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType: "application/json",
		},
	}
	resp, err := s.client.Object.Put(ctx, joinPrefix(s.prefix, key), strings.NewReader(value), options)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *cosStore) Remove(ctx context.Context, key string) error {
	resp, err := s.client.Object.Delete(ctx, joinPrefix(s.prefix, key))
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil && !cos.IsNotFoundError(err) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *cosStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	marker := ""
	for {
		result, resp, err := s.client.Bucket.Get(ctx, &cos.BucketGetOptions{
			Prefix: joinPrefix(s.prefix, prefix),
			Marker: marker,
		})
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, object := range result.Contents {
			keys = append(keys, stripPrefix(s.prefix, object.Key))
		}
		if !result.IsTruncated {
			break
		}
		marker = result.NextMarker
	}
	return keys, nil
}

var _ Store = (*cosStore)(nil)
