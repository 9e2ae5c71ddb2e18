package kvstore

import (
	"context"
	"fmt"
	"strings"

	"wiremill/internal/config"
)

const (
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
)

// Store 是持久化字符串键值对的抽象。会话记录和表单草稿都存放在这里。
//
// Get returns (value, true, nil) when the key exists, ("", false, nil)
// when it does not, and a non-nil error only for storage failures.
// ListKeys returns every stored key with the given prefix.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// NewStore 根据配置实例化键值存储后端。
func NewStore(cfg config.Config) (Store, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.KVType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStore(cfg.KVLocalDir)
	case TypeS3:
		return NewS3Store(cfg)
	case TypeOSS:
		return NewOSSStore(cfg)
	case TypeCOS:
		return NewCOSStore(cfg)
	case TypeR2:
		return NewR2Store(cfg)
	default:
		return nil, fmt.Errorf("unsupported kv store type: %s", cfg.KVType)
	}
}

func trimPrefix(value string) string {
	return strings.Trim(strings.TrimSpace(value), "/")
}

func joinPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

func stripPrefix(prefix, objectKey string) string {
	if prefix == "" {
		return objectKey
	}
	return strings.TrimPrefix(objectKey, prefix+"/")
}
