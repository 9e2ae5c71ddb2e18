package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DBType     string `env:"DBType" envDefault:"sqlite"`
	DSNURL     string `env:"DSN_URL" envDefault:""`
	DBUser     string `env:"DBUser" envDefault:""`
	DBPassword string `env:"DBPassword" envDefault:""`
	DBAddr     string `env:"DBAddr" envDefault:""`
	DBName     string `env:"DBName" envDefault:"wiremill"`
	DBPath     string `env:"DBPath" envDefault:"datas/wiremill.db"`
	DBPort     string `env:"DBPort" envDefault:"3306"`

	// 会话与草稿缓存配置
	SessionTTLHours   int `env:"SESSION_TTL_HOURS" envDefault:"168"`
	DraftTTLHours     int `env:"DRAFT_TTL_HOURS" envDefault:"24"`
	DraftDebounceMsec int `env:"DRAFT_DEBOUNCE_MS" envDefault:"500"`

	// 初始管理员账号（仅在用户表为空时写入）
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@example.com"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"Admin@123"`
	SeedAdminName     string `env:"SEED_ADMIN_NAME" envDefault:"Administrator"`

	KVType     string `env:"KV_TYPE" envDefault:"local"`
	KVLocalDir string `env:"KV_LOCAL_DIR" envDefault:"datas/kv"`

	// S3 兼容存储配置
	KVS3Region          string `env:"KV_S3_REGION"`
	KVS3Bucket          string `env:"KV_S3_BUCKET"`
	KVS3Prefix          string `env:"KV_S3_PREFIX"`
	KVS3Endpoint        string `env:"KV_S3_ENDPOINT"`
	KVS3AccessKeyID     string `env:"KV_S3_ACCESS_KEY_ID"`
	KVS3SecretAccessKey string `env:"KV_S3_SECRET_ACCESS_KEY"`
	KVS3SessionToken    string `env:"KV_S3_SESSION_TOKEN"`
	KVS3ForcePathStyle  bool   `env:"KV_S3_FORCE_PATH_STYLE" envDefault:"false"`

	// 阿里云 OSS 存储配置
	KVOSSEndpoint        string `env:"KV_OSS_ENDPOINT"`
	KVOSSBucket          string `env:"KV_OSS_BUCKET"`
	KVOSSPrefix          string `env:"KV_OSS_PREFIX"`
	KVOSSAccessKeyID     string `env:"KV_OSS_ACCESS_KEY_ID"`
	KVOSSAccessKeySecret string `env:"KV_OSS_ACCESS_KEY_SECRET"`

	// 腾讯云 COS 存储配置
	KVCOSBucketURL string `env:"KV_COS_BUCKET_URL"`
	KVCOSPrefix    string `env:"KV_COS_PREFIX"`
	KVCOSSecretID  string `env:"KV_COS_SECRET_ID"`
	KVCOSSecretKey string `env:"KV_COS_SECRET_KEY"`

	// Cloudflare R2 存储配置
	KVR2AccountID       string `env:"KV_R2_ACCOUNT_ID"`
	KVR2Endpoint        string `env:"KV_R2_ENDPOINT"`
	KVR2Region          string `env:"KV_R2_REGION" envDefault:"auto"`
	KVR2Bucket          string `env:"KV_R2_BUCKET"`
	KVR2Prefix          string `env:"KV_R2_PREFIX"`
	KVR2AccessKeyID     string `env:"KV_R2_ACCESS_KEY_ID"`
	KVR2SecretAccessKey string `env:"KV_R2_SECRET_ACCESS_KEY"`
}

func ParseConfig() (Config, error) {
	var Conf Config
	err := env.Parse(&Conf)
	if err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	logrus.Debugf("%#v\n", Conf)
	return Conf, nil
}
