package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/username-dz/joker/internal/config"
	"github.com/username-dz/joker/internal/shop/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 服务集合
type Services struct {
	Auth    *AuthService
	Request *RequestService
	Stats   *StatsService
	Contact *ContactService
	Image   *ImageService
}

// NewServices 创建服务集合
func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	// 初始化MinIO客户端
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("init minio client failed, images will not be stored", zap.Error(err))
			minioClient = nil
		}
	}

	imageSvc := NewImageService(minioClient, cfg.MinIO.Bucket, logger)

	return &Services{
		Auth:    NewAuthService(repos.User, rdb, cfg),
		Request: NewRequestService(repos.Request, imageSvc, logger),
		Stats:   NewStatsService(db, logger),
		Contact: NewContactService(repos.Contact, rdb),
		Image:   imageSvc,
	}
}
