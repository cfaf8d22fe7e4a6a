package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ImageService 设计图入库服务，负责把上传文件或base64数据转为对象存储中的图片
type ImageService struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewImageService 创建设计图服务，client为nil时跳过实际存储
func NewImageService(client *minio.Client, bucket string, logger *zap.Logger) *ImageService {
	return &ImageService{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// StoredImage 入库结果
type StoredImage struct {
	ObjectName string `json:"object_name"`
	URL        string `json:"url"`
}

// objectName 生成防碰撞对象名，如 order_designs/front_a1b2c3....png
func objectName(prefix string) string {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("order_designs/%s_%s.png", prefix, token)
}

// rewind 上传前重置可寻址读取器，避免流已被消费过
func rewind(r io.Reader) error {
	if seeker, ok := r.(io.Seeker); ok {
		_, err := seeker.Seek(0, io.SeekStart)
		return err
	}
	return nil
}

// IngestUpload 存储直接上传的设计图文件
func (s *ImageService) IngestUpload(ctx context.Context, r io.Reader, size int64, contentType, prefix string) (*StoredImage, error) {
	if s.client == nil {
		s.logger.Debug("object storage disabled, skipping image upload", zap.String("slot", prefix))
		return nil, nil
	}

	if err := rewind(r); err != nil {
		s.logger.Debug("rewind image stream failed", zap.String("slot", prefix), zap.Error(err))
	}

	if contentType == "" {
		contentType = "image/png"
	}

	name := objectName(prefix)
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	return &StoredImage{ObjectName: name, URL: s.urlFor(name)}, nil
}

// IngestBase64 存储base64编码的设计图，解码失败时记录日志并返回空结果
func (s *ImageService) IngestBase64(ctx context.Context, data, prefix string) (*StoredImage, error) {
	if data == "" {
		return nil, nil
	}

	decoded, err := decodeBase64Payload(data)
	if err != nil {
		s.logger.Warn("decode base64 image failed",
			zap.String("slot", prefix),
			zap.Error(err),
		)
		return nil, nil
	}

	if s.client == nil {
		s.logger.Debug("object storage disabled, skipping image upload", zap.String("slot", prefix))
		return nil, nil
	}

	name := objectName(prefix)
	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(decoded), int64(len(decoded)), minio.PutObjectOptions{
		ContentType: "image/png",
	})
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	return &StoredImage{ObjectName: name, URL: s.urlFor(name)}, nil
}

// decodeBase64Payload 去掉可能的data-URI头（<mime>;base64,）后解码
func decodeBase64Payload(data string) ([]byte, error) {
	if idx := strings.Index(data, ";base64,"); idx >= 0 {
		data = data[idx+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(data)
}

func (s *ImageService) urlFor(name string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, name)
}
