package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/username-dz/joker/internal/shop/entity"
	"github.com/username-dz/joker/internal/shop/repository"
	"go.uber.org/zap"
)

// 校验错误
var (
	ErrInvalidArticle = errors.New("invalid article")
	ErrInvalidSize    = errors.New("invalid size")
	ErrInvalidStatus  = errors.New("invalid status")
)

// RequestService 订单请求服务
type RequestService struct {
	repo     *repository.RequestRepository
	imageSvc *ImageService
	logger   *zap.Logger
}

func NewRequestService(repo *repository.RequestRepository, imageSvc *ImageService, logger *zap.Logger) *RequestService {
	return &RequestService{
		repo:     repo,
		imageSvc: imageSvc,
		logger:   logger,
	}
}

// CreateRequestInput 创建订单请求参数
type CreateRequestInput struct {
	Article     string `json:"article" form:"article"`
	Description string `json:"description" form:"description"`
	Phone       string `json:"phone" form:"phone"`
	City        string `json:"city" form:"city"`
	Name        string `json:"name" form:"name"`
	Text        string `json:"text" form:"text"`
	Color       string `json:"color" form:"color"`
	Size        string `json:"size" form:"size"`
	Quantity    int    `json:"quantity" form:"quantity"`
	Price       int    `json:"price" form:"price"`
	Repetitions int    `json:"repetitions" form:"repetitions"`

	// 旧版base64图片
	FrontImageData string `json:"frontImage" form:"frontImage"`
	BackImageData  string `json:"backImage" form:"backImage"`

	// 访客来源信息
	UUID     string `json:"uuid" form:"uuid"`
	FirstURL string `json:"first_url" form:"first_url"`
	LastURL  string `json:"last_url" form:"last_url"`
	Referrer string `json:"referrer" form:"referrer"`

	SubmittedDate *time.Time `json:"submitted_date" form:"-"`
}

// ImageUpload 直接上传的图片文件
type ImageUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

// RequestListResult 订单请求分页结果
type RequestListResult struct {
	Results    []entity.Request `json:"results"`
	Count      int64            `json:"count"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

// Create 创建订单请求。图片槽位独立处理：优先直接上传，其次base64，
// 图片处理失败只记录日志，不影响订单创建。
func (s *RequestService) Create(ctx context.Context, in *CreateRequestInput, front, back *ImageUpload) (*entity.Request, error) {
	if !entity.ValidArticle(in.Article) {
		return nil, ErrInvalidArticle
	}
	if !entity.ValidSize(in.Size) {
		return nil, ErrInvalidSize
	}

	req := &entity.Request{
		Article:        in.Article,
		Description:    in.Description,
		Phone:          in.Phone,
		City:           in.City,
		Name:           in.Name,
		Text:           in.Text,
		Color:          in.Color,
		Size:           in.Size,
		Quantity:       in.Quantity,
		Price:          in.Price,
		Repetitions:    in.Repetitions,
		FrontImageData: in.FrontImageData,
		BackImageData:  in.BackImageData,
		UUID:           in.UUID,
		FirstURL:       in.FirstURL,
		LastURL:        in.LastURL,
		Referrer:       in.Referrer,
		State:          entity.StateUnseen,
		IsSeen:         false,
		IsDelivered:    false,
		CreationDate:   time.Now(),
		SubmittedDate:  in.SubmittedDate,
	}
	if req.Color == "" {
		req.Color = "white"
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.attachFrontImage(ctx, req, front)
	s.attachBackImage(ctx, req, back)

	if err := s.repo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("save request images: %w", err)
	}

	req.FirstVisit = req.FirstVisitDate()
	return req, nil
}

func (s *RequestService) attachFrontImage(ctx context.Context, req *entity.Request, upload *ImageUpload) {
	if upload != nil {
		stored, err := s.imageSvc.IngestUpload(ctx, upload.Reader, upload.Size, upload.ContentType, "front")
		if err != nil {
			s.logger.Error("save front image failed", zap.Uint("request_id", req.ID), zap.Error(err))
			return
		}
		if stored != nil {
			req.FrontImage = stored.URL
		}
		return
	}

	if req.FrontImageData == "" {
		return
	}
	stored, err := s.imageSvc.IngestBase64(ctx, req.FrontImageData, fmt.Sprintf("front_%d", req.ID))
	if err != nil {
		s.logger.Error("process base64 front image failed", zap.Uint("request_id", req.ID), zap.Error(err))
		return
	}
	if stored != nil {
		req.FrontImage = stored.URL
		req.FrontImageData = "" // 转换成功后清空base64
	}
}

// attachBackImage 背面图除正常入库外还写入旧版Picture附件表
func (s *RequestService) attachBackImage(ctx context.Context, req *entity.Request, upload *ImageUpload) {
	var stored *StoredImage
	var err error

	if upload != nil {
		stored, err = s.imageSvc.IngestUpload(ctx, upload.Reader, upload.Size, upload.ContentType, "back")
		if err != nil {
			s.logger.Error("save back image failed", zap.Uint("request_id", req.ID), zap.Error(err))
			return
		}
	} else if req.BackImageData != "" {
		stored, err = s.imageSvc.IngestBase64(ctx, req.BackImageData, fmt.Sprintf("back_%d", req.ID))
		if err != nil {
			s.logger.Error("process base64 back image failed", zap.Uint("request_id", req.ID), zap.Error(err))
			return
		}
		if stored != nil {
			req.BackImageData = ""
		}
	}

	if stored == nil {
		return
	}
	req.BackImage = stored.URL

	pic := &entity.Picture{
		Image:     stored.URL,
		RequestID: &req.ID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreatePicture(ctx, pic); err != nil {
		s.logger.Error("create legacy picture failed", zap.Uint("request_id", req.ID), zap.Error(err))
	}
}

// Get 获取订单请求详情
func (s *RequestService) Get(ctx context.Context, id uint) (*entity.Request, error) {
	return s.repo.FindByID(ctx, id)
}

// List 分页查询订单请求，state为空时不过滤
func (s *RequestService) List(ctx context.Context, page, pageSize int, state string) (*RequestListResult, error) {
	if state != "" && !entity.ValidState(state) {
		return nil, ErrInvalidStatus
	}

	items, total, err := s.repo.FindAll(ctx, page, pageSize, state)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &RequestListResult{
		Results:    items,
		Count:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// ListByState 按状态查询全部订单请求
func (s *RequestService) ListByState(ctx context.Context, state string) ([]entity.Request, error) {
	if !entity.ValidState(state) {
		return nil, ErrInvalidStatus
	}
	return s.repo.FindByState(ctx, state)
}

// MarkSeen 标记为已查看：is_seen与state同时变更
func (s *RequestService) MarkSeen(ctx context.Context, id uint) (*entity.Request, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.IsSeen = true
	req.State = entity.StateSeen
	if err := s.repo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("mark seen: %w", err)
	}
	return req, nil
}

// MarkDelivered 标记为已交付，不改变state
func (s *RequestService) MarkDelivered(ctx context.Context, id uint) (*entity.Request, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.IsDelivered = true
	if err := s.repo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("mark delivered: %w", err)
	}
	return req, nil
}

// UpdateStatus 更新订单状态，只接受闭集内的值
func (s *RequestService) UpdateStatus(ctx context.Context, id uint, state string) (*entity.Request, error) {
	if !entity.ValidState(state) {
		return nil, ErrInvalidStatus
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.State = state
	if err := s.repo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return req, nil
}

// Delete 删除订单请求及其附件图片
func (s *RequestService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
