package repository

import (
	"context"
	"errors"

	"github.com/username-dz/joker/internal/shop/entity"
	"gorm.io/gorm"
)

// RequestRepository 订单请求仓库
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// FindAll 分页查询订单请求，按创建时间倒序
func (r *RequestRepository) FindAll(ctx context.Context, page, pageSize int, state string) ([]entity.Request, int64, error) {
	var items []entity.Request
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Request{})
	if state != "" {
		query = query.Where("state = ?", state)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("creation_date DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByState 按状态查询全部订单请求
func (r *RequestRepository) FindByState(ctx context.Context, state string) ([]entity.Request, error) {
	var items []entity.Request
	err := r.db.WithContext(ctx).
		Where("state = ?", state).
		Order("creation_date DESC").
		Find(&items).Error
	return items, err
}

// FindByID 根据ID查找订单请求（含附件图片）
func (r *RequestRepository) FindByID(ctx context.Context, id uint) (*entity.Request, error) {
	var req entity.Request
	err := r.db.WithContext(ctx).
		Preload("Pictures").
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Create 创建订单请求
func (r *RequestRepository) Create(ctx context.Context, req *entity.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// Update 更新订单请求
func (r *RequestRepository) Update(ctx context.Context, req *entity.Request) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// Delete 删除订单请求并级联删除附件图片
func (r *RequestRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", id).Delete(&entity.Picture{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.Request{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreatePicture 创建旧版附件图片记录
func (r *RequestRepository) CreatePicture(ctx context.Context, pic *entity.Picture) error {
	return r.db.WithContext(ctx).Create(pic).Error
}
