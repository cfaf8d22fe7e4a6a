package repository

import (
	"context"
	"errors"

	"github.com/username-dz/joker/internal/shop/entity"
	"gorm.io/gorm"
)

// ContactRepository 联系留言仓库
type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// FindAll 分页查询留言，按提交时间倒序
func (r *ContactRepository) FindAll(ctx context.Context, page, pageSize int) ([]entity.Contact, int64, error) {
	var items []entity.Contact
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Contact{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("timestamp DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindUnread 查询全部未读留言
func (r *ContactRepository) FindUnread(ctx context.Context) ([]entity.Contact, error) {
	var items []entity.Contact
	err := r.db.WithContext(ctx).
		Where("read = ?", false).
		Order("timestamp DESC").
		Find(&items).Error
	return items, err
}

// CountUnread 统计未读留言数
func (r *ContactRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Contact{}).
		Where("read = ?", false).
		Count(&count).Error
	return count, err
}

// FindByID 根据ID查找留言
func (r *ContactRepository) FindByID(ctx context.Context, id uint) (*entity.Contact, error) {
	var contact entity.Contact
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// Create 创建留言
func (r *ContactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// Update 更新留言
func (r *ContactRepository) Update(ctx context.Context, contact *entity.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

// Delete 删除留言
func (r *ContactRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Contact{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
