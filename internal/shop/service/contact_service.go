package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/username-dz/joker/internal/shop/entity"
	"github.com/username-dz/joker/internal/shop/repository"
)

// 未读数缓存key
const unreadCountKey = "contacts:unread_count"

// ContactService 联系留言服务
type ContactService struct {
	repo *repository.ContactRepository
	rdb  *redis.Client
}

func NewContactService(repo *repository.ContactRepository, rdb *redis.Client) *ContactService {
	return &ContactService{repo: repo, rdb: rdb}
}

// CreateContactInput 创建留言参数
type CreateContactInput struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message" binding:"required"`
}

// ContactListResult 留言分页结果
type ContactListResult struct {
	Results    []entity.Contact `json:"results"`
	Count      int64            `json:"count"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

// Create 创建留言，read固定为false，timestamp取当前时间
func (s *ContactService) Create(ctx context.Context, in *CreateContactInput) (*entity.Contact, error) {
	contact := &entity.Contact{
		FullName:    in.FullName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Message:     in.Message,
		Timestamp:   time.Now(),
		Read:        false,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	s.invalidateUnreadCount(ctx)
	return contact, nil
}

// Get 获取留言详情
func (s *ContactService) Get(ctx context.Context, id uint) (*entity.Contact, error) {
	return s.repo.FindByID(ctx, id)
}

// List 分页查询留言
func (s *ContactService) List(ctx context.Context, page, pageSize int) (*ContactListResult, error) {
	items, total, err := s.repo.FindAll(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &ContactListResult{
		Results:    items,
		Count:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// ListUnread 查询全部未读留言
func (s *ContactService) ListUnread(ctx context.Context) ([]entity.Contact, error) {
	return s.repo.FindUnread(ctx)
}

// CountUnread 统计未读留言数，优先走Redis缓存
func (s *ContactService) CountUnread(ctx context.Context) (int64, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, unreadCountKey).Result(); err == nil {
			if count, perr := strconv.ParseInt(cached, 10, 64); perr == nil {
				return count, nil
			}
		}
	}

	count, err := s.repo.CountUnread(ctx)
	if err != nil {
		return 0, fmt.Errorf("count unread contacts: %w", err)
	}

	if s.rdb != nil {
		s.rdb.Set(ctx, unreadCountKey, count, time.Minute)
	}
	return count, nil
}

// MarkRead 标记留言为已读
func (s *ContactService) MarkRead(ctx context.Context, id uint) (*entity.Contact, error) {
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !contact.Read {
		contact.Read = true
		if err := s.repo.Update(ctx, contact); err != nil {
			return nil, fmt.Errorf("mark read: %w", err)
		}
		s.invalidateUnreadCount(ctx)
	}
	return contact, nil
}

// Delete 删除留言
func (s *ContactService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateUnreadCount(ctx)
	return nil
}

func (s *ContactService) invalidateUnreadCount(ctx context.Context) {
	if s.rdb != nil {
		s.rdb.Del(ctx, unreadCountKey)
	}
}
