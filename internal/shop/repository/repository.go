package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	Request *RequestRepository
	Contact *ContactRepository
	User    *UserRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Request: NewRequestRepository(db),
		Contact: NewContactRepository(db),
		User:    NewUserRepository(db),
	}
}
