package entity

import "time"

// Contact 联系表单留言
type Contact struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FullName    string    `json:"fullName" gorm:"column:full_name;size:255;not null"`
	Email       string    `json:"email" gorm:"size:255;not null"`
	PhoneNumber string    `json:"phoneNumber" gorm:"column:phone_number;size:20"`
	Message     string    `json:"message" gorm:"type:text;not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"index"`
	Read        bool      `json:"read" gorm:"default:false"`
}

func (Contact) TableName() string {
	return "contacts"
}
