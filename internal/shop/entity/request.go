package entity

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Request 定制商品订单请求
type Request struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Article string `json:"article" gorm:"size:255;not null"`

	Description string `json:"description" gorm:"type:text"`
	Phone       string `json:"phone" gorm:"size:255"`
	City        string `json:"city" gorm:"size:255"`
	Name        string `json:"name" gorm:"size:255"`
	Text        string `json:"text" gorm:"type:text"`

	// 存储服务返回的图片URL
	FrontImage string `json:"front_image" gorm:"size:512"`
	BackImage  string `json:"back_image" gorm:"size:512"`
	// 旧版base64图片字段，入库成功后清空
	FrontImageData string `json:"frontImage,omitempty" gorm:"column:front_image_data;type:text"`
	BackImageData  string `json:"backImage,omitempty" gorm:"column:back_image_data;type:text"`

	Color    string `json:"color" gorm:"size:255;default:white"`
	Size     string `json:"size" gorm:"size:255"` // 可为空
	Quantity int    `json:"quantity" gorm:"default:1"`

	State       string `json:"state" gorm:"size:20;default:unseen"`
	IsSeen      bool   `json:"is_seen" gorm:"default:false"`
	IsDelivered bool   `json:"is_delivered" gorm:"default:false"`

	CreationDate  time.Time  `json:"creation_date" gorm:"index"`
	SubmittedDate *time.Time `json:"submitted_date"`

	// 访客来源信息，uuid前缀携带首次访问的毫秒时间戳
	FirstVisit *time.Time `json:"first_visit_date,omitempty" gorm:"-"`
	UUID       string     `json:"uuid" gorm:"size:255"`
	FirstURL string `json:"first_url" gorm:"size:255"`
	LastURL  string `json:"last_url" gorm:"size:255"`
	Referrer string `json:"referrer" gorm:"type:text"`

	Price       int `json:"price" gorm:"default:0"`
	Repetitions int `json:"repetitions" gorm:"default:0"`

	Pictures []Picture `json:"pictures,omitempty" gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

func (Request) TableName() string {
	return "requests"
}

// 商品类型
const (
	ArticleTShirt     = "t_shirt"
	ArticleSweetShirt = "sweet_shirt"
	ArticleMug        = "mug"
	ArticleKeyRing    = "key_ring"
)

// 订单状态
const (
	StateUnseen   = "unseen"
	StateSeen     = "seen"
	StatePending  = "pending"
	StateProgress = "progress"
	StateFinished = "finished"
)

// 尺码
const (
	SizeS   = "S"
	SizeM   = "M"
	SizeL   = "L"
	SizeXL  = "XL"
	SizeXXL = "XXL"
)

var articleChoices = map[string]bool{
	ArticleTShirt:     true,
	ArticleSweetShirt: true,
	ArticleMug:        true,
	ArticleKeyRing:    true,
}

var sizeChoices = map[string]bool{
	SizeS:   true,
	SizeM:   true,
	SizeL:   true,
	SizeXL:  true,
	SizeXXL: true,
}

var stateChoices = map[string]bool{
	StateUnseen:   true,
	StateSeen:     true,
	StatePending:  true,
	StateProgress: true,
	StateFinished: true,
}

// ValidArticle 校验商品类型
func ValidArticle(article string) bool {
	return articleChoices[article]
}

// ValidSize 校验尺码，空值表示不适用（如马克杯）
func ValidSize(size string) bool {
	return size == "" || sizeChoices[size]
}

// ValidState 校验订单状态
func ValidState(state string) bool {
	return stateChoices[state]
}

// AfterFind 查询后填充uuid派生的首次访问时间
func (r *Request) AfterFind(*gorm.DB) error {
	r.FirstVisit = r.FirstVisitDate()
	return nil
}

// FirstVisitDate 从uuid前缀解析访客首次访问时间，解析失败返回nil
func (r *Request) FirstVisitDate() *time.Time {
	if r.UUID == "" || !strings.Contains(r.UUID, "-") {
		return nil
	}
	ms, err := strconv.ParseInt(strings.SplitN(r.UUID, "-", 2)[0], 10, 64)
	if err != nil {
		return nil
	}
	t := time.UnixMilli(ms)
	return &t
}

// Picture 旧版订单附件图片（背面图的兼容副本）
type Picture struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Image     string    `json:"image" gorm:"size:512;not null"`
	RequestID *uint     `json:"request_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Picture) TableName() string {
	return "pictures"
}
