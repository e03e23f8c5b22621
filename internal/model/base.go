package model

import (
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	// 时间戳由 gorm 在写入时填充，不依赖数据库默认值
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
}
