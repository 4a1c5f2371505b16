package model

import (
	"time"

	"gorm.io/gorm"
)

// Company 公司，CustomID 形如 CMP-001，由存储层自动生成。
type Company struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	CustomID      string    `gorm:"size:20;uniqueIndex;not null" json:"custom_id"`
	Name          string    `gorm:"uniqueIndex;not null" json:"name"`
	NameKey       string    `gorm:"not null;default:''" json:"-"`
	Slogan        string    `json:"slogan,omitempty"`
	Description   string    `json:"description,omitempty"`
	Website       string    `json:"website,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	EmployeeCount *int      `json:"employee_count,omitempty"`
	FoundedYear   *int      `json:"founded_year,omitempty"`
	Address       string    `json:"company_address,omitempty"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *Company) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (c *Company) BeforeSave(*gorm.DB) error {
	c.NameKey = FoldKey(c.Name)
	return nil
}
