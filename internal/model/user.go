package model

import (
	"time"

	"gorm.io/gorm"
)

// Role 表示账号角色。
type Role string

const (
	RoleJobSeeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// Valid 判断角色是否为已知取值。
func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return true
	default:
		return false
	}
}

// User 表示注册账号，Email 以小写形式存储保证大小写不敏感唯一。
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"not null" json:"username"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `gorm:"size:16;not null;index" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SeekerProfile   *SeekerProfile   `gorm:"foreignKey:UserID" json:"-"`
	EmployerProfile *EmployerProfile `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
