package model

import (
	"strings"

	"github.com/google/uuid"
)

// FoldKey 返回大小写不敏感比较用的键。数据库的 LOWER 只处理 ASCII，唯一约束与查重都落在该键上。
func FoldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ensureID 在写入前补齐 UUID 主键。
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// AllModels 返回需要自动迁移的全部模型，顺序即依赖顺序。
func AllModels() []any {
	return []any{
		&User{},
		&Company{},
		&EmployerProfile{},
		&SeekerProfile{},
		&EducationEntry{},
		&ExperienceEntry{},
		&Skill{},
		&Language{},
		&Certification{},
		&JobPosting{},
		&JobApplication{},
		&SavedJob{},
		&Notification{},
		&NewsletterSubscriber{},
	}
}
