package storage

import (
	"context"
	"strings"

	"jobboard/internal/model"

	"gorm.io/gorm"
)

// CreateUser 创建账号，附带的档案（SeekerProfile/EmployerProfile）在同一事务中写入。
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate("create user", err)
	}
	return nil
}

// EmailExists 判断邮箱是否已注册（大小写不敏感）。
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, translate("count users by email", err)
	}
	return count > 0, nil
}

// GetUser 根据 ID 获取账号并预加载档案与雇主所属公司。
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Preload("SeekerProfile").
		Preload("EmployerProfile").
		Preload("EmployerProfile.Company").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate("get user", err)
	}
	return &user, nil
}

// GetSeekerProfile 返回求职者档案及全部子记录。
func (s *Store) GetSeekerProfile(ctx context.Context, userID string) (*model.SeekerProfile, error) {
	var profile model.SeekerProfile
	err := s.db.WithContext(ctx).
		Preload("Educations", func(db *gorm.DB) *gorm.DB {
			return db.Order("end_year DESC").Order("completion_year DESC").Order("start_year DESC")
		}).
		Preload("Experiences", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_date DESC")
		}).
		Preload("Skills").
		Preload("Languages").
		Preload("Certifications").
		First(&profile, "user_id = ?", userID).Error
	if err != nil {
		return nil, translate("get seeker profile", err)
	}
	return &profile, nil
}

// SaveSeekerProfile 更新档案字段，并整体替换嵌套子记录。
func (s *Store) SaveSeekerProfile(ctx context.Context, profile *model.SeekerProfile) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.SeekerProfile
		if err := tx.Select("id").First(&current, "user_id = ?", profile.UserID).Error; err != nil {
			return translate("load seeker profile", err)
		}
		profile.ID = current.ID

		err := tx.Model(&model.SeekerProfile{ID: current.ID}).
			Select("*").
			Omit("id", "user_id", "created_at", "Educations", "Experiences", "Skills", "Languages", "Certifications").
			Updates(profile).Error
		if err != nil {
			return translate("update seeker profile", err)
		}

		children := []any{&model.EducationEntry{}, &model.ExperienceEntry{}, &model.Skill{}, &model.Language{}, &model.Certification{}}
		for _, child := range children {
			if err := tx.Where("profile_id = ?", current.ID).Delete(child).Error; err != nil {
				return translate("clear profile entries", err)
			}
		}

		for i := range profile.Educations {
			profile.Educations[i].ID = ""
			profile.Educations[i].ProfileID = current.ID
		}
		for i := range profile.Experiences {
			profile.Experiences[i].ID = ""
			profile.Experiences[i].ProfileID = current.ID
		}
		for i := range profile.Skills {
			profile.Skills[i].ID = ""
			profile.Skills[i].ProfileID = current.ID
		}
		for i := range profile.Languages {
			profile.Languages[i].ID = ""
			profile.Languages[i].ProfileID = current.ID
		}
		for i := range profile.Certifications {
			profile.Certifications[i].ID = ""
			profile.Certifications[i].ProfileID = current.ID
		}

		if err := createAll(tx, profile.Educations); err != nil {
			return translate("create educations", err)
		}
		if err := createAll(tx, profile.Experiences); err != nil {
			return translate("create experiences", err)
		}
		if err := createAll(tx, profile.Skills); err != nil {
			return translate("create skills", err)
		}
		if err := createAll(tx, profile.Languages); err != nil {
			return translate("create languages", err)
		}
		if err := createAll(tx, profile.Certifications); err != nil {
			return translate("create certifications", err)
		}
		return nil
	})
}

func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// GetEmployerProfile 返回雇主档案及关联公司。
func (s *Store) GetEmployerProfile(ctx context.Context, userID string) (*model.EmployerProfile, error) {
	var profile model.EmployerProfile
	if err := s.db.WithContext(ctx).Preload("Company").First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, translate("get employer profile", err)
	}
	return &profile, nil
}

// UpdateEmployerProfile 更新雇主个人信息，不涉及公司关联。
func (s *Store) UpdateEmployerProfile(ctx context.Context, userID, fullName string, employeeID *string) error {
	tx := s.db.WithContext(ctx).Model(&model.EmployerProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"full_name": fullName, "employee_id": employeeID})
	if tx.Error != nil {
		return translate("update employer profile", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return translate("update employer profile", gorm.ErrRecordNotFound)
	}
	return nil
}

// LinkEmployerCompany 将雇主关联到公司。
func (s *Store) LinkEmployerCompany(ctx context.Context, userID, companyID string) error {
	return linkEmployerCompany(s.db.WithContext(ctx), userID, companyID)
}

func linkEmployerCompany(db *gorm.DB, userID, companyID string) error {
	tx := db.Model(&model.EmployerProfile{}).Where("user_id = ?", userID).Update("company_id", companyID)
	if tx.Error != nil {
		return translate("link employer company", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return translate("link employer company", gorm.ErrRecordNotFound)
	}
	return nil
}
