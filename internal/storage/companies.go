package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"jobboard/internal/model"

	"gorm.io/gorm"
)

// CreateCompany 创建公司并生成 CMP-NNN 编号；linkUserID 非空时同时把该雇主关联到新公司。
func (s *Store) CreateCompany(ctx context.Context, company *model.Company, linkUserID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if company.CustomID == "" {
			next, err := nextCompanyCustomID(tx)
			if err != nil {
				return err
			}
			company.CustomID = next
		}
		company.IsActive = true
		if err := tx.Create(company).Error; err != nil {
			return translate("create company", err)
		}
		if linkUserID != "" {
			return linkEmployerCompany(tx, linkUserID, company.ID)
		}
		return nil
	})
}

func nextCompanyCustomID(tx *gorm.DB) (string, error) {
	var last []string
	if err := tx.Model(&model.Company{}).
		Where("custom_id LIKE ?", "CMP-%").
		Order("custom_id DESC").
		Limit(1).
		Pluck("custom_id", &last).Error; err != nil {
		return "", translate("query last company id", err)
	}
	next := 1
	if len(last) > 0 {
		parts := strings.Split(last[0], "-")
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("CMP-%03d", next), nil
}

// GetCompany 根据 ID 获取公司。
func (s *Store) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	var company model.Company
	if err := s.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, translate("get company", err)
	}
	return &company, nil
}

// ListCompanies 返回公司列表，activeOnly 时仅返回启用的公司。
func (s *Store) ListCompanies(ctx context.Context, activeOnly bool) ([]model.Company, error) {
	var companies []model.Company
	query := s.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&companies).Error; err != nil {
		return nil, translate("list companies", err)
	}
	return companies, nil
}

// CompanyNameExists 判断公司名是否已被占用（大小写不敏感），excludeID 用于编辑时排除自身。
func (s *Store) CompanyNameExists(ctx context.Context, name, excludeID string) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&model.Company{}).
		Where("name_key = ?", model.FoldKey(name))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translate("count companies by name", err)
	}
	return count > 0, nil
}

// UpdateCompany 更新公司资料，不修改编号与启用状态。
func (s *Store) UpdateCompany(ctx context.Context, company *model.Company) error {
	company.NameKey = model.FoldKey(company.Name)
	tx := s.db.WithContext(ctx).Model(&model.Company{ID: company.ID}).
		Select("name", "name_key", "slogan", "description", "website", "industry", "employee_count", "founded_year", "address").
		Updates(company)
	if tx.Error != nil {
		return translate("update company", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return translate("update company", gorm.ErrRecordNotFound)
	}
	return nil
}

// SetCompanyActive 设置公司启用状态。
func (s *Store) SetCompanyActive(ctx context.Context, id string, active bool) error {
	tx := s.db.WithContext(ctx).Model(&model.Company{}).Where("id = ?", id).Update("is_active", active)
	if tx.Error != nil {
		return translate("set company active", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return translate("set company active", gorm.ErrRecordNotFound)
	}
	return nil
}
