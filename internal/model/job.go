package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobPosting 表示一个职位。
// - CompanyID/PosterID: 所属公司与发布者，公司在创建时由发布者推导
// - IsActive: 仅激活的职位可被检索与投递
// - ApplicantsCount: 投递计数，与投递记录在同一事务中原子递增
// - KeySkills/Tags 等: JSON 字符串数组
type JobPosting struct {
	ID                 string                      `gorm:"primaryKey;size:36" json:"id"`
	CompanyID          string                      `gorm:"size:36;index;not null" json:"company_id"`
	Company            *Company                    `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	PosterID           *string                     `gorm:"size:36;index" json:"poster_id,omitempty"`
	Title              string                      `gorm:"not null" json:"title"`
	TitleKey           string                      `gorm:"not null;default:''" json:"-"`
	Location           string                      `json:"location"`
	JobType            string                      `json:"job_type,omitempty"`
	IndustryType       string                      `json:"industry_type,omitempty"`
	ExperienceRequired string                      `json:"experience_required,omitempty"`
	WorkType           string                      `json:"work_type,omitempty"`
	Salary             string                      `json:"salary,omitempty"`
	Description        string                      `json:"description"`
	Responsibilities   datatypes.JSONSlice[string] `json:"responsibilities"`
	KeySkills          datatypes.JSONSlice[string] `json:"key_skills"`
	EducationRequired  datatypes.JSONSlice[string] `json:"education_required"`
	Tags               datatypes.JSONSlice[string] `json:"tags"`
	Department         datatypes.JSONSlice[string] `json:"department"`
	Shift              string                      `json:"shift,omitempty"`
	Duration           string                      `json:"duration,omitempty"`
	Openings           int                         `gorm:"not null;default:1" json:"openings"`
	ApplicantsCount    int                         `gorm:"not null;default:0" json:"applicants_count"`
	IsActive           bool                        `gorm:"not null;default:true;index" json:"is_active"`
	PostedAt           time.Time                   `gorm:"index" json:"posted_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

func (j *JobPosting) BeforeCreate(*gorm.DB) error {
	ensureID(&j.ID)
	if j.PostedAt.IsZero() {
		j.PostedAt = time.Now().UTC()
	}
	return nil
}

func (j *JobPosting) BeforeSave(*gorm.DB) error {
	j.TitleKey = FoldKey(j.Title)
	return nil
}

// PostedBy 判断职位是否由指定用户发布。
func (j *JobPosting) PostedBy(userID string) bool {
	return j.PosterID != nil && *j.PosterID == userID
}
