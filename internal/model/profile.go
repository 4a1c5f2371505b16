package model

import (
	"time"

	"gorm.io/gorm"
)

// SeekerProfile 求职者档案，与 User 一对一。
// ResumeRef 仅保存简历的外部引用，文件本身由外部存储负责。
type SeekerProfile struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:36;uniqueIndex;not null" json:"user_id"`

	FullName      string     `json:"full_name"`
	Gender        string     `json:"gender"`
	DOB           *time.Time `json:"dob,omitempty"`
	MaritalStatus string     `json:"marital_status"`
	Nationality   string     `json:"nationality"`

	CurrentJobTitle      string   `json:"current_job_title"`
	CurrentCompany       string   `json:"current_company"`
	TotalExperienceYears *float64 `json:"total_experience_years,omitempty"`
	NoticePeriod         string   `json:"notice_period"`
	CurrentLocation      string   `json:"current_location"`
	PreferredLocations   string   `json:"preferred_locations"`

	AlternatePhone string `json:"alternate_phone,omitempty"`
	AlternateEmail string `json:"alternate_email,omitempty"`
	FullAddress    string `json:"full_address"`
	City           string `json:"city"`
	State          string `json:"state"`
	Pincode        string `json:"pincode"`
	Country        string `json:"country"`

	ResumeRef     string `json:"resume_ref,omitempty"`
	PortfolioLink string `json:"portfolio_link,omitempty"`

	CurrentCTC            *float64 `json:"current_ctc,omitempty"`
	ExpectedCTC           *float64 `json:"expected_ctc,omitempty"`
	PreferredJobType      string   `json:"preferred_job_type"`
	PreferredRoleIndustry string   `json:"preferred_role_industry"`
	ReadyToStart          bool     `json:"ready_to_start_immediately"`
	WillingToRelocate     bool     `json:"willing_to_relocate"`

	Educations     []EducationEntry  `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"educations"`
	Experiences    []ExperienceEntry `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"experiences"`
	Skills         []Skill           `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"skills"`
	Languages      []Language        `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"languages"`
	Certifications []Certification   `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"certifications"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *SeekerProfile) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// QualificationLevel 学历层级，决定教育经历需要哪些日期字段。
type QualificationLevel string

const (
	LevelSSLC           QualificationLevel = "SSLC"
	LevelHSC            QualificationLevel = "HSC"
	LevelDiploma        QualificationLevel = "Diploma"
	LevelGraduation     QualificationLevel = "Graduation"
	LevelPostGraduation QualificationLevel = "Post-Graduation"
	LevelDoctorate      QualificationLevel = "Doctorate"
)

// EducationEntry 教育经历。
type EducationEntry struct {
	ID                 string             `gorm:"primaryKey;size:36" json:"id"`
	ProfileID          string             `gorm:"size:36;index;not null" json:"-"`
	QualificationLevel QualificationLevel `gorm:"size:30;not null" json:"qualification_level"`
	Institution        string             `gorm:"not null" json:"institution"`
	PercentageOrCGPA   *float64           `json:"percentage_or_cgpa,omitempty"`
	Location           string             `json:"location,omitempty"`
	Post10thStudy      string             `json:"post_10th_study,omitempty"`
	Degree             string             `json:"degree,omitempty"`
	Department         string             `json:"department,omitempty"`
	Status             string             `json:"status,omitempty"`
	City               string             `json:"city,omitempty"`
	State              string             `json:"state,omitempty"`
	Country            string             `json:"country,omitempty"`
	CompletionYear     *time.Time         `json:"completion_year,omitempty"`
	StartYear          *time.Time         `json:"start_year,omitempty"`
	EndYear            *time.Time         `json:"end_year,omitempty"`
}

func (e *EducationEntry) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// ExperienceEntry 工作经历，Fresher 时只记录是否有实习。
type ExperienceEntry struct {
	ID                  string     `gorm:"primaryKey;size:36" json:"id"`
	ProfileID           string     `gorm:"size:36;index;not null" json:"-"`
	CurrentStatus       string     `gorm:"size:20;not null" json:"current_status"`
	HasInternship       string     `gorm:"size:3" json:"has_internship_experience,omitempty"`
	JobTitle            string     `json:"job_title,omitempty"`
	CompanyName         string     `json:"company_name,omitempty"`
	StartDate           *time.Time `json:"start_date,omitempty"`
	EndDate             *time.Time `json:"end_date,omitempty"`
	CurrentlyWorking    bool       `json:"currently_working"`
	IndustryDomain      string     `json:"industry_domain,omitempty"`
	JobType             string     `json:"job_type,omitempty"`
	Location            string     `json:"location,omitempty"`
	KeyResponsibilities string     `json:"key_responsibilities,omitempty"`
}

func (e *ExperienceEntry) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// Skill 技能，同一档案内名称唯一。
type Skill struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	ProfileID string `gorm:"size:36;not null;uniqueIndex:idx_skill_profile_name" json:"-"`
	Name      string `gorm:"not null;uniqueIndex:idx_skill_profile_name" json:"name"`
}

func (s *Skill) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Language 掌握的语言，同一档案内名称唯一。
type Language struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	ProfileID   string `gorm:"size:36;not null;uniqueIndex:idx_language_profile_name" json:"-"`
	Name        string `gorm:"not null;uniqueIndex:idx_language_profile_name" json:"name"`
	Proficiency string `gorm:"size:20;not null" json:"proficiency"`
}

func (l *Language) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// Certification 证书，FileRef 为外部文件引用。
type Certification struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	ProfileID string `gorm:"size:36;index;not null" json:"-"`
	Name      string `gorm:"not null" json:"name"`
	FileRef   string `json:"file_ref,omitempty"`
}

func (c *Certification) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// EmployerProfile 雇主档案，CompanyID 为空表示尚未关联公司。
type EmployerProfile struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	FullName   string    `json:"full_name"`
	EmployeeID *string   `gorm:"uniqueIndex" json:"employee_id,omitempty"`
	CompanyID  *string   `gorm:"size:36;index" json:"company_id,omitempty"`
	Company    *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *EmployerProfile) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
