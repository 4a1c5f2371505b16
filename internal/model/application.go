package model

import (
	"time"

	"gorm.io/gorm"
)

// ApplicationStatus 投递状态。
type ApplicationStatus string

const (
	StatusApplied         ApplicationStatus = "applied"
	StatusResumeScreening ApplicationStatus = "resume_screening"
	StatusRecruiterReview ApplicationStatus = "recruiter_review"
	StatusShortlisted     ApplicationStatus = "shortlisted"
	StatusInterviewCalled ApplicationStatus = "interview_called"
	StatusOffered         ApplicationStatus = "offered"
	StatusHired           ApplicationStatus = "hired"
	StatusRejected        ApplicationStatus = "rejected"
	StatusWithdrawn       ApplicationStatus = "withdrawn"
)

// AllStatuses 按典型推进顺序列出全部状态。
var AllStatuses = []ApplicationStatus{
	StatusApplied,
	StatusResumeScreening,
	StatusRecruiterReview,
	StatusShortlisted,
	StatusInterviewCalled,
	StatusOffered,
	StatusHired,
	StatusRejected,
	StatusWithdrawn,
}

// InactiveStatuses 不占用“同一职位仅一份有效投递”名额的状态。
var InactiveStatuses = []ApplicationStatus{StatusRejected, StatusWithdrawn}

// Valid 判断是否为已知状态。
func (s ApplicationStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Active 判断状态是否属于有效集合。
func (s ApplicationStatus) Active() bool {
	for _, inactive := range InactiveStatuses {
		if s == inactive {
			return false
		}
	}
	return true
}

// JobApplication 投递记录。ResumeSnapshot 在投递时复制，之后不再随档案变化。
type JobApplication struct {
	ID             string            `gorm:"primaryKey;size:36" json:"id"`
	ApplicantID    string            `gorm:"size:36;not null;index" json:"applicant_id"`
	Applicant      *User             `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	JobID          string            `gorm:"size:36;not null;index" json:"job_id"`
	Job            *JobPosting       `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	Status         ApplicationStatus `gorm:"size:32;not null;index" json:"status"`
	CoverLetter    string            `json:"cover_letter,omitempty"`
	ResumeSnapshot string            `json:"resume_snapshot,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (a *JobApplication) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
