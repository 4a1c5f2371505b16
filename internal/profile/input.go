package profile

import (
	"fmt"
	"strings"
	"time"

	"jobboard/internal/apperr"
	"jobboard/internal/model"
)

// SeekerProfileInput 求职者档案整体写入的请求体，子记录整体替换。
type SeekerProfileInput struct {
	FullName      string `json:"full_name"`
	Gender        string `json:"gender"`
	DOB           *Date  `json:"dob"`
	MaritalStatus string `json:"marital_status"`
	Nationality   string `json:"nationality"`

	CurrentJobTitle      string   `json:"current_job_title"`
	CurrentCompany       string   `json:"current_company"`
	TotalExperienceYears *float64 `json:"total_experience_years"`
	NoticePeriod         string   `json:"notice_period"`
	CurrentLocation      string   `json:"current_location"`
	PreferredLocations   string   `json:"preferred_locations"`

	AlternatePhone string `json:"alternate_phone"`
	AlternateEmail string `json:"alternate_email"`
	FullAddress    string `json:"full_address"`
	City           string `json:"city"`
	State          string `json:"state"`
	Pincode        string `json:"pincode"`
	Country        string `json:"country"`

	ResumeRef     string `json:"resume_ref"`
	PortfolioLink string `json:"portfolio_link"`

	CurrentCTC            *float64 `json:"current_ctc"`
	ExpectedCTC           *float64 `json:"expected_ctc"`
	PreferredJobType      string   `json:"preferred_job_type"`
	PreferredRoleIndustry string   `json:"preferred_role_industry"`
	ReadyToStart          bool     `json:"ready_to_start_immediately"`
	WillingToRelocate     bool     `json:"willing_to_relocate"`

	Educations     []EducationInput     `json:"educations"`
	Experiences    []ExperienceInput    `json:"experiences"`
	Skills         []SkillInput         `json:"skills"`
	Languages      []LanguageInput      `json:"languages"`
	Certifications []CertificationInput `json:"certifications"`
}

type EducationInput struct {
	QualificationLevel string   `json:"qualification_level"`
	Institution        string   `json:"institution"`
	PercentageOrCGPA   *float64 `json:"percentage_or_cgpa"`
	Location           string   `json:"location"`
	Post10thStudy      string   `json:"post_10th_study"`
	Degree             string   `json:"degree"`
	Department         string   `json:"department"`
	Status             string   `json:"status"`
	City               string   `json:"city"`
	State              string   `json:"state"`
	Country            string   `json:"country"`
	CompletionYear     *Date    `json:"completion_year"`
	StartYear          *Date    `json:"start_year"`
	EndYear            *Date    `json:"end_year"`
}

type ExperienceInput struct {
	CurrentStatus       string `json:"current_status"`
	HasInternship       string `json:"has_internship_experience"`
	JobTitle            string `json:"job_title"`
	CompanyName         string `json:"company_name"`
	StartDate           *Date  `json:"start_date"`
	EndDate             *Date  `json:"end_date"`
	CurrentlyWorking    bool   `json:"currently_working"`
	IndustryDomain      string `json:"industry_domain"`
	JobType             string `json:"job_type"`
	Location            string `json:"location"`
	KeyResponsibilities string `json:"key_responsibilities"`
}

type SkillInput struct {
	Name string `json:"name"`
}

type LanguageInput struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

type CertificationInput struct {
	Name    string `json:"name"`
	FileRef string `json:"file_ref"`
}

// fieldErrors 按路径收集字段错误，如 educations[1].start_year。
type fieldErrors map[string]string

func (f fieldErrors) add(path, msg string) {
	if _, exists := f[path]; !exists {
		f[path] = msg
	}
}

func (f fieldErrors) err(msg string) error {
	if len(f) == 0 {
		return nil
	}
	return apperr.Validation(msg, f)
}

func at(collection string, i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", collection, i, field)
}

// enum 校验枚举值并返回规范写法。
func (f fieldErrors) enum(path, value string, allowed []string) string {
	canonical, ok := model.OneOf(value, allowed)
	if !ok {
		f.add(path, "must be one of "+strings.Join(allowed, ", "))
	}
	return canonical
}

// toModel 自顶向下校验并转换为模型；now 用于判断出生日期。
func (in SeekerProfileInput) toModel(now time.Time) (*model.SeekerProfile, error) {
	errs := fieldErrors{}
	p := &model.SeekerProfile{
		FullName:              strings.TrimSpace(in.FullName),
		Gender:                errs.enum("gender", in.Gender, model.Genders),
		MaritalStatus:         errs.enum("marital_status", in.MaritalStatus, model.MaritalStatuses),
		Nationality:           strings.TrimSpace(in.Nationality),
		CurrentJobTitle:       strings.TrimSpace(in.CurrentJobTitle),
		CurrentCompany:        strings.TrimSpace(in.CurrentCompany),
		TotalExperienceYears:  in.TotalExperienceYears,
		NoticePeriod:          errs.enum("notice_period", in.NoticePeriod, model.NoticePeriods),
		CurrentLocation:       strings.TrimSpace(in.CurrentLocation),
		PreferredLocations:    strings.TrimSpace(in.PreferredLocations),
		AlternatePhone:        strings.TrimSpace(in.AlternatePhone),
		AlternateEmail:        strings.TrimSpace(in.AlternateEmail),
		FullAddress:           strings.TrimSpace(in.FullAddress),
		City:                  strings.TrimSpace(in.City),
		State:                 strings.TrimSpace(in.State),
		Pincode:               strings.TrimSpace(in.Pincode),
		Country:               strings.TrimSpace(in.Country),
		ResumeRef:             strings.TrimSpace(in.ResumeRef),
		PortfolioLink:         strings.TrimSpace(in.PortfolioLink),
		CurrentCTC:            in.CurrentCTC,
		ExpectedCTC:           in.ExpectedCTC,
		PreferredJobType:      errs.enum("preferred_job_type", in.PreferredJobType, model.JobTypes),
		PreferredRoleIndustry: strings.TrimSpace(in.PreferredRoleIndustry),
		ReadyToStart:          in.ReadyToStart,
		WillingToRelocate:     in.WillingToRelocate,
	}

	if in.DOB.set() {
		if in.DOB.After(now) {
			errs.add("dob", "date of birth cannot be in the future")
		}
		p.DOB = in.DOB.ptr()
	}
	if email := strings.TrimSpace(in.AlternateEmail); email != "" && !validEmail(email) {
		errs.add("alternate_email", "must be a valid email address")
	}
	if in.TotalExperienceYears != nil && *in.TotalExperienceYears < 0 {
		errs.add("total_experience_years", "must not be negative")
	}

	for i, e := range in.Educations {
		p.Educations = append(p.Educations, validateEducation(errs, i, e))
	}
	for i, e := range in.Experiences {
		p.Experiences = append(p.Experiences, validateExperience(errs, i, e))
	}
	p.Skills = validateSkills(errs, in.Skills)
	p.Languages = validateLanguages(errs, in.Languages)
	for i, c := range in.Certifications {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			errs.add(at("certifications", i, "name"), "is required")
		}
		p.Certifications = append(p.Certifications, model.Certification{Name: name, FileRef: strings.TrimSpace(c.FileRef)})
	}

	if err := errs.err("invalid seeker profile"); err != nil {
		return nil, err
	}
	return p, nil
}
