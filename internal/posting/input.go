package posting

import (
	"strings"

	"jobboard/internal/apperr"
	"jobboard/internal/model"
	"jobboard/internal/textutil"

	"gorm.io/datatypes"
)

// JobInput 创建与更新职位的请求体；更新时 nil 字段保持原值。
// 公司不在其中，始终由发布者推导。
type JobInput struct {
	Title              *string  `json:"title"`
	Location           *string  `json:"location"`
	JobType            *string  `json:"job_type"`
	IndustryType       *string  `json:"industry_type"`
	ExperienceRequired *string  `json:"experience_required"`
	WorkType           *string  `json:"work_type"`
	Salary             *string  `json:"salary"`
	Description        *string  `json:"description"`
	Responsibilities   []string `json:"responsibilities"`
	KeySkills          []string `json:"key_skills"`
	EducationRequired  []string `json:"education_required"`
	Tags               []string `json:"tags"`
	Department         []string `json:"department"`
	Shift              *string  `json:"shift"`
	Duration           *string  `json:"duration"`
	Openings           *int     `json:"openings"`
}

// apply 校验并把输入写入 job；create 为 true 时必填字段缺失即报错。
func (in JobInput) apply(job *model.JobPosting, create bool) error {
	fields := map[string]string{}

	required := func(name string, v *string, dst *string) {
		if v == nil {
			if create {
				fields[name] = "is required"
			}
			return
		}
		s := strings.TrimSpace(*v)
		if s == "" {
			fields[name] = "must not be blank"
			return
		}
		*dst = s
	}
	enum := func(name string, v *string, allowed []string, dst *string) {
		if v == nil {
			return
		}
		canonical, ok := model.OneOf(*v, allowed)
		if !ok {
			fields[name] = "must be one of " + strings.Join(allowed, ", ")
			return
		}
		*dst = canonical
	}
	text := func(v *string, dst *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	list := func(v []string, dst *datatypes.JSONSlice[string]) {
		if v != nil {
			*dst = datatypes.JSONSlice[string](cleanList(v))
		}
	}

	required("title", in.Title, &job.Title)
	required("location", in.Location, &job.Location)
	if in.Description != nil || create {
		var desc *string
		if in.Description != nil {
			plain := textutil.PlainText(*in.Description)
			desc = &plain
		}
		required("description", desc, &job.Description)
	}
	enum("job_type", in.JobType, model.JobTypes, &job.JobType)
	enum("industry_type", in.IndustryType, model.IndustryTypes, &job.IndustryType)
	enum("experience_required", in.ExperienceRequired, model.ExperienceLevels, &job.ExperienceRequired)
	enum("work_type", in.WorkType, model.WorkTypes, &job.WorkType)
	text(in.Salary, &job.Salary)
	text(in.Shift, &job.Shift)
	text(in.Duration, &job.Duration)
	list(in.Responsibilities, &job.Responsibilities)
	list(in.KeySkills, &job.KeySkills)
	list(in.EducationRequired, &job.EducationRequired)
	list(in.Tags, &job.Tags)
	list(in.Department, &job.Department)

	if in.Openings != nil {
		if *in.Openings < 1 {
			fields["openings"] = "must be at least 1"
		} else {
			job.Openings = *in.Openings
		}
	} else if create {
		job.Openings = 1
	}

	if len(fields) > 0 {
		return apperr.Validation("invalid job posting", fields)
	}
	return nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
