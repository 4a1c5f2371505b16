package model

import "strings"

// 职位与档案中使用的枚举取值。
var (
	JobTypes         = []string{"Full-time", "Part-time", "Internship", "Contract"}
	IndustryTypes    = []string{"IT-Software", "Finance", "Healthcare", "Education", "Manufacturing", "Marketing", "Retail", "Other"}
	ExperienceLevels = []string{"Fresher", "0-1 Years", "1-3 Years", "3-5 Years", "5+ Years"}
	WorkTypes        = []string{"On-site", "Remote", "Hybrid"}

	Genders          = []string{"Male", "Female", "Not Specified"}
	MaritalStatuses  = []string{"Single", "Married"}
	NoticePeriods    = []string{"Immediate", "1 Month", "2 Months", "3 Months"}
	Proficiencies    = []string{"Beginner", "Intermediate", "Fluent", "Native"}
	EducationStates  = []string{"Completed", "Pursuing"}
	Post10thStudies  = []string{"Intermediate", "Diploma"}
	ExperienceStates = []string{"Fresher", "Experienced"}
	YesNo            = []string{"Yes", "No"}
)

// OneOf 返回与 value 大小写不敏感匹配的规范取值；value 为空时返回空串与 true。
func OneOf(value string, allowed []string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return a, true
		}
	}
	return value, false
}
