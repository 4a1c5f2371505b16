package profile

import (
	"strings"

	"jobboard/internal/model"
)

// educationRule 描述某学历层级对日期与附加字段的要求。
type educationRule func(errs fieldErrors, i int, in EducationInput)

// 中学类学历只填毕业年份。
func schoolRule(errs fieldErrors, i int, in EducationInput) {
	if !in.CompletionYear.set() {
		errs.add(at("educations", i, "completion_year"), "year of completion is required for this level")
	}
	if in.StartYear.set() || in.EndYear.set() {
		errs.add(at("educations", i, "start_year"), "start/end year not allowed for SSLC/HSC/Diploma")
	}
}

// 高等学历填起止年份。
func degreeRule(errs fieldErrors, i int, in EducationInput) {
	if !in.StartYear.set() {
		errs.add(at("educations", i, "start_year"), "start year is required for Graduation+ levels")
	}
	if !in.EndYear.set() {
		errs.add(at("educations", i, "end_year"), "end year is required for Graduation+ levels")
	}
	if in.CompletionYear.set() {
		errs.add(at("educations", i, "completion_year"), "completion year not allowed for Graduation+ levels")
	}
	if in.StartYear.set() && in.EndYear.set() && in.EndYear.Before(in.StartYear.Time) {
		errs.add(at("educations", i, "end_year"), "end year must not be before start year")
	}
}

func withPost10th(rule educationRule) educationRule {
	return func(errs fieldErrors, i int, in EducationInput) {
		rule(errs, i, in)
		if strings.TrimSpace(in.Post10thStudy) == "" {
			errs.add(at("educations", i, "post_10th_study"), "please select what you studied after 10th")
		}
	}
}

func withDegree(rule educationRule) educationRule {
	return func(errs fieldErrors, i int, in EducationInput) {
		rule(errs, i, in)
		if strings.TrimSpace(in.Degree) == "" {
			errs.add(at("educations", i, "degree"), "degree is required for Graduation/Post-Graduation")
		}
	}
}

var educationRules = map[model.QualificationLevel]educationRule{
	model.LevelSSLC:           schoolRule,
	model.LevelHSC:            withPost10th(schoolRule),
	model.LevelDiploma:        schoolRule,
	model.LevelGraduation:     withDegree(degreeRule),
	model.LevelPostGraduation: withDegree(degreeRule),
	model.LevelDoctorate:      degreeRule,
}

func validateEducation(errs fieldErrors, i int, in EducationInput) model.EducationEntry {
	level := model.QualificationLevel(strings.TrimSpace(in.QualificationLevel))
	for known := range educationRules {
		if strings.EqualFold(string(known), string(level)) {
			level = known
		}
	}
	rule, ok := educationRules[level]
	if !ok {
		errs.add(at("educations", i, "qualification_level"), "unknown qualification level")
	} else {
		rule(errs, i, in)
	}
	if strings.TrimSpace(in.Institution) == "" {
		errs.add(at("educations", i, "institution"), "institution name is required")
	}

	entry := model.EducationEntry{
		QualificationLevel: level,
		Institution:        strings.TrimSpace(in.Institution),
		PercentageOrCGPA:   in.PercentageOrCGPA,
		Location:           strings.TrimSpace(in.Location),
		Degree:             strings.TrimSpace(in.Degree),
		Department:         strings.TrimSpace(in.Department),
		City:               strings.TrimSpace(in.City),
		State:              strings.TrimSpace(in.State),
		Country:            strings.TrimSpace(in.Country),
		CompletionYear:     in.CompletionYear.ptr(),
		StartYear:          in.StartYear.ptr(),
		EndYear:            in.EndYear.ptr(),
	}
	entry.Post10thStudy = errs.enum(at("educations", i, "post_10th_study"), in.Post10thStudy, model.Post10thStudies)
	entry.Status = errs.enum(at("educations", i, "status"), in.Status, model.EducationStates)
	return entry
}

func validateExperience(errs fieldErrors, i int, in ExperienceInput) model.ExperienceEntry {
	status := errs.enum(at("experiences", i, "current_status"), in.CurrentStatus, model.ExperienceStates)
	if status == "" {
		status = "Fresher"
	}

	if status == "Experienced" {
		if strings.TrimSpace(in.JobTitle) == "" {
			errs.add(at("experiences", i, "job_title"), "job title is required when status is Experienced")
		}
		if strings.TrimSpace(in.CompanyName) == "" {
			errs.add(at("experiences", i, "company_name"), "company name is required when status is Experienced")
		}
		if in.HasInternship != "" {
			errs.add(at("experiences", i, "has_internship_experience"), "only relevant when status is Fresher")
		}
	}
	if in.CurrentlyWorking && in.EndDate.set() {
		errs.add(at("experiences", i, "end_date"), "end date should be empty if currently working")
	}
	if in.StartDate.set() && in.EndDate.set() && in.EndDate.Before(in.StartDate.Time) {
		errs.add(at("experiences", i, "end_date"), "end date must not be before start date")
	}

	return model.ExperienceEntry{
		CurrentStatus:       status,
		HasInternship:       errs.enum(at("experiences", i, "has_internship_experience"), in.HasInternship, model.YesNo),
		JobTitle:            strings.TrimSpace(in.JobTitle),
		CompanyName:         strings.TrimSpace(in.CompanyName),
		StartDate:           in.StartDate.ptr(),
		EndDate:             in.EndDate.ptr(),
		CurrentlyWorking:    in.CurrentlyWorking,
		IndustryDomain:      errs.enum(at("experiences", i, "industry_domain"), in.IndustryDomain, model.IndustryTypes),
		JobType:             errs.enum(at("experiences", i, "job_type"), in.JobType, model.JobTypes),
		Location:            strings.TrimSpace(in.Location),
		KeyResponsibilities: strings.TrimSpace(in.KeyResponsibilities),
	}
}

func validateSkills(errs fieldErrors, in []SkillInput) []model.Skill {
	seen := map[string]bool{}
	out := make([]model.Skill, 0, len(in))
	for i, s := range in {
		name := strings.TrimSpace(s.Name)
		key := strings.ToLower(name)
		switch {
		case name == "":
			errs.add(at("skills", i, "name"), "is required")
		case seen[key]:
			errs.add(at("skills", i, "name"), "duplicate skill")
		}
		seen[key] = true
		out = append(out, model.Skill{Name: name})
	}
	return out
}

func validateLanguages(errs fieldErrors, in []LanguageInput) []model.Language {
	seen := map[string]bool{}
	out := make([]model.Language, 0, len(in))
	for i, l := range in {
		name := strings.TrimSpace(l.Name)
		key := strings.ToLower(name)
		switch {
		case name == "":
			errs.add(at("languages", i, "name"), "is required")
		case seen[key]:
			errs.add(at("languages", i, "name"), "duplicate language")
		}
		seen[key] = true
		proficiency := errs.enum(at("languages", i, "proficiency"), l.Proficiency, model.Proficiencies)
		if proficiency == "" {
			errs.add(at("languages", i, "proficiency"), "is required")
		}
		out = append(out, model.Language{Name: name, Proficiency: proficiency})
	}
	return out
}
