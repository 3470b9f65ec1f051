package ingest

import (
	"fmt"
	"strings"
)

// JobPosting is a job record as it arrives in ingestion payloads.
type JobPosting struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	EmploymentType  string   `json:"employment_type"`
	ExperienceLevel string   `json:"experience_level"`
	SalaryRange     string   `json:"salary_range"`
	Skills          []string `json:"skills"`
	Description     string   `json:"description"`
}

// Education is one entry in a profile's education history.
type Education struct {
	Degree string `json:"degree"`
	School string `json:"school"`
}

// Profile is a candidate record as it arrives in ingestion payloads.
type Profile struct {
	Name            string      `json:"name"`
	Title           string      `json:"title"`
	Company         string      `json:"company"`
	Location        string      `json:"location"`
	ExperienceYears int         `json:"experience_years"`
	CareerLevel     string      `json:"career_level"`
	Industry        string      `json:"industry"`
	Skills          []string    `json:"skills"`
	Education       []Education `json:"education"`
	Summary         string      `json:"summary"`
	LinkedInURL     string      `json:"linkedin_url"`
}

// FormatJobContext renders a job posting into the text that gets embedded
// and stored. The field layout is fixed: retrieval quality depends on jobs
// and queries embedding into a consistent shape.
func FormatJobContext(j JobPosting) string {
	return fmt.Sprintf(`Job Title: %s
Company: %s
Location: %s
Employment Type: %s
Experience Level: %s
Salary Range: %s
Skills: %s
Description: %s`,
		orNA(j.Title), orNA(j.Company), orNA(j.Location), orNA(j.EmploymentType),
		orNA(j.ExperienceLevel), orNA(j.SalaryRange),
		strings.Join(j.Skills, ", "), orNA(j.Description))
}

// FormatProfileContext renders a candidate profile into the text that gets
// embedded and stored.
func FormatProfileContext(p Profile) string {
	edu := make([]string, len(p.Education))
	for i, e := range p.Education {
		edu[i] = fmt.Sprintf("%s from %s", e.Degree, e.School)
	}
	return fmt.Sprintf(`Name: %s
Title: %s
Company: %s
Location: %s
Experience: %d years
Career Level: %s
Industry: %s
Skills: %s
Education: %s
Summary: %s
LinkedIn: %s`,
		orNA(p.Name), orNA(p.Title), orNA(p.Company), orNA(p.Location),
		p.ExperienceYears, orNA(p.CareerLevel), orNA(p.Industry),
		strings.Join(p.Skills, ", "), strings.Join(edu, "; "),
		orNA(p.Summary), orNA(p.LinkedInURL))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
