// Package jobapi provides a typed HTTP client for the TamilansJob.com API.
package jobapi

import (
	"fmt"
)

// FieldError reports a documented required field that was absent or empty in
// a decoded API response.
type FieldError struct {
	Entity string
	Field  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Entity, e.Field)
}

// HealthResponse is the body returned by GET {base}.
type HealthResponse struct {
	Message string `json:"message"`
}

// HealthMessage is the identifying message the root endpoint must return.
const HealthMessage = "TamilansJob.com API"

// SeedCounts carries the per-collection record counts reported by the seed
// endpoint.
type SeedCounts struct {
	Districts      int `json:"districts"`
	Qualifications int `json:"qualifications"`
	Categories     int `json:"categories"`
	Jobs           int `json:"jobs"`
}

// SeedResponse is the body returned by POST {base}/seed.
type SeedResponse struct {
	Message string     `json:"message"`
	Counts  SeedCounts `json:"counts"`
}

// SeedMessage is the success message the seed endpoint must return.
const SeedMessage = "Seed data created successfully"

// District is a reference-table row for job locations.
type District struct {
	ID        string `json:"id"`
	NameEN    string `json:"name_en"`
	NameTA    string `json:"name_ta"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Validate enforces the documented required fields for a fetched district.
func (d District) Validate() error {
	return requireFields("district", map[string]string{
		"id":      d.ID,
		"name_en": d.NameEN,
		"name_ta": d.NameTA,
		"slug":    d.Slug,
	})
}

// ValidateCreated additionally requires the server-assigned creation timestamp.
func (d District) ValidateCreated() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.CreatedAt == "" {
		return &FieldError{Entity: "district", Field: "createdAt"}
	}
	return nil
}

// NewDistrict is the request body for POST {base}/districts.
type NewDistrict struct {
	NameEN string `json:"name_en"`
	NameTA string `json:"name_ta"`
	Slug   string `json:"slug"`
}

// Qualification is a reference-table row for educational requirements.
type Qualification struct {
	ID        string `json:"id"`
	NameEN    string `json:"name_en"`
	NameTA    string `json:"name_ta"`
	Slug      string `json:"slug"`
	Order     *int   `json:"order"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Validate enforces the documented required fields for a fetched qualification.
func (q Qualification) Validate() error {
	if err := requireFields("qualification", map[string]string{
		"id":      q.ID,
		"name_en": q.NameEN,
		"name_ta": q.NameTA,
		"slug":    q.Slug,
	}); err != nil {
		return err
	}
	if q.Order == nil {
		return &FieldError{Entity: "qualification", Field: "order"}
	}
	return nil
}

// ValidateCreated additionally requires the server-assigned creation timestamp.
func (q Qualification) ValidateCreated() error {
	if err := q.Validate(); err != nil {
		return err
	}
	if q.CreatedAt == "" {
		return &FieldError{Entity: "qualification", Field: "createdAt"}
	}
	return nil
}

// NewQualification is the request body for POST {base}/qualifications.
type NewQualification struct {
	NameEN string `json:"name_en"`
	NameTA string `json:"name_ta"`
	Slug   string `json:"slug"`
	Order  int    `json:"order"`
}

// Category is a reference-table row for job categories.
type Category struct {
	ID        string `json:"id"`
	NameEN    string `json:"name_en"`
	NameTA    string `json:"name_ta"`
	Slug      string `json:"slug"`
	Sector    string `json:"sector"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Validate enforces the documented required fields for a fetched category.
func (c Category) Validate() error {
	return requireFields("category", map[string]string{
		"id":      c.ID,
		"name_en": c.NameEN,
		"name_ta": c.NameTA,
		"slug":    c.Slug,
		"sector":  c.Sector,
	})
}

// ValidateCreated additionally requires the server-assigned creation timestamp.
func (c Category) ValidateCreated() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.CreatedAt == "" {
		return &FieldError{Entity: "category", Field: "createdAt"}
	}
	return nil
}

// NewCategory is the request body for POST {base}/categories.
type NewCategory struct {
	NameEN string `json:"name_en"`
	NameTA string `json:"name_ta"`
	Slug   string `json:"slug"`
	Sector string `json:"sector"`
}

// Job is a full job posting as returned by the jobs endpoints.
type Job struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	Content          string   `json:"content,omitempty"`
	Vacancies        *int     `json:"vacancies"`
	Dept             string   `json:"dept"`
	Sector           string   `json:"sector,omitempty"`
	Board            string   `json:"board,omitempty"`
	JobType          string   `json:"jobType,omitempty"`
	PayScale         string   `json:"payScale,omitempty"`
	SalaryFrom       *int     `json:"salaryFrom,omitempty"`
	SalaryTo         *int     `json:"salaryTo,omitempty"`
	AgeMin           *int     `json:"ageMin,omitempty"`
	AgeMax           *int     `json:"ageMax,omitempty"`
	Fees             *int     `json:"fees,omitempty"`
	SelectionProcess string   `json:"selectionProcess,omitempty"`
	Mode             string   `json:"mode,omitempty"`
	LastDate         string   `json:"lastDate,omitempty"`
	DistrictID       string   `json:"districtId,omitempty"`
	QualificationIDs []string `json:"qualificationIds,omitempty"`
	CategoryIDs      []string `json:"categoryIds,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Status           string   `json:"status,omitempty"`
	CreatedAt        string   `json:"createdAt,omitempty"`
}

// ValidateListing enforces the fields required on every item of a jobs listing
// and on a freshly created job.
func (j Job) ValidateListing() error {
	if err := requireFields("job", map[string]string{
		"id":      j.ID,
		"title":   j.Title,
		"summary": j.Summary,
		"dept":    j.Dept,
		"sector":  j.Sector,
		"status":  j.Status,
	}); err != nil {
		return err
	}
	if j.Vacancies == nil {
		return &FieldError{Entity: "job", Field: "vacancies"}
	}
	return nil
}

// ValidateDetail enforces the fields required on a single-job fetch, which
// includes the long-form content body.
func (j Job) ValidateDetail() error {
	if err := requireFields("job", map[string]string{
		"id":      j.ID,
		"title":   j.Title,
		"summary": j.Summary,
		"content": j.Content,
		"dept":    j.Dept,
	}); err != nil {
		return err
	}
	if j.Vacancies == nil {
		return &FieldError{Entity: "job", Field: "vacancies"}
	}
	return nil
}

// NewJob is the request body for POST {base}/jobs.
type NewJob struct {
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	Content          string   `json:"content"`
	Vacancies        int      `json:"vacancies"`
	Dept             string   `json:"dept"`
	Sector           string   `json:"sector"`
	Board            string   `json:"board"`
	JobType          string   `json:"jobType"`
	PayScale         string   `json:"payScale"`
	SalaryFrom       int      `json:"salaryFrom"`
	SalaryTo         int      `json:"salaryTo"`
	AgeMin           int      `json:"ageMin"`
	AgeMax           int      `json:"ageMax"`
	Fees             int      `json:"fees"`
	SelectionProcess string   `json:"selectionProcess"`
	Mode             string   `json:"mode"`
	LastDate         string   `json:"lastDate"`
	DistrictID       string   `json:"districtId"`
	QualificationIDs []string `json:"qualificationIds"`
	CategoryIDs      []string `json:"categoryIds"`
	Tags             []string `json:"tags"`
	Status           string   `json:"status"`
}

// JobPage is the paginated envelope returned by GET {base}/jobs.
type JobPage struct {
	Jobs       []Job `json:"jobs"`
	Total      *int  `json:"total"`
	Page       *int  `json:"page"`
	TotalPages *int  `json:"totalPages"`
}

// Validate enforces the envelope shape: a jobs sequence plus the three
// pagination fields.
func (p JobPage) Validate() error {
	if p.Jobs == nil {
		return &FieldError{Entity: "job page", Field: "jobs"}
	}
	if p.Total == nil {
		return &FieldError{Entity: "job page", Field: "total"}
	}
	if p.Page == nil {
		return &FieldError{Entity: "job page", Field: "page"}
	}
	if p.TotalPages == nil {
		return &FieldError{Entity: "job page", Field: "totalPages"}
	}
	return nil
}

func requireFields(entity string, fields map[string]string) error {
	// Deterministic order keeps error messages stable for tests and logs.
	for _, name := range fieldOrder {
		val, ok := fields[name]
		if !ok {
			continue
		}
		if val == "" {
			return &FieldError{Entity: entity, Field: name}
		}
	}
	return nil
}

var fieldOrder = []string{
	"id", "name_en", "name_ta", "slug", "sector",
	"title", "summary", "content", "dept", "status",
}
