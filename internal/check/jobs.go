package check

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tamilansjob/apicheck/internal/jobapi"
)

// corsHeaders are the three response headers a preflight must carry.
var corsHeaders = []string{
	"Access-Control-Allow-Origin",
	"Access-Control-Allow-Methods",
	"Access-Control-Allow-Headers",
}

func (s *Suite) checkJobsList(ctx context.Context) *jobapi.JobPage {
	const name = "Jobs GET All"
	started := s.now()
	page, status, err := s.client.ListJobs(ctx, jobapi.JobQuery{})
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	default:
		if err := page.Validate(); err != nil {
			s.fail(ctx, name, started, status, err.Error(), nil)
			return nil
		}
		if len(page.Jobs) < s.expect.MinJobs {
			s.fail(ctx, name, started, status,
				fmt.Sprintf("expected at least %d jobs, got %d", s.expect.MinJobs, len(page.Jobs)), nil)
			return nil
		}
		if err := page.Jobs[0].ValidateListing(); err != nil {
			s.fail(ctx, name, started, status, err.Error(), page.Jobs[0])
			return nil
		}
		s.pass(ctx, name, started, status,
			fmt.Sprintf("retrieved %d jobs with pagination info, total %d", len(page.Jobs), *page.Total))
		return &page
	}
	return nil
}

// filterCase is one jobs-listing filter permutation.
type filterCase struct {
	name  string
	query jobapi.JobQuery
}

func (s *Suite) checkJobsFiltering(
	ctx context.Context,
	districts []jobapi.District,
	qualifications []jobapi.Qualification,
	categories []jobapi.Category,
) {
	if len(districts) == 0 || len(qualifications) == 0 || len(categories) == 0 {
		s.skip(ctx, "Jobs Filtering", "missing reference data for filtering checks")
		return
	}

	districtID := districts[0].ID
	qualificationID := pick(qualifications, 1).ID
	categoryID := pick(categories, 1).ID

	cases := []filterCase{
		{name: "Jobs Filter by District", query: jobapi.JobQuery{District: districtID}},
		{name: "Jobs Filter by Qualification", query: jobapi.JobQuery{Qualification: qualificationID}},
		{name: "Jobs Filter by Category", query: jobapi.JobQuery{Category: categoryID}},
		{name: "Jobs Search", query: jobapi.JobQuery{Search: "TNPSC"}},
	}
	for _, fc := range cases {
		started := s.now()
		page, status, err := s.client.ListJobs(ctx, fc.query)
		if err != nil {
			s.fail(ctx, fc.name, started, status, err.Error(), nil)
			continue
		}
		s.pass(ctx, fc.name, started, status,
			fmt.Sprintf("filter returned %d jobs", len(page.Jobs)))
	}

	s.checkJobsPagination(ctx)

	const combined = "Jobs Combined Filters"
	started := s.now()
	page, status, err := s.client.ListJobs(ctx, jobapi.JobQuery{
		District:      districtID,
		Qualification: qualificationID,
		Search:        "Group",
	})
	if err != nil {
		s.fail(ctx, combined, started, status, err.Error(), nil)
		return
	}
	s.pass(ctx, combined, started, status,
		fmt.Sprintf("combined filters returned %d jobs", len(page.Jobs)))
}

func (s *Suite) checkJobsPagination(ctx context.Context) {
	const name = "Jobs Pagination"
	started := s.now()
	page, status, err := s.client.ListJobs(ctx, jobapi.JobQuery{Page: 1, Limit: 1})
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	case len(page.Jobs) > 1:
		s.fail(ctx, name, started, status,
			fmt.Sprintf("requested limit=1 but got %d jobs", len(page.Jobs)), nil)
	case page.Page == nil || *page.Page != 1:
		s.fail(ctx, name, started, status, "response did not echo page=1", page)
	default:
		s.pass(ctx, name, started, status, "pagination respects limit and echoes page")
	}
}

func (s *Suite) checkJobsPost(
	ctx context.Context,
	districts []jobapi.District,
	qualifications []jobapi.Qualification,
	categories []jobapi.Category,
) (jobapi.Job, bool) {
	const name = "Jobs POST"
	if len(districts) == 0 || len(qualifications) == 0 || len(categories) == 0 {
		s.skip(ctx, name, "missing reference data for job creation")
		return jobapi.Job{}, false
	}

	started := s.now()
	lastDate := s.now().UTC().Add(30 * 24 * time.Hour).Format(time.RFC3339)
	in := jobapi.NewJob{
		Title:            "Test Police Constable Recruitment 2025",
		Summary:          "Test recruitment for police constable positions",
		Content:          "Detailed job description for police constable recruitment",
		Vacancies:        500,
		Dept:             "Tamil Nadu Police",
		Sector:           "police",
		Board:            "TNUSRB",
		JobType:          "permanent",
		PayScale:         "₹21,700 - ₹69,100",
		SalaryFrom:       21700,
		SalaryTo:         69100,
		AgeMin:           18,
		AgeMax:           28,
		Fees:             500,
		SelectionProcess: "Physical Test + Written Exam",
		Mode:             "offline",
		LastDate:         lastDate,
		DistrictID:       districts[0].ID,
		QualificationIDs: []string{qualifications[0].ID},
		CategoryIDs:      []string{categoryByName(categories, "Police").ID},
		Tags:             []string{"police", "constable", "government"},
		Status:           "published",
	}
	created, status, err := s.client.CreateJob(ctx, in)
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	default:
		if err := created.ValidateListing(); err != nil {
			s.fail(ctx, name, started, status, err.Error(), created)
			return jobapi.Job{}, false
		}
		if created.Title != in.Title {
			s.fail(ctx, name, started, status,
				fmt.Sprintf("echoed title %q does not match submitted %q", created.Title, in.Title), created)
			return jobapi.Job{}, false
		}
		s.pass(ctx, name, started, status, fmt.Sprintf("created job %q", created.Title))
		return created, true
	}
	return jobapi.Job{}, false
}

func (s *Suite) checkJobGetSingle(ctx context.Context, jobID string) {
	const name = "Jobs GET Single"
	if jobID == "" {
		s.skip(ctx, name, "no job id available from creation or listing")
		return
	}
	started := s.now()
	job, status, err := s.client.GetJob(ctx, jobID)
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	default:
		if err := job.ValidateDetail(); err != nil {
			s.fail(ctx, name, started, status, err.Error(), job)
			return
		}
		if job.ID != jobID {
			s.fail(ctx, name, started, status,
				fmt.Sprintf("returned id %q does not match requested %q", job.ID, jobID), job)
			return
		}
		s.pass(ctx, name, started, status, fmt.Sprintf("retrieved job %q", job.Title))
	}
}

func (s *Suite) checkErrorPaths(ctx context.Context) {
	cases := []struct {
		name string
		path string
	}{
		{name: "Error Handling - Invalid Route", path: "/invalid-route"},
		{name: "Error Handling - Invalid Job ID", path: "/jobs/invalid-id"},
	}
	for _, tc := range cases {
		started := s.now()
		status, err := s.client.GetStatus(ctx, tc.path)
		switch {
		case err != nil:
			s.fail(ctx, tc.name, started, status, err.Error(), nil)
		case status != http.StatusNotFound:
			s.fail(ctx, tc.name, started, status,
				fmt.Sprintf("expected HTTP 404, got %d", status), nil)
		default:
			s.pass(ctx, tc.name, started, status, "correctly returned 404")
		}
	}
}

func (s *Suite) checkCORS(ctx context.Context) {
	const name = "CORS Headers"
	started := s.now()
	headers, status, err := s.client.Preflight(ctx)
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	case status != http.StatusOK && status != http.StatusNoContent:
		s.fail(ctx, name, started, status,
			fmt.Sprintf("preflight request failed with HTTP %d", status), nil)
	default:
		for _, header := range corsHeaders {
			if headers.Get(header) == "" {
				s.fail(ctx, name, started, status,
					fmt.Sprintf("missing CORS header %q", header), nil)
				return
			}
		}
		s.pass(ctx, name, started, status, "all required CORS headers present")
	}
}

// pick returns the element at idx, falling back to the first element when the
// slice is shorter. Callers guarantee a non-empty slice.
func pick[T any](items []T, idx int) T {
	if idx < len(items) {
		return items[idx]
	}
	return items[0]
}

func categoryByName(categories []jobapi.Category, name string) jobapi.Category {
	for _, c := range categories {
		if c.NameEN == name {
			return c
		}
	}
	return categories[0]
}
