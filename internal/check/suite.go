package check

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tamilansjob/apicheck/internal/jobapi"
)

// Expectations captures the semantic assertions the suite makes about seeded
// reference data. Defaults mirror the server's documented seed fixtures.
type Expectations struct {
	SeedCounts         jobapi.SeedCounts
	MinDistricts       int
	MinQualifications  int
	MinCategories      int
	MinJobs            int
	DistrictNames      []string
	QualificationNames []string
	CategoryNames      []string
}

// DefaultExpectations returns the assertions for a freshly seeded server.
func DefaultExpectations() Expectations {
	return Expectations{
		SeedCounts: jobapi.SeedCounts{
			Districts:      6,
			Qualifications: 7,
			Categories:     6,
			Jobs:           2,
		},
		MinDistricts:       6,
		MinQualifications:  7,
		MinCategories:      6,
		MinJobs:            2,
		DistrictNames:      []string{"Chennai", "Coimbatore", "Madurai"},
		QualificationNames: []string{"10th", "12th/HSC", "B.E/B.Tech", "Any Degree"},
		CategoryNames:      []string{"TNPSC", "TRB", "Police", "Banking"},
	}
}

// Suite drives the ordered conformance checklist against one API client.
// Checks run strictly sequentially; a failing check records its result and
// the run continues. Checks whose prerequisites failed are recorded as
// skipped failures.
type Suite struct {
	client *jobapi.Client
	rec    *Recorder
	expect Expectations
	logger *zap.Logger
	now    func() time.Time
	runID  uuid.UUID
}

// NewSuite builds a Suite around the client and recorder.
func NewSuite(client *jobapi.Client, rec *Recorder, expect Expectations, logger *zap.Logger) *Suite {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Suite{
		client: client,
		rec:    rec,
		expect: expect,
		logger: logger,
		now:    time.Now,
	}
}

// UseRunID fixes the report's run identifier so persistence created before the
// run shares it. Without it Run generates a fresh one.
func (s *Suite) UseRunID(id uuid.UUID) {
	s.runID = id
}

// Run executes every check in dependency order and returns the full report.
// It never returns early: transport failures, bad statuses, and semantic
// mismatches all become failed results.
func (s *Suite) Run(ctx context.Context) Report {
	started := s.now().UTC()
	runID := s.runID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	s.logger.Info("conformance run started", zap.String("base_url", s.client.BaseURL()))

	s.checkHealth(ctx)
	s.checkSeed(ctx)

	districts := s.checkDistrictsGet(ctx)
	s.checkDistrictsPost(ctx)

	qualifications := s.checkQualificationsGet(ctx)
	s.checkQualificationsPost(ctx)

	categories := s.checkCategoriesGet(ctx)
	s.checkCategoriesPost(ctx)

	page := s.checkJobsList(ctx)
	s.checkJobsFiltering(ctx, districts, qualifications, categories)

	created, haveJob := s.checkJobsPost(ctx, districts, qualifications, categories)
	jobID := ""
	switch {
	case haveJob:
		jobID = created.ID
	case page != nil && len(page.Jobs) > 0:
		jobID = page.Jobs[0].ID
	}
	s.checkJobGetSingle(ctx, jobID)

	s.checkErrorPaths(ctx)
	s.checkCORS(ctx)

	results := s.rec.Results()
	summary := Summarize(results)
	finished := s.now().UTC()
	s.logger.Info("conformance run finished",
		zap.Int("total", summary.Total),
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed),
	)
	return Report{
		RunID:      runID.String(),
		BaseURL:    s.client.BaseURL(),
		StartedAt:  started,
		FinishedAt: finished,
		Results:    results,
		Summary:    summary,
	}
}

func (s *Suite) pass(ctx context.Context, name string, started time.Time, status int, msg string) {
	s.record(ctx, Result{
		Check:      name,
		Passed:     true,
		Message:    msg,
		Timestamp:  started.UTC(),
		Duration:   s.now().Sub(started),
		StatusCode: status,
	})
}

func (s *Suite) fail(ctx context.Context, name string, started time.Time, status int, msg string, detail any) {
	res := Result{
		Check:      name,
		Message:    msg,
		Timestamp:  started.UTC(),
		Duration:   s.now().Sub(started),
		StatusCode: status,
	}
	if detail != nil {
		if raw, err := json.Marshal(detail); err == nil {
			res.Detail = raw
		}
	}
	s.record(ctx, res)
}

func (s *Suite) skip(ctx context.Context, name, msg string) {
	started := s.now()
	s.record(ctx, Result{
		Check:     name,
		Skipped:   true,
		Message:   msg,
		Timestamp: started.UTC(),
	})
}

func (s *Suite) record(ctx context.Context, res Result) {
	s.rec.Record(ctx, res)
}

func (s *Suite) checkHealth(ctx context.Context) {
	const name = "Root API Health Check"
	started := s.now()
	body, status, err := s.client.Health(ctx)
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	case body.Message != jobapi.HealthMessage:
		s.fail(ctx, name, started, status,
			fmt.Sprintf("unexpected identifying message %q", body.Message), body)
	default:
		s.pass(ctx, name, started, status, "API is responding correctly")
	}
}

func (s *Suite) checkSeed(ctx context.Context) {
	const name = "Seed Data Creation"
	started := s.now()
	body, status, err := s.client.Seed(ctx)
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	case body.Message != jobapi.SeedMessage:
		s.fail(ctx, name, started, status,
			fmt.Sprintf("unexpected seed message %q", body.Message), body)
	case body.Counts != s.expect.SeedCounts:
		s.fail(ctx, name, started, status,
			fmt.Sprintf("seed counts %+v do not match expected %+v", body.Counts, s.expect.SeedCounts),
			body.Counts)
	default:
		s.pass(ctx, name, started, status,
			fmt.Sprintf("seeded %d districts, %d qualifications, %d categories, %d jobs",
				body.Counts.Districts, body.Counts.Qualifications, body.Counts.Categories, body.Counts.Jobs))
	}
}

// containsAll reports whether every want entry appears in got.
func containsAll(got []string, want []string) (string, bool) {
	present := make(map[string]struct{}, len(got))
	for _, name := range got {
		present[name] = struct{}{}
	}
	for _, name := range want {
		if _, ok := present[name]; !ok {
			return name, false
		}
	}
	return "", true
}
