package check

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tamilansjob/apicheck/internal/jobapi"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

// fakeJobAPI is a minimal in-memory rendition of the job board API that
// satisfies every conformance check.
func fakeJobAPI(t *testing.T) *httptest.Server {
	t.Helper()

	districts := []map[string]any{}
	districtNames := [][2]string{
		{"Chennai", "சென்னை"}, {"Coimbatore", "கோயம்புத்தூர்"}, {"Madurai", "மதுரை"},
		{"Salem", "சேலம்"}, {"Trichy", "திருச்சி"}, {"Erode", "ஈரோடு"},
	}
	for i, n := range districtNames {
		districts = append(districts, map[string]any{
			"id": fmt.Sprintf("d%d", i+1), "name_en": n[0], "name_ta": n[1],
			"slug": strings.ToLower(n[0]), "createdAt": "2026-08-01T00:00:00Z",
		})
	}

	qualifications := []map[string]any{}
	qualNames := []string{"10th", "12th/HSC", "ITI", "Diploma", "B.E/B.Tech", "Any Degree", "PG"}
	for i, n := range qualNames {
		qualifications = append(qualifications, map[string]any{
			"id": fmt.Sprintf("q%d", i+1), "name_en": n, "name_ta": n,
			"slug": strings.ToLower(strings.ReplaceAll(n, "/", "-")), "order": i + 1,
			"createdAt": "2026-08-01T00:00:00Z",
		})
	}

	categories := []map[string]any{}
	catNames := []string{"TNPSC", "TRB", "TET", "Police", "Banking", "Court"}
	for i, n := range catNames {
		categories = append(categories, map[string]any{
			"id": fmt.Sprintf("c%d", i+1), "name_en": n, "name_ta": n,
			"slug": strings.ToLower(n), "sector": "state", "createdAt": "2026-08-01T00:00:00Z",
		})
	}

	makeJob := func(id, title string) map[string]any {
		return map[string]any{
			"id": id, "title": title,
			"summary": "Summary for " + title,
			"content": "Long form content for " + title,
			"dept":    "Revenue Department", "sector": "state", "status": "published",
			"vacancies": 100,
		}
	}
	jobs := []map[string]any{
		makeJob("j1", "TNPSC Group 4 Recruitment"),
		makeJob("j2", "TRB Teacher Recruitment"),
	}

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, map[string]string{"message": "TamilansJob.com API"})
	})
	mux.HandleFunc("/api/seed", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"message": "Seed data created successfully",
			"counts":  map[string]int{"districts": 6, "qualifications": 7, "categories": 6, "jobs": 2},
		})
	})
	mux.HandleFunc("/api/districts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var in map[string]any
			_ = json.NewDecoder(r.Body).Decode(&in)
			in["id"] = "d99"
			in["createdAt"] = "2026-08-25T00:00:00Z"
			writeJSON(w, in)
			return
		}
		writeJSON(w, districts)
	})
	mux.HandleFunc("/api/qualifications", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var in map[string]any
			_ = json.NewDecoder(r.Body).Decode(&in)
			in["id"] = "q99"
			in["createdAt"] = "2026-08-25T00:00:00Z"
			writeJSON(w, in)
			return
		}
		writeJSON(w, qualifications)
	})
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var in map[string]any
			_ = json.NewDecoder(r.Body).Decode(&in)
			in["id"] = "c99"
			in["createdAt"] = "2026-08-25T00:00:00Z"
			writeJSON(w, in)
			return
		}
		writeJSON(w, categories)
	})
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var in map[string]any
			_ = json.NewDecoder(r.Body).Decode(&in)
			in["id"] = "j99"
			writeJSON(w, in)
			return
		}
		out := jobs
		if r.URL.Query().Get("limit") == "1" {
			out = jobs[:1]
		}
		writeJSON(w, map[string]any{
			"jobs": out, "total": len(jobs), "page": 1, "totalPages": 1,
		})
	})
	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		for _, j := range jobs {
			if j["id"] == id {
				writeJSON(w, j)
				return
			}
		}
		if id == "j99" {
			writeJSON(w, makeJob("j99", "Test Police Constable Recruitment 2025"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"error": "job not found"})
	})

	return httptest.NewServer(mux)
}

func newTestSuite(ts *httptest.Server, sinks ...Sink) (*Suite, *Recorder) {
	client := jobapi.New(jobapi.Config{
		BaseURL: ts.URL + "/api",
		Timeout: 5 * time.Second,
	})
	rec := NewRecorder(zap.NewNop(), sinks...)
	return NewSuite(client, rec, DefaultExpectations(), zap.NewNop()), rec
}

func TestSuiteRunAllPass(t *testing.T) {
	t.Parallel()

	ts := fakeJobAPI(t)
	defer ts.Close()

	suite, _ := newTestSuite(ts)
	rep := suite.Run(context.Background())

	for _, res := range rep.Results {
		require.True(t, res.Passed, "check %q failed: %s", res.Check, res.Message)
	}
	require.Equal(t, 20, rep.Summary.Total)
	require.Equal(t, 20, rep.Summary.Passed)
	require.Zero(t, rep.Summary.Failed)
	require.NotEmpty(t, rep.RunID)
	require.Equal(t, ts.URL+"/api", rep.BaseURL)
	require.InDelta(t, 1.0, rep.Summary.PassRate(), 1e-9)
}

func TestSuiteRunOrderIsStable(t *testing.T) {
	t.Parallel()

	ts := fakeJobAPI(t)
	defer ts.Close()

	suite, _ := newTestSuite(ts)
	rep := suite.Run(context.Background())

	require.Equal(t, "Root API Health Check", rep.Results[0].Check)
	require.Equal(t, "Seed Data Creation", rep.Results[1].Check)
	require.Equal(t, "CORS Headers", rep.Results[len(rep.Results)-1].Check)
}

func TestSuiteRunAgainstBrokenServer(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"database unavailable"}`))
	}))
	defer ts.Close()

	suite, _ := newTestSuite(ts)
	rep := suite.Run(context.Background())

	// The run must complete despite every request failing.
	require.NotEmpty(t, rep.Results)
	require.Zero(t, rep.Summary.Passed)
	require.Equal(t, rep.Summary.Total, rep.Summary.Failed)

	// Checks whose prerequisites failed are recorded as skipped.
	var skipped []string
	for _, res := range rep.Results {
		if res.Skipped {
			skipped = append(skipped, res.Check)
		}
	}
	require.Contains(t, skipped, "Jobs Filtering")
	require.Contains(t, skipped, "Jobs POST")
	require.Contains(t, skipped, "Jobs GET Single")
}

func TestSuiteRunUnreachableServer(t *testing.T) {
	t.Parallel()

	client := jobapi.New(jobapi.Config{
		BaseURL: "http://127.0.0.1:1/api",
		Timeout: 500 * time.Millisecond,
	})
	rec := NewRecorder(zap.NewNop())
	suite := NewSuite(client, rec, DefaultExpectations(), zap.NewNop())

	rep := suite.Run(context.Background())
	require.NotEmpty(t, rep.Results)
	require.Zero(t, rep.Summary.Passed)
}

func TestSuiteUseRunID(t *testing.T) {
	t.Parallel()

	ts := fakeJobAPI(t)
	defer ts.Close()

	suite, _ := newTestSuite(ts)
	id := "0d4cde1e-9a15-4f53-8c2b-0d8b0a1a9b01"
	suite.UseRunID(mustUUID(t, id))

	rep := suite.Run(context.Background())
	require.Equal(t, id, rep.RunID)
}

func TestSuiteForwardsResultsToSinks(t *testing.T) {
	t.Parallel()

	ts := fakeJobAPI(t)
	defer ts.Close()

	sink := &captureSink{}
	suite, rec := newTestSuite(ts, sink)
	rep := suite.Run(context.Background())
	rec.Close(context.Background())

	require.Len(t, sink.batches, rep.Summary.Total)
	require.True(t, sink.closed)
}
