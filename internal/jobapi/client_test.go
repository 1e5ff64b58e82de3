package jobapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(ts *httptest.Server) *Client {
	return New(Config{
		BaseURL:   ts.URL + "/api",
		Timeout:   5 * time.Second,
		UserAgent: "apicheck-test/1.0",
	})
}

func TestClientHealth(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.Equal(t, "apicheck-test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"TamilansJob.com API"}`))
	}))
	defer ts.Close()

	got, status, err := newTestClient(ts).Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, HealthMessage, got.Message)
}

func TestClientSeed(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/seed", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"message": "Seed data created successfully",
			"counts": {"districts":6,"qualifications":7,"categories":6,"jobs":2}
		}`))
	}))
	defer ts.Close()

	got, status, err := newTestClient(ts).Seed(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, SeedMessage, got.Message)
	require.Equal(t, 6, got.Counts.Districts)
	require.Equal(t, 2, got.Counts.Jobs)
}

func TestClientListJobsEncodesFilters(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "chennai", q.Get("district"))
		require.Equal(t, "TNPSC", q.Get("search"))
		require.Equal(t, "1", q.Get("page"))
		require.Equal(t, "5", q.Get("limit"))
		_, _ = w.Write([]byte(`{"jobs":[],"total":0,"page":1,"totalPages":0}`))
	}))
	defer ts.Close()

	page, status, err := newTestClient(ts).ListJobs(context.Background(), JobQuery{
		District: "chennai",
		Search:   "TNPSC",
		Page:     1,
		Limit:    5,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, page.Validate())
	require.Equal(t, 1, *page.Page)
}

func TestClientStatusError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}))
	defer ts.Close()

	_, status, err := newTestClient(ts).ListDistricts(context.Background())
	require.Equal(t, http.StatusNotFound, status)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	require.Contains(t, statusErr.Body, "not found")
}

func TestClientDecodeError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer ts.Close()

	_, status, err := newTestClient(ts).ListCategories(context.Background())
	require.Equal(t, http.StatusOK, status)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestClientTransportError(t *testing.T) {
	t.Parallel()

	client := New(Config{
		BaseURL: "http://127.0.0.1:1/api",
		Timeout: 500 * time.Millisecond,
	})
	_, status, err := client.Health(context.Background())
	require.Error(t, err)
	require.Zero(t, status)
}

func TestClientGetStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/jobs/invalid-id" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	status, err := newTestClient(ts).GetStatus(context.Background(), "/jobs/invalid-id")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, status)
}

func TestClientPreflight(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodOptions, r.Method)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	headers, status, err := newTestClient(ts).Preflight(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, status)
	require.Equal(t, "*", headers.Get("Access-Control-Allow-Origin"))
}

func TestClientCreateDistrict(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/districts", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{
			"id": "41",
			"name_en": "Kanyakumari",
			"name_ta": "கன்னியாகுமரி",
			"slug": "kanyakumari",
			"createdAt": "2026-08-25T10:00:00Z"
		}`))
	}))
	defer ts.Close()

	got, status, err := newTestClient(ts).CreateDistrict(context.Background(), NewDistrict{
		NameEN: "Kanyakumari",
		NameTA: "கன்னியாகுமரி",
		Slug:   "kanyakumari",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, got.ValidateCreated())
	require.Equal(t, "Kanyakumari", got.NameEN)
}
