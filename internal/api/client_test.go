package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(
		WithToken("test-token"),
		WithBaseURL(srv.URL),
	)
	return client, srv
}

func TestServers(t *testing.T) {
	var gotAuth, gotPath, gotPerPage string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotPerPage = r.URL.Query().Get("perpage")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"servers":[
			{"id":"srv-1","name":"web-01","os":"Ubuntu","status":"up",
			 "tags":["production"],
			 "summary":{"cpu_usage_percent":12.3,"mem_usage_percent":45.6,"disk_usage_percent":78.9},
			 "last_data":{"df":[{"mount":"/","free_bytes":50,"used_bytes":50}]}},
			{"id":"srv-2","name":"db-01"}
		]}`))
	})

	servers, err := client.Servers(context.Background())
	if err != nil {
		t.Fatalf("Servers() error: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization header = %q, want Bearer test-token", gotAuth)
	}
	if gotPath != "/servers" {
		t.Errorf("request path = %q, want /servers", gotPath)
	}
	if gotPerPage != "5000" {
		t.Errorf("perpage = %q, want 5000", gotPerPage)
	}

	if len(servers) != 2 {
		t.Fatalf("got %d servers, want 2", len(servers))
	}
	if servers[0].ID != "srv-1" || servers[0].Summary.CPUUsagePercent != 12.3 {
		t.Errorf("unexpected first server: %+v", servers[0])
	}
	if len(servers[0].LastData.Df) != 1 || servers[0].LastData.Df[0].Mount != "/" {
		t.Errorf("unexpected df data: %+v", servers[0].LastData.Df)
	}

	// Missing optional fields decode to zero values, never an error
	if servers[1].OS != "" || servers[1].Tags != nil || servers[1].Summary.CPUUsagePercent != 0 {
		t.Errorf("expected zero values for missing fields: %+v", servers[1])
	}
}

func TestServers_CachesResult(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"servers":[{"id":"srv-1","name":"web-01"}]}`))
	})

	for i := 0; i < 3; i++ {
		if _, err := client.Servers(context.Background()); err != nil {
			t.Fatalf("Servers() call %d error: %v", i+1, err)
		}
	}

	if calls != 1 {
		t.Errorf("expected 1 HTTP call for repeated fetches, got %d", calls)
	}
}

func TestServers_EmptyList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"servers":[]}`))
	})

	servers, err := client.Servers(context.Background())
	if err != nil {
		t.Fatalf("Servers() error: %v", err)
	}
	if servers == nil || len(servers) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", servers)
	}
}

func TestServers_APIErrorCarriesStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Servers(context.Background())
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
}

func TestServers_AuthError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Servers(context.Background())
	if !IsAuthError(err) {
		t.Errorf("expected auth error for HTTP 401, got %v", err)
	}
}

func TestServers_RateLimited(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Servers(context.Background())
	if !IsRateLimited(err) {
		t.Errorf("expected rate limit error for HTTP 429, got %v", err)
	}
}

func TestServers_NoToken(t *testing.T) {
	t.Setenv("M360_API_KEY", "")
	client := NewClient(WithBaseURL("http://localhost:1"))

	_, err := client.Servers(context.Background())
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestUpdateServerTags(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody tagsRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
	})

	err := client.UpdateServerTags(context.Background(), "srv-1", []string{"production", "eu-west"})
	if err != nil {
		t.Fatalf("UpdateServerTags() error: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
	if gotPath != "/server/srv-1" {
		t.Errorf("path = %q, want /server/srv-1", gotPath)
	}
	if len(gotBody.Tags) != 2 || gotBody.Tags[0] != "production" {
		t.Errorf("unexpected tags body: %v", gotBody.Tags)
	}
}

func TestUpdateServerTags_ErrorIncludesServerID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	err := client.UpdateServerTags(context.Background(), "srv-1", []string{"x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.ServerID != "srv-1" {
		t.Errorf("ServerID = %q, want srv-1", apiErr.ServerID)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
}
