package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), WithBaseURL(srv.URL))
}

func TestSaveProfileCreated(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/profiles" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req SaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Email != "jane@example.com" {
			t.Fatalf("unexpected email %q", req.Email)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"success": true,
			"message": "Profile created successfully",
			"data": {"id":"abc","name":"Jane Doe","email":"jane@example.com","age":30,
				"createdAt":"2024-01-15T10:30:00.000Z","updatedAt":"2024-01-15T10:30:00.000Z"}
		}`))
	})

	result, err := client.SaveProfile(context.Background(), SaveRequest{Name: "Jane Doe", Email: "jane@example.com", Age: 30})
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if !result.Created {
		t.Fatalf("expected created=true for 201")
	}
	if result.Profile.ID != "abc" || result.Profile.Age != 30 {
		t.Fatalf("unexpected profile: %+v", result.Profile)
	}
	if result.Message != "Profile created successfully" {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestSaveProfileUpdated(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"message":"Profile updated successfully",
			"data":{"id":"abc","name":"Jane Doe","email":"jane@example.com","age":31,
				"createdAt":"2024-01-15T10:30:00.000Z","updatedAt":"2024-01-16T10:30:00.000Z"}}`))
	})

	result, err := client.SaveProfile(context.Background(), SaveRequest{Name: "Jane Doe", Email: "jane@example.com", Age: 31})
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if result.Created {
		t.Fatalf("expected created=false for 200")
	}
}

func TestSaveProfileValidationError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Validation failed",
			"errors":[{"field":"age","message":"Age must be at least 1 year"}]}`))
	})

	_, err := client.SaveProfile(context.Background(), SaveRequest{Name: "Jane Doe", Email: "jane@example.com", Age: 0})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || len(apiErr.Errors) != 1 {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if apiErr.Errors[0].Field != "age" {
		t.Fatalf("unexpected field errors: %+v", apiErr.Errors)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Profile not found"}`))
	})

	_, err := client.GetProfile(context.Background(), "ghost@example.com")
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetProfileEscapesEmail(t *testing.T) {
	var gotPath string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"success":true,"message":"ok",
			"data":{"id":"abc","name":"Jane Doe","email":"jane+tag@example.com","age":30,
				"createdAt":"2024-01-15T10:30:00.000Z","updatedAt":"2024-01-15T10:30:00.000Z"}}`))
	})

	if _, err := client.GetProfile(context.Background(), "jane+tag@example.com"); err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if gotPath != "/api/profiles/jane+tag@example.com" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestListProfiles(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","count":2,"data":[
			{"id":"b","name":"Second User","email":"b@example.com","age":25,
				"createdAt":"2024-01-16T10:30:00.000Z","updatedAt":"2024-01-16T10:30:00.000Z"},
			{"id":"a","name":"First User","email":"a@example.com","age":30,
				"createdAt":"2024-01-15T10:30:00.000Z","updatedAt":"2024-01-15T10:30:00.000Z"}]}`))
	})

	profiles, err := client.ListProfiles(context.Background())
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 2 || profiles[0].Email != "b@example.com" {
		t.Fatalf("unexpected profiles: %+v", profiles)
	}
}

func TestDeleteProfile(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"Profile deleted successfully"}`))
	})

	if err := client.DeleteProfile(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(nil, WithBaseURL(url))
	_, err := client.ListProfiles(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestPing(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"Server is running"}`))
	})

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
