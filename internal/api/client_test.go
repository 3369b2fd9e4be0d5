package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestClientSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "username": "alice"})
	})

	user, err := client.Profile(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want alice", user.Username)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestClientOmitsAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(TokenPair{Access: "a", Refresh: "r"})
	})

	if _, err := client.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestClientErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail field", http.StatusForbidden, `{"detail":"You do not have permission"}`, "You do not have permission"},
		{"error field", http.StatusBadRequest, `{"error":"Invalid OTP code"}`, "Invalid OTP code"},
		{"message field", http.StatusBadRequest, `{"message":"Bad request"}`, "Bad request"},
		{"empty body", http.StatusInternalServerError, ``, ""},
		{"non-json body", http.StatusBadGateway, `<html>nope</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.ListTasks(context.Background(), "tok")
			if err == nil {
				t.Fatal("expected error")
			}
			apiErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("error type %T, want *Error", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Detail != tt.want {
				t.Errorf("Detail = %q, want %q", apiErr.Detail, tt.want)
			}
		})
	}
}

func TestIsUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
	})

	_, err := client.ListTasks(context.Background(), "stale")
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = false, want true", err)
	}

	client403 := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"Forbidden"}`))
	})
	_, err = client403.ListTasks(context.Background(), "tok")
	if IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = true for 403, want false", err)
	}
}

func TestIsMFARequired(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"MFA is required. Please verify your second factor."}`))
	})

	_, err := client.Login(context.Background(), "alice", "pw")
	if !IsMFARequired(err) {
		t.Errorf("IsMFARequired(%v) = false, want true", err)
	}
	if IsUnauthorized(err) {
		t.Error("MFA challenge must not look like a 401")
	}
}

func TestMessage(t *testing.T) {
	withDetail := &Error{StatusCode: 403, Detail: "Staff only"}
	if got := Message(withDetail, "fallback"); got != "Staff only" {
		t.Errorf("Message = %q, want Staff only", got)
	}
	noDetail := &Error{StatusCode: 500}
	if got := Message(noDetail, "fallback"); got != "fallback" {
		t.Errorf("Message = %q, want fallback", got)
	}
	if got := Message(context.DeadlineExceeded, "fallback"); got != "fallback" {
		t.Errorf("Message(network err) = %q, want fallback", got)
	}
}

func TestRefresh(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/token/refresh/" || r.Method != http.MethodPost {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["refresh"] != "refresh-tok" {
			t.Errorf("refresh = %q, want refresh-tok", body["refresh"])
		}
		json.NewEncoder(w).Encode(map[string]string{"access": "fresh-access"})
	})

	access, err := client.Refresh(context.Background(), "refresh-tok")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if access != "fresh-access" {
		t.Errorf("access = %q, want fresh-access", access)
	}
}

func TestAddTask(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/add/" || r.Method != http.MethodPost {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{
			"id":          7,
			"title":       body["title"],
			"description": body["description"],
			"status":      body["status"],
		})
	})

	task, err := client.AddTask(context.Background(), "tok", "Buy milk", "2%", "pending")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.ID != 7 || task.Title != "Buy milk" || task.Status != "pending" {
		t.Errorf("unexpected task %+v", task)
	}
}

func TestDeleteTaskNoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/9/delete/" || r.Method != http.MethodDelete {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteTask(context.Background(), "tok", 9); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
}

func TestUpdateAnyTaskPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/all-tasks/3/" || r.Method != http.MethodPut {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 3, "title": "t", "status": "completed"})
	})

	task, err := client.UpdateAnyTask(context.Background(), "tok", 3, "t", "", "completed")
	if err != nil {
		t.Fatalf("UpdateAnyTask: %v", err)
	}
	if task.Status != "completed" {
		t.Errorf("status = %q, want completed", task.Status)
	}
}
