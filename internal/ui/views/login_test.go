package views

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskdeck/internal/api"
)

func TestLoginSendsTrimmedUsernameOnAllSteps(t *testing.T) {
	var usernames []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		usernames = append(usernames, body["username"])
		json.NewEncoder(w).Encode(map[string]string{"access": "a", "refresh": "r"})
	}))
	defer srv.Close()

	v := NewLoginView(api.New(srv.URL, 5*time.Second), nil)
	v.username.SetValue("alice ")
	v.password.SetValue("pw")

	// Password step
	_, cmd := v.submit()
	cmd()

	// TOTP step after an MFA challenge
	v.busy = false
	v.step = stepTOTP
	v.code.SetValue("123456")
	_, cmd = v.submit()
	cmd()

	// Email OTP step
	v.busy = false
	v.step = stepOTP
	v.code.SetValue("654321")
	_, cmd = v.submit()
	cmd()

	if len(usernames) != 3 {
		t.Fatalf("requests = %d, want 3", len(usernames))
	}
	for i, u := range usernames {
		if u != "alice" {
			t.Errorf("request %d sent username %q, want alice", i, u)
		}
	}
}
