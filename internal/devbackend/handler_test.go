package devbackend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ashureev/healthdash/internal/backend"
	"github.com/ashureev/healthdash/internal/domain"
)

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	a, s := newTestAgent(t)
	srv := httptest.NewServer(NewHandler(s, a).Router())
	t.Cleanup(srv.Close)
	return srv, s
}

func TestHandlerServesBackendClient(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	client, err := backend.NewClient(backend.Config{BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	p, err := client.GetProfile(ctx, 7)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if p.Name() != "Asha Rao" || p.DietaryPreference != "vegetarian" {
		t.Errorf("GetProfile() = %+v", p)
	}

	if _, err := client.GetProfile(ctx, 404); !errors.Is(err, backend.ErrProfileNotFound) {
		t.Errorf("GetProfile(missing) error = %v, want ErrProfileNotFound", err)
	}

	id := int64(7)
	reply, err := client.Chat(ctx, backend.ChatRequest{Message: "My glucose reading is 95", UserID: &id, SessionID: "tab-1"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply.Failed() || reply.Text != "Glucose reading 95 mg/dL is stable." {
		t.Errorf("Chat() = %+v", reply)
	}

	logs, err := client.ListLogs(ctx, 7)
	if err != nil {
		t.Fatalf("ListLogs() error = %v", err)
	}
	if len(logs) != 1 || logs[0].LogType != domain.LogTypeCGM || logs[0].Value != "95" {
		t.Errorf("ListLogs() = %+v", logs)
	}
}

func TestHandlerHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestHandlerCreateLog(t *testing.T) {
	srv, s := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"valid", "?user_id=7&log_type=mood&value=calm", http.StatusOK},
		{"bad user id", "?user_id=abc&log_type=mood&value=calm", http.StatusUnprocessableEntity},
		{"missing value", "?user_id=7&log_type=mood", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/logs"+tt.query, "application/json", nil)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}

	logs, err := s.ListLogs(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Errorf("logs = %d, want 1", len(logs))
	}
}
