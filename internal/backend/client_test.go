package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, mux *http.ServeMux, chatPath string) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/", ChatPath: chatPath}, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestClientGetProfile(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/12", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"user_id":12,"first_name":"Asha","last_name":"Rao","city":"Chicago","dietary_preference":"vegan","medical_conditions":"Asthma"}`))
	})
	mux.HandleFunc("GET /users/99", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"User not found"}`, http.StatusNotFound)
	})
	c := newTestClient(t, mux, "")

	p, err := c.GetProfile(context.Background(), 12)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.Name() != "Asha Rao" || p.DietaryPreference != "vegan" {
		t.Errorf("unexpected profile: %+v", p)
	}

	_, err = c.GetProfile(context.Background(), 99)
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestClientListLogs(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/12/logs", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"log_id":2,"user_id":12,"timestamp":"2024-05-02 08:00:00","log_type":"cgm","value":"150"},{"log_id":1,"user_id":12,"timestamp":"2024-05-01 08:00:00","log_type":"mood","value":"happy"}]`))
	})
	mux.HandleFunc("GET /users/13/logs", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("GET /users/14/logs", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	c := newTestClient(t, mux, "")

	logs, err := c.ListLogs(context.Background(), 12)
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(logs) != 2 || logs[0].LogType != "cgm" || logs[1].Value != "happy" {
		t.Errorf("unexpected logs: %+v", logs)
	}

	empty, err := c.ListLogs(context.Background(), 13)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("expected non-nil empty list, got %v (err %v)", empty, err)
	}

	if _, err := c.ListLogs(context.Background(), 14); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestClientChat(t *testing.T) {
	t.Parallel()

	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /agent", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"response":"Welcome back!","status":"success"}`))
	})
	c := newTestClient(t, mux, "agent")

	reply, err := c.Chat(context.Background(), ChatRequest{Message: "my id is 12", SessionID: "s1"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply.Text != "Welcome back!" || reply.Failed() {
		t.Errorf("unexpected reply: %+v", reply)
	}
	if got["message"] != "my id is 12" || got["session_id"] != "s1" {
		t.Errorf("unexpected request body: %v", got)
	}
	if v, ok := got["user_id"]; !ok || v != nil {
		t.Errorf("expected explicit null user_id, got %v (present %v)", v, ok)
	}
}

func TestClientChatTransportFailure(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /ag-ui-agent", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"Agent execution failed"}`, http.StatusInternalServerError)
	})
	c := newTestClient(t, mux, "")

	if _, err := c.Chat(context.Background(), ChatRequest{Message: "hi"}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{BaseURL: "  "}, nil); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
