package economy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTopGGChecker_HasVoted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Query().Get("userId") {
		case "voter":
			w.Write([]byte(`{"voted":1}`))
		default:
			w.Write([]byte(`{"voted":0}`))
		}
	}))
	defer srv.Close()

	checker := NewTopGGChecker(srv.URL, "bot123", "secret")

	voted, err := checker.HasVoted(context.Background(), "voter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !voted {
		t.Error("expected voter to have voted")
	}

	voted, err = checker.HasVoted(context.Background(), "slacker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if voted {
		t.Error("expected slacker to not have voted")
	}
}

func TestTopGGChecker_BadStatusIsError(t *testing.T) {
	checker := NewTopGGChecker("http://127.0.0.1:0", "bot123", "wrong")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	checker.BaseURL = srv.URL

	if _, err := checker.HasVoted(context.Background(), "voter"); err == nil {
		t.Error("expected error on unauthorized response")
	}
}
