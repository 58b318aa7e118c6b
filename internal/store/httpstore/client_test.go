package httpstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spesechart/internal/core"
	"spesechart/internal/store"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL + "/")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"ftp://example.com", "localhost:5000", "://bad"} {
		if _, err := New(raw); err == nil {
			t.Fatalf("%q expected error", raw)
		}
	}
}

func TestCreateSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != AddPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %q", ct)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Errorf("missing request id header")
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("title") != "Coffee" || r.PostForm.Get("amount") != "3.5" || r.PostForm.Get("category") != "Food" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{"id":"abc","title":"Coffee","amount":3.5,"category":"Food","date":"2025-01-01 10:00:00"}}`))
	})

	e, err := c.Create(context.Background(), core.Draft{Title: " Coffee ", Amount: "3.5", Category: "Food"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID != "abc" || e.Title != "Coffee" || e.Category != "Food" || e.Date == "" {
		t.Fatalf("unexpected record %+v", e)
	}
	if !e.Amount.Equal(decimal.RequireFromString("3.5")) {
		t.Fatalf("unexpected amount %s", e.Amount)
	}
}

func TestCreateRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"bad amount"}`))
	})

	_, err := c.Create(context.Background(), core.Draft{Title: "a", Amount: "x", Category: "c"})
	if !errors.Is(err, store.ErrCreateRejected) {
		t.Fatalf("expected ErrCreateRejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad amount") {
		t.Fatalf("expected store message in error, got %v", err)
	}
}

func TestCreateInvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	})
	_, err := c.Create(context.Background(), core.Draft{Title: "a", Amount: "1", Category: "c"})
	if err == nil || errors.Is(err, store.ErrCreateRejected) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestDeleteEscapesIDAndIgnoresBody(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`not json at all`))
	})

	if err := c.Delete(context.Background(), "a b/c"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotPath != "/delete/a%20b%2Fc" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestDeleteErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error"}`, http.StatusNotFound)
	})
	if err := c.Delete(context.Background(), "42"); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != ListPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`[{"category":"Food","amount":10},{"category":"Food","amount":5},{"category":"Travel","amount":20}]`))
	})

	records, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	b := core.AggregateByCategory(records)
	if got := b.Labels(); len(got) != 2 || got[0] != "Food" || got[1] != "Travel" {
		t.Fatalf("unexpected labels %v", got)
	}
	if got := b.Values(); got[0] != 15 || got[1] != 20 {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestListErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := c.List(context.Background())
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected 500 error, got %v", err)
	}
}

func TestListHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.List(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestWithTimeout(t *testing.T) {
	c, err := New("http://localhost:1", WithTimeout(3*time.Second))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.http.Timeout != 3*time.Second {
		t.Fatalf("expected timeout to be applied, got %v", c.http.Timeout)
	}
	c, _ = New("http://localhost:1", WithTimeout(0))
	if c.http.Timeout != 0 {
		t.Fatalf("expected no timeout, got %v", c.http.Timeout)
	}
}
