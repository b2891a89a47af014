package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClientDefaultTimeout(t *testing.T) {
	client := NewClient(0)
	if client.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.Timeout, defaultTimeout)
	}

	client = NewClient(5 * time.Minute)
	if client.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want %v", client.Timeout, 5*time.Minute)
	}
}

func TestReadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	body, err := ReadBody(resp)
	if err != nil {
		t.Fatalf("ReadBody() error: %v", err)
	}
	if string(body) != "hello" {
		t.Errorf("body = %q, want %q", body, "hello")
	}
}

func TestIsSuccess(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusOK, true},
		{http.StatusCreated, true},
		{http.StatusNoContent, true},
		{http.StatusPermanentRedirect, false},
		{http.StatusBadRequest, false},
		{http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		resp := &http.Response{StatusCode: tt.status}
		if got := IsSuccess(resp); got != tt.want {
			t.Errorf("IsSuccess(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatusDetail(t *testing.T) {
	resp := &http.Response{Status: "400 Bad Request"}

	got := StatusDetail(resp, []byte(`{"error": "bad caption"}`))
	if got != `400 Bad Request: {"error": "bad caption"}` {
		t.Errorf("StatusDetail() = %q", got)
	}

	if got := StatusDetail(resp, nil); got != "400 Bad Request" {
		t.Errorf("StatusDetail() with empty body = %q", got)
	}
}

func TestSnippetCollapsesWhitespace(t *testing.T) {
	got := Snippet([]byte("a\n  b\t\tc"))
	if got != "a b c" {
		t.Errorf("Snippet() = %q, want %q", got, "a b c")
	}
}

func TestSnippetTruncatesLongBodies(t *testing.T) {
	got := Snippet([]byte(strings.Repeat("x", snippetLimit*2)))
	if len(got) != snippetLimit+len("...") {
		t.Errorf("len(Snippet()) = %d, want %d", len(got), snippetLimit+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("Snippet() should end with ellipsis")
	}
}
