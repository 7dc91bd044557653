package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// staticTokens is a TokenSource whose value can be swapped mid-test.
type staticTokens struct{ token atomic.Value }

func newStaticTokens(token string) *staticTokens {
	s := &staticTokens{}
	s.token.Store(token)
	return s
}

func (s *staticTokens) Token() string { return s.token.Load().(string) }

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(ClientConfig{BaseURL: server.URL, Tokens: tokens})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("expected error for empty BaseURL")
	}
	client, err := NewClient(ClientConfig{BaseURL: "http://example.com/"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if got := client.BaseURL(); got != "http://example.com" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", got)
	}
}

func TestBearerTokenReadPerCall(t *testing.T) {
	var seen []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})
	tokens := newStaticTokens("first")
	client := newTestClient(t, handler, tokens)

	ctx := context.Background()
	if _, err := client.MyBoards(ctx); err != nil {
		t.Fatalf("MyBoards: %v", err)
	}
	tokens.token.Store("second")
	if _, err := client.MyBoards(ctx); err != nil {
		t.Fatalf("MyBoards: %v", err)
	}

	want := []string{"Bearer first", "Bearer second"}
	for i, header := range want {
		if seen[i] != header {
			t.Errorf("request %d Authorization = %q, want %q", i, seen[i], header)
		}
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want empty", got)
		}
		w.Write([]byte(`[]`))
	})
	client := newTestClient(t, handler, newStaticTokens(""))

	if _, err := client.MyBoards(context.Background()); err != nil {
		t.Fatalf("MyBoards: %v", err)
	}
}

func TestErrorKindMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   Kind
		msg    string
	}{
		{"validation 400", http.StatusBadRequest, `{"msg":"bad name"}`, KindValidation, "bad name"},
		{"validation 422", http.StatusUnprocessableEntity, `{"message":"too long"}`, KindValidation, "too long"},
		{"auth 401", http.StatusUnauthorized, `{"message":"expired"}`, KindAuth, "expired"},
		{"auth 403", http.StatusForbidden, `{"error":"not admin"}`, KindAuth, "not admin"},
		{"not found 404", http.StatusNotFound, `{}`, KindNotFound, ""},
		{"conflict 409", http.StatusConflict, `{"message":"stale"}`, KindConflict, "stale"},
		{"unknown 500", http.StatusInternalServerError, `oops`, KindUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			client := newTestClient(t, handler, nil)

			_, err := client.MyBoards(context.Background())
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %v is not *Error", err)
			}
			if apiErr.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", apiErr.Kind, tt.kind)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if tt.msg != "" && apiErr.Message != tt.msg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.msg)
			}
			if !IsKind(err, tt.kind) {
				t.Errorf("IsKind(%v) = false", tt.kind)
			}
		})
	}
}

func TestNetworkErrorKind(t *testing.T) {
	client, err := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.MyBoards(context.Background())
	if !IsKind(err, KindNetwork) {
		t.Errorf("expected KindNetwork, got %v", err)
	}
}

func TestUpdateCardsIsOneBatchedRequest(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPut || r.URL.Path != "/cards/bulk" {
			t.Errorf("got %s %s, want PUT /cards/bulk", r.Method, r.URL.Path)
		}
		w.Write([]byte(`[]`))
	})
	client := newTestClient(t, handler, nil)

	batch := []models.Card{{ID: 1, Position: 0}, {ID: 2, Position: 1}, {ID: 3, Position: 2}}
	if _, err := client.UpdateCards(context.Background(), batch); err != nil {
		t.Fatalf("UpdateCards: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1", got)
	}
}

func TestErrorMessageFallback(t *testing.T) {
	if got := ErrorMessage(errors.New("plain"), "fallback"); got != "fallback" {
		t.Errorf("ErrorMessage(plain) = %q, want fallback", got)
	}
	err := &Error{Kind: KindValidation, Message: "name required"}
	if got := ErrorMessage(err, "fallback"); got != "name required" {
		t.Errorf("ErrorMessage = %q, want server message", got)
	}
}
