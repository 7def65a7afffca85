package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

type echo struct {
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPIClientWithHTTPClient(srv.URL+"/", srv.Client())
}

func TestPostSendsJSONAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/things" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Error("missing request id header")
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json; charset=UTF-8" {
			t.Errorf("Content-Type = %q", ct)
		}
		var in echo
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(echo{Name: in.Name + "!"})
	})

	var out echo
	if err := c.Post(context.Background(), "/things", echo{Name: "hi"}, &out); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if out.Name != "hi!" {
		t.Errorf("out = %+v", out)
	}
}

func TestDeleteAcceptsNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	var out echo
	if err := c.Delete(context.Background(), "/things/1", &out); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestHTTPErrorIsNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	err := c.Get(context.Background(), "/missing", nil)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("error %v is not ErrNetwork", err)
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error %T is not *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusNotFound || reqErr.Body != "nope" {
		t.Errorf("RequestError = %+v", reqErr)
	}
}

func TestBadJSONIsNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "{not json")
	})

	var out echo
	err := c.Get(context.Background(), "/things", &out)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("error %v is not ErrNetwork", err)
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewAPIClientWithHTTPClient(url, http.DefaultClient)
	err := c.Get(context.Background(), "/things", nil)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("error %v is not ErrNetwork", err)
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", reqErr.StatusCode)
	}
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "/things", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error %v does not wrap context.Canceled", err)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("error %v is not ErrNetwork", err)
	}
}
