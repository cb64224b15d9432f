package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newFactory(t *testing.T, cfg Config) Factory {
	t.Helper()
	f, err := NewFactory(cfg)
	if err != nil {
		t.Fatalf("NewFactory(%s): %v", cfg.Driver, err)
	}
	return f
}

func send(t *testing.T, f Factory, req Request) (*Response, error) {
	t.Helper()
	tr, err := f.NewTransport()
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	defer tr.Close()
	return tr.Send(context.Background(), req)
}

func TestDrivers_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/customers/7" {
			t.Errorf("expected /customers/7, got %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Default"); got != "d" {
			t.Errorf("expected default header, got %q", got)
		}
		if got := r.Header.Get("X-Override"); got != "request" {
			t.Errorf("request header should win, got %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	for _, driver := range Drivers() {
		t.Run(driver, func(t *testing.T) {
			f := newFactory(t, Config{
				Driver:  driver,
				Headers: map[string]string{"X-Default": "d", "X-Override": "default"},
			})
			resp, err := send(t, f, Request{
				Method:  http.MethodPut,
				URI:     srv.URL + "/customers/7",
				Body:    []byte(`{"id":7}`),
				Headers: map[string]string{"X-Override": "request", "Content-Type": "application/json"},
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !resp.IsSuccess() || resp.StatusCode != http.StatusOK {
				t.Errorf("expected 200, got %d", resp.StatusCode)
			}
			if resp.ContentType != "application/json" {
				t.Errorf("expected bare media type, got %q", resp.ContentType)
			}
			if string(resp.Body) != `{"id":7}` {
				t.Errorf("unexpected body %q", resp.Body)
			}
			if !strings.HasPrefix(resp.Status, "200") {
				t.Errorf("expected status line, got %q", resp.Status)
			}
		})
	}
}

func TestDrivers_ErrorStatusIsAResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "the item was not found", http.StatusNotFound)
	}))
	defer srv.Close()

	for _, driver := range Drivers() {
		t.Run(driver, func(t *testing.T) {
			resp, err := send(t, newFactory(t, Config{Driver: driver}), Request{Method: http.MethodGet, URI: srv.URL})
			if err != nil {
				t.Fatalf("non-2xx must not be an error: %v", err)
			}
			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("expected 404, got %d", resp.StatusCode)
			}
			if strings.TrimSpace(string(resp.Body)) != "the item was not found" {
				t.Errorf("unexpected body %q", resp.Body)
			}
		})
	}
}

func TestDrivers_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	uri := srv.URL
	srv.Close()

	for _, driver := range Drivers() {
		t.Run(driver, func(t *testing.T) {
			_, err := send(t, newFactory(t, Config{Driver: driver}), Request{Method: http.MethodGet, URI: uri})
			if !IsConnection(err) {
				t.Errorf("expected connection error, got %v", err)
			}
		})
	}
}

func TestDrivers_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	for _, driver := range Drivers() {
		t.Run(driver, func(t *testing.T) {
			f := newFactory(t, Config{Driver: driver, Timeout: 50 * time.Millisecond})
			_, err := send(t, f, Request{Method: http.MethodGet, URI: srv.URL})
			if !IsTimeout(err) {
				t.Errorf("expected timeout error, got %v", err)
			}
		})
	}
}

func TestHTTPTransport_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	tr, _ := newFactory(t, Config{}).NewTransport()
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := tr.Send(ctx, Request{Method: http.MethodGet, URI: srv.URL})
	if !IsCanceled(err) {
		t.Errorf("expected canceled error, got %v", err)
	}
}

func TestTransport_SendAfterClose(t *testing.T) {
	for _, driver := range Drivers() {
		t.Run(driver, func(t *testing.T) {
			tr, err := newFactory(t, Config{Driver: driver}).NewTransport()
			if err != nil {
				t.Fatal(err)
			}
			if err := tr.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
			if _, err := tr.Send(context.Background(), Request{Method: http.MethodGet, URI: "http://unused"}); err != ErrClosed {
				t.Errorf("expected ErrClosed, got %v", err)
			}
		})
	}
}

func TestRetryableDriver_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	f := newFactory(t, Config{
		Driver:       DriverRetryable,
		RetryMax:     3,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	})
	resp, err := send(t, f, Request{Method: http.MethodDelete, URI: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204 after retries, got %d", resp.StatusCode)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestRetryableDriver_ExhaustedReturnsLastResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newFactory(t, Config{Driver: DriverRetryable, RetryMax: 1, RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond})
	resp, err := send(t, f, Request{Method: http.MethodGet, URI: srv.URL})
	if err != nil {
		t.Fatalf("exhausted retries should hand back the response, got %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
}

func TestFactoryFunc(t *testing.T) {
	called := false
	var f Factory = FactoryFunc(func() (Transport, error) {
		called = true
		return &httpTransport{client: http.DefaultClient}, nil
	})
	if _, err := f.NewTransport(); err != nil || !called {
		t.Errorf("FactoryFunc not invoked: called=%v err=%v", called, err)
	}
}

func TestNewFactory_InvalidConfig(t *testing.T) {
	if _, err := NewFactory(Config{Driver: "grpc"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestMediaType(t *testing.T) {
	tests := map[string]string{
		"":                               "",
		"application/json":               "application/json",
		"Application/XML; charset=utf-8": "application/xml",
		"text/plain;;broken":             "text/plain",
	}
	for in, want := range tests {
		if got := mediaType(in); got != want {
			t.Errorf("mediaType(%q) = %q, want %q", in, got, want)
		}
	}
}
