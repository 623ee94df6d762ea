package kurir

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const (
	testResponseBody     = "test response"
	expectedStatus200Msg = "Expected status 200, got %d"
	failedWriteMsg       = "Failed to write response: %v"
)

func TestNew(t *testing.T) {
	client := New()

	if client == nil {
		t.Fatal("New() returned nil")
	}

	if client.interceptors == nil || client.interceptors.Request == nil || client.interceptors.Response == nil {
		t.Fatal("Interceptor managers not initialized")
	}

	if _, ok := client.adapter.(*HTTPAdapter); !ok {
		t.Errorf("Expected default *HTTPAdapter, got %T", client.adapter)
	}
}

func TestDefaultsReturnsCopy(t *testing.T) {
	client := New()

	defaults := client.Defaults()
	defaults.Timeout = 1
	defaults.Headers.Group(HeaderGroupCommon).Set(HeaderAccept, "text/html")

	if client.defaults.Timeout != DefaultTimeout {
		t.Error("Defaults() leaked the client timeout")
	}
	if client.defaults.Headers.Group(HeaderGroupCommon).Get(HeaderAccept) != DefaultAccept {
		t.Error("Defaults() leaked the client headers")
	}
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET method, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(testResponseBody)); err != nil {
			t.Fatalf(failedWriteMsg, err)
		}
	}))
	defer server.Close()

	client := New()
	resp, err := client.Get(context.Background(), server.URL, nil)

	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}

	if resp.Status != http.StatusOK {
		t.Errorf(expectedStatus200Msg, resp.Status)
	}

	body, ok := resp.Data.([]byte)
	if !ok || string(body) != testResponseBody {
		t.Errorf("Expected '%s', got %v", testResponseBody, resp.Data)
	}
}

func TestDefaultUserAgent(t *testing.T) {
	agents := make(chan string, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if _, err := New().Get(context.Background(), server.URL, nil); err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if got := <-agents; got != UserAgent() {
		t.Errorf("Expected User-Agent %q, got %q", UserAgent(), got)
	}
	if UserAgent() != "kurir/"+strings.TrimPrefix(Version, "v") {
		t.Errorf("Unexpected UserAgent(): %q", UserAgent())
	}

	custom := New(WithHeader("User-Agent", "inventory-sync/2.3"))
	if _, err := custom.Get(context.Background(), server.URL, nil); err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if got := <-agents; got != "inventory-sync/2.3" {
		t.Errorf("Expected overridden User-Agent, got %q", got)
	}
}

func TestPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != ContentTypeJSON {
			t.Errorf("Expected Content-Type %s, got %s", ContentTypeJSON, r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"test":"data"}` {
			t.Errorf("Unexpected body %s", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New()
	resp, err := client.Post(context.Background(), server.URL, map[string]string{"test": "data"}, nil)

	if err != nil {
		t.Fatalf("Post() returned error: %v", err)
	}

	if resp.Status != http.StatusOK {
		t.Errorf(expectedStatus200Msg, resp.Status)
	}
}

func TestVerbsSetMethod(t *testing.T) {
	adapter := &recordingAdapter{}
	client := New(WithAdapter(adapter))
	ctx := context.Background()

	testCases := []struct {
		method string
		call   func() (*Response, error)
	}{
		{"get", func() (*Response, error) { return client.Get(ctx, "http://example.com", nil) }},
		{"delete", func() (*Response, error) { return client.Delete(ctx, "http://example.com", nil) }},
		{"head", func() (*Response, error) { return client.Head(ctx, "http://example.com", nil) }},
		{"options", func() (*Response, error) { return client.Options(ctx, "http://example.com", nil) }},
		{"post", func() (*Response, error) { return client.Post(ctx, "http://example.com", "x", nil) }},
		{"put", func() (*Response, error) { return client.Put(ctx, "http://example.com", "x", nil) }},
		{"patch", func() (*Response, error) { return client.Patch(ctx, "http://example.com", "x", nil) }},
	}

	for _, tc := range testCases {
		if _, err := tc.call(); err != nil {
			t.Fatalf("%s returned error: %v", tc.method, err)
		}
		if got := adapter.last().Method; got != tc.method {
			t.Errorf("Expected method %s, got %s", tc.method, got)
		}
	}
}

func TestVerbOverridesConfig(t *testing.T) {
	adapter := &recordingAdapter{}
	client := New(WithAdapter(adapter))

	config := &RequestConfig{URL: "http://ignored.example.com", Method: "put", Data: "ignored"}
	if _, err := client.Post(context.Background(), "http://example.com", "kept", config); err != nil {
		t.Fatalf("Post() returned error: %v", err)
	}

	sent := adapter.last()
	if sent.URL != "http://example.com" || sent.Method != "post" || sent.Data != "kept" {
		t.Errorf("Unexpected config sent: %+v", sent)
	}
	if config.URL != "http://ignored.example.com" {
		t.Error("Caller config was mutated")
	}
}

func BenchmarkClientGet(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(testResponseBody))
	}))
	defer server.Close()

	client := New()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.Get(ctx, server.URL, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDispatchWithInterceptors(b *testing.B) {
	client := New(WithAdapter(AdapterFunc(func(context.Context, *RequestConfig) (*Response, error) {
		return &Response{Data: []byte(`{"ok":true}`), Status: http.StatusOK}, nil
	})))
	for i := 0; i < 4; i++ {
		client.Interceptors().Request.Use(noopRequest, nil)
		client.Interceptors().Response.Use(func(ctx context.Context, resp *Response) (*Response, error) {
			return resp, nil
		}, nil)
	}
	ctx := context.Background()
	config := &RequestConfig{URL: "http://example.com", Data: map[string]int{"a": 1}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.Request(ctx, config); err != nil {
			b.Fatal(err)
		}
	}
}
