package description

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	c := NewClient()
	c.UserAgent = "linux/amd64 UPnP/2.0 ssdpscan/test"
	c.SetRetry(2, time.Millisecond)
	return c
}

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should not be nil")
	}
	if client.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, DefaultTimeout)
	}
	if client.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", client.MaxRetries, DefaultMaxRetries)
	}
	if !client.UseExponentialBackoff {
		t.Error("UseExponentialBackoff should be enabled by default")
	}
	if !strings.Contains(client.UserAgent, "ssdpscan/") {
		t.Errorf("UserAgent = %q, want the product token", client.UserAgent)
	}
}

func TestDescribe_Success(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/desc/root.xml", r.URL.Path)
		w.Header().Set("Content-Type", `text/xml; charset="utf-8"`)
		_, _ = w.Write([]byte(renderer))
	}))
	defer server.Close()

	desc, err := testClient().Describe(context.Background(), server.URL+"/desc/root.xml")
	require.NoError(t, err)
	assert.Equal(t, "Living Room TV", desc.Device.FriendlyName)
	assert.Equal(t, "linux/amd64 UPnP/2.0 ssdpscan/test", gotAgent)
}

func TestDescribe_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(renderer))
	}))
	defer server.Close()

	desc, err := testClient().Describe(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Acme", desc.Device.Manufacturer)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDescribe_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient().Describe(context.Background(), server.URL)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrTypeHTTP, fe.Type)
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDescribe_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := testClient().Describe(context.Background(), server.URL+"/missing.xml")

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.False(t, fe.Retryable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDescribe_ParseError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`<root><device><deviceType>bogus</deviceType></device></root>`))
	}))
	defer server.Close()

	_, err := testClient().Describe(context.Background(), server.URL)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrTypeParse, fe.Type)
	var field *FieldError
	assert.ErrorAs(t, err, &field)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDescribe_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	location := server.URL + "/root.xml"
	server.Close()

	client := testClient()
	client.MaxRetries = 0

	_, err := client.Describe(context.Background(), location)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrTypeConnectionRefused, fe.Type)
	assert.Equal(t, location, fe.Location)
}

func TestDescribe_InvalidLocation(t *testing.T) {
	for _, location := range []string{"", "/desc.xml", "ftp://192.168.7.1/desc.xml", "http://"} {
		t.Run(location, func(t *testing.T) {
			_, err := testClient().Describe(context.Background(), location)

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, ErrTypeInvalidURL, fe.Type)
		})
	}
}

func TestDescribe_ContextCancelStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient()
	client.MaxRetries = 10
	client.RetryDelay = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Describe(ctx, server.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
