package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stroymet/catalog-ingest/internal/fetcher"
)

const (
	userAgent      = "test-agent/0.0.0"
	acceptLanguage = "ru-RU,ru;q=0.9"
	response       = "<html><body>hello</body></html>"
)

func TestUnitFetchPage(t *testing.T) {
	wantHeaders := map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml",
		"Accept-Language": acceptLanguage,
	}

	tests := map[string]struct {
		serverHandler http.Handler
		wantBody      string
		wantErr       error
	}{
		"ok": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				validateHeaders(t, req.Header, wantHeaders)
				wrt.Write([]byte(response))
			}),
			wantBody: response,
		},
		"not found error": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				wrt.WriteHeader(http.StatusNotFound)
			}),
			wantErr: fetcher.ErrBadStatus,
		},
		"server error": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				wrt.WriteHeader(http.StatusInternalServerError)
			}),
			wantErr: fetcher.ErrBadStatus,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(tt.serverHandler)
			t.Cleanup(func() {
				srv.Close()
			})

			fet := fetcher.NewFetcher(srv.Client(), userAgent, acceptLanguage)
			body, err := fet.FetchPage(context.TODO(), srv.URL+"/catalog/")

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, string(body), "should return correct body")
			}
		})
	}
}

func TestUnitFetchPageTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {}))
	url := srv.URL
	srv.Close()

	fet := fetcher.NewFetcher(http.DefaultClient, userAgent, acceptLanguage)
	body, err := fet.FetchPage(context.TODO(), url)

	require.Error(t, err, "should return error for closed server")
	assert.Nil(t, body, "shouldn't return body")
}

func validateHeaders(t *testing.T, headers http.Header, expected map[string]string) {
	t.Helper()

	for header, expectedValue := range expected {
		assert.Equalf(t, expectedValue, headers.Get(header), "request should contain correct value for header %s", header)
	}
}
