package unisat_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/brc20dash/internal/infra/gateway/unisat"
	"github.com/kislikjeka/brc20dash/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("development", io.Discard)
}

func newTestClient(serverURL string) *unisat.Client {
	client := unisat.NewClient(unisat.Config{APIKey: "test-api-key"}, testLogger())
	client.SetBaseURL(serverURL)
	return client
}

// writeEnvelope writes a successful history envelope with n generated events
func writeEnvelope(w http.ResponseWriter, start, n int) {
	detail := make([]map[string]interface{}, n)
	for i := range detail {
		detail[i] = map[string]interface{}{
			"txid":      fmt.Sprintf("tx-%d", start+i),
			"from":      "bc1from",
			"to":        "bc1to",
			"amount":    "1.5",
			"blocktime": 1718452800,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code": 0,
		"msg":  "ok",
		"data": map[string]interface{}{
			"height": 850000,
			"total":  1000,
			"start":  start,
			"detail": detail,
		},
	})
}

// =============================================================================
// Request Shape Tests
// =============================================================================

func TestClient_AuthHeader(t *testing.T) {
	var receivedAuth, receivedAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		receivedAccept = r.Header.Get("Accept")
		writeEnvelope(w, 0, 0)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetHistoryPage(context.Background(), "buy", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-api-key", receivedAuth)
	assert.Equal(t, "application/json", receivedAccept)
}

func TestClient_PathAndQueryParams(t *testing.T) {
	var receivedPath string
	var receivedQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		receivedQuery = r.URL.Query()
		writeEnvelope(w, 200, 0)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetHistoryPage(context.Background(), "sell", 200, 50)
	require.NoError(t, err)

	assert.Equal(t, "/TRAC/history", receivedPath)
	assert.Equal(t, []string{"sell"}, receivedQuery["type"])
	assert.Equal(t, []string{"200"}, receivedQuery["start"])
	assert.Equal(t, []string{"50"}, receivedQuery["limit"])
}

func TestClient_CustomTicker(t *testing.T) {
	var receivedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		writeEnvelope(w, 0, 0)
	}))
	defer server.Close()

	client := unisat.NewClient(unisat.Config{APIKey: "k", Ticker: "ORDI", BaseURL: server.URL}, testLogger())
	assert.Equal(t, "ORDI", client.Ticker())

	_, err := client.GetHistoryPage(context.Background(), "buy", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, "/ORDI/history", receivedPath)
}

// =============================================================================
// Response Decoding Tests
// =============================================================================

func TestClient_DecodesPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 100, 3)
	}))
	defer server.Close()

	page, err := newTestClient(server.URL).GetHistoryPage(context.Background(), "buy", 100, 100)
	require.NoError(t, err)

	assert.Equal(t, 100, page.Start)
	assert.Equal(t, 100, page.Limit)
	assert.Equal(t, 1000, page.Total)
	assert.Equal(t, int64(850000), page.Height)
	require.Equal(t, 3, page.Len())
	assert.Contains(t, string(page.Detail[0]), `"txid":"tx-100"`)
}

func TestClient_EmptyDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"ok","data":{"height":1,"total":0,"start":0,"detail":[]}}`))
	}))
	defer server.Close()

	page, err := newTestClient(server.URL).GetHistoryPage(context.Background(), "buy", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Len())
}

// =============================================================================
// Error Tests
// =============================================================================

func TestClient_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`internal`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetHistoryPage(context.Background(), "buy", 0, 100)
	require.Error(t, err)
	assert.True(t, unisat.IsAPIError(err))
	assert.False(t, unisat.IsSchemaError(err))
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "internal")
}

func TestClient_NonZeroEnvelopeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":-1,"msg":"invalid api key","data":null}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetHistoryPage(context.Background(), "buy", 0, 100)
	require.Error(t, err)

	var apiErr *unisat.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, -1, apiErr.Code)
	assert.Equal(t, "invalid api key", apiErr.Message)
}

func TestClient_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing data", `{"code":0,"msg":"ok"}`},
		{"missing detail", `{"code":0,"msg":"ok","data":{"height":1,"total":0,"start":0}}`},
		{"null detail", `{"code":0,"msg":"ok","data":{"detail":null}}`},
		{"detail wrong type", `{"code":0,"msg":"ok","data":{"detail":"none"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).GetHistoryPage(context.Background(), "buy", 0, 100)
			require.Error(t, err)
			assert.True(t, unisat.IsSchemaError(err))
			assert.False(t, unisat.IsAPIError(err))
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).GetHistoryPage(context.Background(), "buy", 0, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute request")
	assert.False(t, unisat.IsSchemaError(err))
}

func TestClient_Timeout(t *testing.T) {
	var requestCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requestCount, 1)
		time.Sleep(200 * time.Millisecond)
		writeEnvelope(w, 0, 0)
	}))
	defer server.Close()

	client := unisat.NewClient(unisat.Config{APIKey: "k", BaseURL: server.URL, Timeout: 20 * time.Millisecond}, testLogger())

	_, err := client.GetHistoryPage(context.Background(), "buy", 0, 100)
	require.Error(t, err)
	// no retry on failure
	assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
}

func TestClient_ContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, 0)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).GetHistoryPage(ctx, "buy", 0, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
