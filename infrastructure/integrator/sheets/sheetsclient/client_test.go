package sheetsclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/vfg2006/oea-pipeline/internal/config"
)

func newTestClient(t *testing.T, maxRetries int, handler http.HandlerFunc) Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	service, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	cfg := &config.Config{API: config.API{MaxRetries: maxRetries}}
	return NewClientWithService(cfg, service)
}

func TestSheetsClient_GetValues(t *testing.T) {
	client := newTestClient(t, 1, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/spreadsheets/origem/values/BD_Carteira!A3:AN3", r.URL.Path)
		assert.Equal(t, "UNFORMATTED_VALUE", r.URL.Query().Get("valueRenderOption"))
		assert.Equal(t, "SERIAL_NUMBER", r.URL.Query().Get("dateTimeRenderOption"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"range":"BD_Carteira!A3:AN3","values":[["Data","Obra",45721]]}`)
	})

	resp, err := client.GetValues(context.Background(), "origem", "BD_Carteira!A3:AN3", "UNFORMATTED_VALUE", "SERIAL_NUMBER")
	require.NoError(t, err)
	require.Len(t, resp.Values, 1)
	assert.Equal(t, "Obra", resp.Values[0][1])
	assert.Equal(t, float64(45721), resp.Values[0][2])
}

func TestSheetsClient_UpdateValuesRetries(t *testing.T) {
	var calls int32
	client := newTestClient(t, 6, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))

		var body sheets.ValueRange
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "A3:AN4", body.Range)
		assert.Len(t, body.Values, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"updatedRows":2}`)
	})

	err := client.UpdateValues(context.Background(), "destino", "A3:AN4", [][]any{{"a"}, {"b"}}, "RAW")
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSheetsClient_BatchClearExhausted(t *testing.T) {
	var calls int32
	client := newTestClient(t, 2, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.BatchClear(context.Background(), "destino", []string{"A:AN"})
	assert.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
