package journalhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"tradenote/internal/importer"
	"tradenote/internal/journal"
	"tradenote/internal/store"
	"tradenote/internal/store/history"
	"tradenote/internal/store/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `Order history export
Completed Orders,
Account,Status,Buy/Sell,Symbol,Avg Fill Price,Order Number,Create Time,Update Time,Qty Filled
demo,Filled,B,ESM4,5100.00,1001,2024/03/11 09:30:00,,2
demo,Filled,S,ESM4,5105.00,1002,2024/03/11 09:45:00,,1
demo,Filled,S,ESM4,5110.00,1004,2024/03/11 10:15:00,,1
`

func newTestServer(t *testing.T) (*Server, store.TradeStore) {
	t.Helper()
	dir := t.TempDir()
	trades, err := sqlite.NewSqliteStore(filepath.Join(dir, "trades.db"))
	require.NoError(t, err)
	hist, err := history.NewStore(filepath.Join(dir, "imports.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = trades.Close()
		_ = hist.Close()
	})
	svc, err := importer.NewService(importer.Config{Trades: trades, History: hist, Format: journal.DefaultFormat()})
	require.NoError(t, err)
	srv, err := NewServer(ServerConfig{
		Addr:     ":0",
		Importer: svc,
		Trades:   trades,
		History:  hist,
	})
	require.NoError(t, err)
	return srv, trades
}

func multipartBody(t *testing.T, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range filenames {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = io.Copy(part, strings.NewReader(sampleExport))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func importSample(t *testing.T, srv *Server, user string, filenames ...string) {
	t.Helper()
	body, contentType := multipartBody(t, filenames...)
	req := httptest.NewRequest(http.MethodPost, "/api/journal/imports", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", user)
	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestImportEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	body, contentType := multipartBody(t, "day1.csv")
	req := httptest.NewRequest(http.MethodPost, "/api/journal/imports", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", "u1")
	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Results []struct {
			Filename string `json:"filename"`
			OK       bool   `json:"ok"`
			Outcome  *struct {
				Record struct {
					Trades int `json:"trades"`
					Fills  int `json:"fills"`
				} `json:"record"`
			} `json:"outcome"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].OK)
	require.NotNil(t, resp.Results[0].Outcome)
	assert.Equal(t, 2, resp.Results[0].Outcome.Record.Trades)
	assert.Equal(t, 3, resp.Results[0].Outcome.Record.Fills)
}

func TestImportRequiresUserID(t *testing.T) {
	srv, _ := newTestServer(t)
	body, contentType := multipartBody(t, "day1.csv")
	req := httptest.NewRequest(http.MethodPost, "/api/journal/imports", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportRejectsEmptyForm(t *testing.T) {
	srv, _ := newTestServer(t)
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/journal/imports", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-User-ID", "u1")
	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTrades(t *testing.T) {
	srv, _ := newTestServer(t)
	importSample(t, srv, "u1", "day1.csv")

	req := httptest.NewRequest(http.MethodGet, "/api/journal/trades?user_id=u1", nil)
	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Trades []struct {
			ID     string  `json:"id"`
			Symbol string  `json:"symbol"`
			Side   string  `json:"side"`
			PnL    float64 `json:"profit_loss"`
		} `json:"trades"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Trades, 2)
	assert.Equal(t, "ESM4", resp.Trades[0].Symbol)
}

func TestTradesIsolatedPerUser(t *testing.T) {
	srv, _ := newTestServer(t)
	importSample(t, srv, "u1", "day1.csv")

	req := httptest.NewRequest(http.MethodGet, "/api/journal/trades?user_id=u2", nil)
	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Total)
}

func TestUpdateStrategy(t *testing.T) {
	srv, trades := newTestServer(t)
	importSample(t, srv, "u1", "day1.csv")

	stored, err := trades.ListTrades(context.Background(), store.TradeFilter{UserID: "u1"})
	require.NoError(t, err)
	require.NotEmpty(t, stored)

	payload := bytes.NewBufferString(`{"strategy":"breakout"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/journal/trades/"+stored[0].ID+"/strategy?user_id=u1", payload)
	req.Header.Set("Content-Type", "application/json")
	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUpdateStrategyNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	payload := bytes.NewBufferString(`{"strategy":"breakout"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/journal/trades/nope/strategy?user_id=u1", payload)
	req.Header.Set("Content-Type", "application/json")
	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	importSample(t, srv, "u1", "day1.csv")

	req := httptest.NewRequest(http.MethodGet, "/api/journal/analytics/summary?user_id=u1", nil)
	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Trades  int     `json:"trades"`
		Wins    int     `json:"wins"`
		WinRate float64 `json:"win_rate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.Trades)
	assert.Equal(t, 2, summary.Wins)
	assert.InDelta(t, 1.0, summary.WinRate, 1e-9)

	req = httptest.NewRequest(http.MethodGet, "/api/journal/analytics/equity?user_id=u1", nil)
	rec = doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var equity struct {
		Equity []struct {
			Date       string  `json:"date"`
			Cumulative float64 `json:"cumulative"`
		} `json:"equity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &equity))
	require.Len(t, equity.Equity, 1)
	assert.Equal(t, "2024-03-11", equity.Equity[0].Date)
	assert.InDelta(t, 15.0, equity.Equity[0].Cumulative, 1e-9)

	req = httptest.NewRequest(http.MethodGet, "/api/journal/analytics/breakdown?user_id=u1&by=symbol", nil)
	rec = doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/journal/analytics/breakdown?user_id=u1&by=moon", nil)
	rec = doRequest(srv, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportHistoryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	importSample(t, srv, "u1", "day1.csv", "day2.csv")

	req := httptest.NewRequest(http.MethodGet, "/api/journal/imports?user_id=u1", nil)
	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Imports []struct {
			Filename string `json:"filename"`
		} `json:"imports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Imports, 2)
}

func TestDeleteImport(t *testing.T) {
	srv, _ := newTestServer(t)
	importSample(t, srv, "u1", "day1.csv")

	req := httptest.NewRequest(http.MethodDelete, "/api/journal/imports/day1.csv?user_id=u1", nil)
	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Deleted)

	req = httptest.NewRequest(http.MethodGet, "/api/journal/trades?user_id=u1", nil)
	rec = doRequest(srv, req)
	var list struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Zero(t, list.Total)
}
