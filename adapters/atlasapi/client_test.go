package atlasapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "atlasdash/internal/errors"
	"atlasdash/ports"
)

func shortTimeouts() Timeouts {
	return Timeouts{
		Metadata:  200 * time.Millisecond,
		Aggregate: 200 * time.Millisecond,
		DE:        200 * time.Millisecond,
	}
}

func TestNew_StripsTrailingSlashes(t *testing.T) {
	c := New("https://api.example.org///")
	assert.Equal(t, "https://api.example.org", c.Base())
}

func TestClient_RetriesOnceOnTransportFailure(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			// Kill the connection so the client sees a transport failure
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"genes":["CD3E","MS4A1"]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeouts(shortTimeouts()))
	genes, err := c.Markers(context.Background(), "tcell")
	require.NoError(t, err)
	assert.Equal(t, []string{"CD3E", "MS4A1"}, genes)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts), "exactly one retry, not two")
}

func TestClient_NoRetryOnHTTPStatus(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"ok":false,"error":"aggregation failed"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeouts(shortTimeouts()))
	_, err := c.Manifest(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUpstreamStatus, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "aggregation failed")
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "non-2xx must not be retried")
}

func TestClient_TimeoutMessage(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeouts(shortTimeouts()))
	_, err := c.Composition(context.Background(), "disease")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeTimeout, apperrors.GetCode(err))
	assert.Equal(t, "request timed out", apperrors.UserMessage(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts), "timeout gets the single retry")
}

func TestClient_NoRetryOnCallerCancel(t *testing.T) {
	var attempts int32
	started := make(chan struct{}, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		started <- struct{}{}
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := New(srv.URL, WithTimeouts(shortTimeouts()))
	_, err := c.Manifest(ctx)
	require.Error(t, err)
	assert.False(t, retryable(err), "caller cancellation must not be retryable")
	assert.NotEqual(t, apperrors.CodeTimeout, apperrors.GetCode(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "canceled call must not be retried")
}

func TestClient_ApplicationLevelRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"error":"unknown panel"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeouts(shortTimeouts()))
	_, err := c.Markers(context.Background(), "nonsense")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUpstreamReject, apperrors.GetCode(err))
	assert.Equal(t, "unknown panel", apperrors.UserMessage(err))
}

func TestClient_QueryParameters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"ok":true,"rows":[],"top_up":[],"top_down":[],"total":0}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeouts(shortTimeouts()))
	table, err := c.DEByDisease(context.Background(), ports.DEQuery{
		Disease:  "RA",
		CellType: "T cells",
		Limit:    50,
		Offset:   100,
		TopN:     5,
	})
	require.NoError(t, err)
	assert.Equal(t, "RA", table.Disease)
	assert.Contains(t, gotQuery, "disease=RA")
	assert.Contains(t, gotQuery, "cell_type=T+cells")
	assert.Contains(t, gotQuery, "limit=50")
	assert.Contains(t, gotQuery, "offset=100")
	assert.Contains(t, gotQuery, "top_n=5")
}

func TestClient_ParsesDotplot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CD3E,MS4A1", r.URL.Query().Get("genes"))
		w.Write([]byte(`{
			"ok": true,
			"genes": ["CD3E","MS4A1"],
			"groups": ["T cells"],
			"values": {"CD3E": {"T cells": {"avg": 2.5, "pct": 0.9}},
			           "MS4A1": {"T cells": {"avg": 0.1, "pct": 0.05}}}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeouts(shortTimeouts()))
	d, err := c.Dotplot(context.Background(), []string{"CD3E", "MS4A1"}, "cell_type")
	require.NoError(t, err)
	assert.Equal(t, 2.5, d.Values["CD3E"]["T cells"].Avg)
	assert.Equal(t, 0.05, d.Values["MS4A1"]["T cells"].Pct)
}

func TestClient_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true, "diseases": "not-an-array"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeouts(shortTimeouts()))
	_, err := c.Manifest(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBadPayload, apperrors.GetCode(err))
}
