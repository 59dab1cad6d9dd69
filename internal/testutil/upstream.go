package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// NewCoinGeckoServer serves /simple/price from a fixed USD price table.
// Other paths echo the query back so proxy tests can see what was forwarded.
func NewCoinGeckoServer(t *testing.T, prices map[string]float64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/simple/price" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"path":  r.URL.Path,
				"query": r.URL.Query(),
			})
			return
		}

		resp := make(map[string]map[string]float64)
		for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
			if p, ok := prices[id]; ok {
				resp[id] = map[string]float64{"usd": p}
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// WormholeScanServer answers /api/v1/operations from a tx hash to raw
// operation JSON table. Unknown hashes get an empty list.
type WormholeScanServer struct {
	*httptest.Server
	Calls atomic.Int32
}

func NewWormholeScanServer(t *testing.T, operations map[string]string) *WormholeScanServer {
	t.Helper()
	s := &WormholeScanServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Calls.Add(1)
		if r.URL.Path != "/api/v1/operations" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		op, ok := operations[r.URL.Query().Get("txHash")]
		if !ok {
			_, _ = w.Write([]byte(`{"operations":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"operations":[` + op + `]}`))
	}))
	t.Cleanup(s.Close)
	return s
}

// FailingServer answers every request with status.
func FailingServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(status), status)
	}))
	t.Cleanup(srv.Close)
	return srv
}
