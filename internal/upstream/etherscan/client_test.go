package etherscan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_TxList(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "transactions",
			body:      `{"status":"1","message":"OK","result":[{"hash":"0x1","from":"0xa","to":"0xb","value":"1000","timeStamp":"1704067200","isError":"0"}]}`,
			wantCount: 1,
		},
		{
			name:      "no transactions",
			body:      `{"status":"0","message":"No transactions found","result":[]}`,
			wantCount: 0,
		},
		{
			name:    "invalid key",
			body:    `{"status":"0","message":"NOTOK","result":"Invalid API Key"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				assert.Equal(t, "8453", q.Get("chainid"))
				assert.Equal(t, "txlist", q.Get("action"))
				assert.Equal(t, "desc", q.Get("sort"))
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, RateLimitPerSec: 100})
			txs, err := c.TxList(context.Background(), 8453, "0xabc", 1, 25)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Invalid API Key")
				return
			}
			require.NoError(t, err)
			assert.Len(t, txs, tt.wantCount)
		})
	}
}
