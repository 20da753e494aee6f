package ethnode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rpcServer(t *testing.T, chainID string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eth_chainId", req.Method)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  chainID,
		})
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestNew(t *testing.T) {
	srv := rpcServer(t, "0x14a34")

	n, err := New(context.Background(), srv.URL, ConnAttempts(1))
	require.NoError(t, err)
	defer n.Close()

	assert.Equal(t, int64(84532), n.ChainID.Int64())
}

func TestNew_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(context.Background(), srv.URL, ConnAttempts(2), ConnTimeout(time.Millisecond))
	assert.Error(t, err)
}
