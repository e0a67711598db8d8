package utils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRPCCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Version string          `json:"jsonrpc"`
			Method  string          `json:"method"`
			Params  json.RawMessage `json:"params"`
			ID      uint64          `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "2.0", req.Version)
		require.Equal(t, "lockdrop.Echo", req.Method)
		io.WriteString(w, `{"jsonrpc":"2.0","result":`+string(req.Params)+`,"id":1}`)
	}))
	defer srv.Close()

	client := NewHttpClient(srv.URL)
	var res struct {
		Result map[string]string `json:"result"`
	}
	err := client.RPCCall(context.Background(), "lockdrop.Echo", map[string]string{"a": "b"}, &res)
	require.NoError(t, err)
	require.Equal(t, "b", res.Result["a"])
}

func TestSendSlackNotification(t *testing.T) {
	var got SlackRequestBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	require.NoError(t, SendSlackNotification(srv.URL, "claim failed"))
	require.Equal(t, "claim failed", got.Text)
	require.NoError(t, SendSlackNotification("", "dropped"))
}
