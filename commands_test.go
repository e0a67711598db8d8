package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/stretchr/testify/require"
)

const (
	testPublicKey = "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"
	testTxHash    = "a1075db55d416d3ca199f55b6084e2115b9345e16c5cf302fc80e9d5fbf5d48d"
)

func TestClaimIDCommand(t *testing.T) {
	root := rootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{
		"claim-id",
		"--asset", "btc",
		"--public-key", testPublicKey,
		"--value", "100000000",
		"--duration", "4320",
		"--tx-hash", testTxHash,
	})
	require.NoError(t, root.Execute())

	public, err := lockdrop.PublicKeyFromHex(testPublicKey)
	require.NoError(t, err)
	txHash, err := lockdrop.HashFromHex(testTxHash)
	require.NoError(t, err)
	params := lockdrop.Lockdrop{
		Asset:           lockdrop.Bitcoin,
		PublicKey:       public,
		Value:           uint256.NewInt(100_000_000),
		Duration:        4320,
		TransactionHash: txHash,
	}
	id, err := params.ID()
	require.NoError(t, err)
	require.Equal(t, id.String(), strings.TrimSpace(out.String()))
}

func TestClaimIDCommandRejectsBadFlags(t *testing.T) {
	type TestCase struct {
		name string
		args []string
	}

	cases := []*TestCase{
		{name: "unknown asset", args: []string{"--asset", "doge", "--public-key", testPublicKey, "--tx-hash", testTxHash}},
		{name: "short public key", args: []string{"--public-key", "02abcd", "--tx-hash", testTxHash}},
		{name: "bad value", args: []string{"--public-key", testPublicKey, "--tx-hash", testTxHash, "--value", "-1"}},
		{name: "missing tx hash", args: []string{"--public-key", testPublicKey}},
	}

	for _, tc := range cases {
		root := rootCommand()
		root.SetOut(&bytes.Buffer{})
		root.SetArgs(append([]string{"claim-id"}, tc.args...))
		require.Error(t, root.Execute(), tc.name)
	}
}

func TestKeygenCommand(t *testing.T) {
	root := rootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"keygen"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "secret: ")
	require.Contains(t, out.String(), "public: 0")
}

func TestBlockcypherChain(t *testing.T) {
	require.Equal(t, "main", blockcypherChain("mainnet"))
	require.Equal(t, "test3", blockcypherChain("testnet"))
}

func TestSetAuthoritiesCommand(t *testing.T) {
	var params map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req struct {
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		require.Equal(t, "ReplaceAuthorities", req.Method)
		require.NoError(t, json.Unmarshal(req.Params, &params))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"height":12}}`))
	}))
	defer srv.Close()

	root := rootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"set-authorities", "--node", srv.URL, "--authorities", testPublicKey + "," + testPublicKey})
	require.NoError(t, root.Execute())
	require.Equal(t, "2 authorities take effect at block 12", strings.TrimSpace(out.String()))
	require.Equal(t, []string{testPublicKey, testPublicKey}, params["authorities"])
}

func TestSetAuthoritiesCommandRejectsBadKey(t *testing.T) {
	root := rootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"set-authorities", "--node", "http://127.0.0.1:1", "--authorities", "02abcd"})
	require.Error(t, root.Execute())
}
