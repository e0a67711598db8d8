package lockdrop

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestLockdropEncoding(t *testing.T) {
	l := testLockdrop(7)
	l.Value = uint256.NewInt(0x0102)

	enc, err := l.Encode()
	require.NoError(t, err)
	require.Len(t, enc, lockdropEncodedLen)
	require.Equal(t, byte(Bitcoin), enc[0])
	// value is little endian
	require.Equal(t, []byte{0x02, 0x01, 0x00}, enc[34:37])

	decoded, err := DecodeLockdrop(enc)
	require.NoError(t, err)
	require.Equal(t, l.PublicKey, decoded.PublicKey)
	require.Equal(t, l.Duration, decoded.Duration)
	require.Equal(t, l.TransactionHash, decoded.TransactionHash)
	require.True(t, l.Value.Eq(decoded.Value))

	_, err = DecodeLockdrop(enc[1:])
	require.Error(t, err)
}

func TestLockdropEncodingRejectsWideValue(t *testing.T) {
	l := testLockdrop(7)
	l.Value = new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	_, err := l.Encode()
	require.Error(t, err)

	l = testLockdrop(7)
	l.Asset = Asset(9)
	_, err = l.ID()
	require.Error(t, err)
}

func TestClaimVoteEncoding(t *testing.T) {
	vote := ClaimVote{ClaimID: ClaimID{0xaa}, Approve: true, Authority: 0x0102}
	enc := vote.Encode()
	require.Len(t, enc, claimVoteEncodedLen)
	require.Equal(t, "01", hex.EncodeToString(enc[32:33]))
	require.Equal(t, "0201", hex.EncodeToString(enc[33:]))
}

func TestHashText(t *testing.T) {
	id := ClaimID{0xde, 0xad}
	b, err := json.Marshal(id)
	require.NoError(t, err)

	var decoded ClaimID
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, id, decoded)

	_, err = HashFromHex("abcd")
	require.Error(t, err)
	_, err = PublicKeyFromHex(id.String())
	require.Error(t, err)
}

func TestParseAsset(t *testing.T) {
	asset, err := ParseAsset(" BTC ")
	require.NoError(t, err)
	require.Equal(t, Bitcoin, asset)
	asset, err = ParseAsset("ethereum")
	require.NoError(t, err)
	require.Equal(t, Ethereum, asset)
	_, err = ParseAsset("doge")
	require.Error(t, err)
}
