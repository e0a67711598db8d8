package keystore

import (
	"strings"
	"testing"

	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	k, err := Generate()
	require.NoError(t, err)

	digest := lockdrop.Hash{1, 2, 3}
	sig := k.Sign(digest)
	require.NoError(t, Verify(k.Public(), digest, sig))

	require.ErrorIs(t, Verify(k.Public(), lockdrop.Hash{4}, sig), ErrBadSignature)

	other, err := Generate()
	require.NoError(t, err)
	require.ErrorIs(t, Verify(other.Public(), digest, sig), ErrBadSignature)

	require.Error(t, Verify(k.Public(), digest, []byte{0x30, 0x01}))
}

func TestLoadAndIntersect(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)
	outsider, err := Generate()
	require.NoError(t, err)

	ks, err := Load(strings.Join([]string{a.Hex(), " " + b.Hex(), ""}, ","))
	require.NoError(t, err)
	require.Len(t, ks.Keys(), 2)
	require.Equal(t, a.Public(), ks.Keys()[0].Public())

	set := lockdrop.AuthoritySet{outsider.Public(), b.Public()}
	local := ks.Intersect(set)
	require.Len(t, local, 1)
	require.Equal(t, b.Public(), local[0].Key.Public())
	require.Equal(t, lockdrop.AuthorityIndex(1), local[0].Index)

	_, err = Load("zz")
	require.Error(t, err)
	_, err = FromHex("0102")
	require.Error(t, err)
}
