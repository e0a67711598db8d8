package utils

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/stretchr/testify/require"
)

func TestLockOutputScript(t *testing.T) {
	var public lockdrop.PublicKey
	public[0] = 0x02

	script, err := LockScript(public, 10)
	require.NoError(t, err)
	// OP_10 OP_CSV OP_DROP <33 bytes> OP_CHECKSIG
	require.Equal(t, byte(0x5a), script[0])
	require.Equal(t, byte(0xb2), script[1])
	require.Equal(t, byte(0x75), script[2])
	require.Equal(t, byte(33), script[3])
	require.Equal(t, byte(0xac), script[len(script)-1])

	out, err := LockOutputScript(public, 10)
	require.NoError(t, err)
	// OP_HASH160 <20 bytes> OP_EQUAL
	require.Len(t, out, 23)
	require.Equal(t, byte(0xa9), out[0])
	require.Equal(t, byte(0x87), out[22])

	other, err := LockOutputScript(public, 11)
	require.NoError(t, err)
	require.NotEqual(t, out, other)
}

func TestSatoshiFromBTC(t *testing.T) {
	v, err := SatoshiFromBTC(1.5)
	require.NoError(t, err)
	require.Equal(t, uint64(150_000_000), v.Uint64())

	_, err = SatoshiFromBTC(-1)
	require.Error(t, err)
}

func TestLockMethod(t *testing.T) {
	data, err := LockMethod(3600)
	require.NoError(t, err)
	require.Len(t, data, 36)
	require.Equal(t, "dd467064", hex.EncodeToString(data[:4]))
	require.Equal(t, byte(0x0e), data[34])
	require.Equal(t, byte(0x10), data[35])
}

func TestAddressFromPublic(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	var public lockdrop.PublicKey
	copy(public[:], priv.PubKey().SerializeCompressed())

	addr, err := AddressFromPublic(public)
	require.NoError(t, err)

	ecdsaKey, err := crypto.ToECDSA(priv.Serialize())
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(ecdsaKey.PublicKey), addr)
}
