package keystore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
)

var ErrBadSignature = errors.New("signature verification failed")

// Key is a local authority signing key.
type Key struct {
	priv   *btcec.PrivateKey
	public lockdrop.AuthorityID
}

func newKey(priv *btcec.PrivateKey) *Key {
	k := &Key{priv: priv}
	copy(k.public[:], priv.PubKey().SerializeCompressed())
	return k
}

func Generate() (*Key, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return newKey(priv), nil
}

// FromHex parses a hex encoded 32 byte secp256k1 secret.
func FromHex(s string) (*Key, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, err
	}
	if len(b) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("secret key must be %d bytes, got %d", btcec.PrivKeyBytesLen, len(b))
	}
	priv, _ := btcec.PrivKeyFromBytes(b)
	return newKey(priv), nil
}

func (k *Key) Public() lockdrop.AuthorityID {
	return k.public
}

func (k *Key) Hex() string {
	return hex.EncodeToString(k.priv.Serialize())
}

// Sign returns a DER encoded ECDSA signature of digest.
func (k *Key) Sign(digest lockdrop.Hash) []byte {
	return ecdsa.Sign(k.priv, digest[:]).Serialize()
}

// Verify checks a DER signature of digest against a compressed public key.
func Verify(public lockdrop.AuthorityID, digest lockdrop.Hash, sig []byte) error {
	pub, err := btcec.ParsePubKey(public[:])
	if err != nil {
		return fmt.Errorf("invalid authority key: %w", err)
	}
	signature, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}
	if !signature.Verify(digest[:], pub) {
		return ErrBadSignature
	}
	return nil
}

// LocalAuthority is a local key that is a member of the authority set.
type LocalAuthority struct {
	Key   *Key
	Index lockdrop.AuthorityIndex
}

// KeyStore holds the authority keys of this node.
type KeyStore struct {
	keys []*Key
}

// Load parses a comma separated list of hex secrets.
func Load(list string) (*KeyStore, error) {
	ks := &KeyStore{}
	for _, s := range strings.Split(list, ",") {
		if strings.TrimSpace(s) == "" {
			continue
		}
		k, err := FromHex(s)
		if err != nil {
			return nil, fmt.Errorf("could not load authority key: %w", err)
		}
		ks.keys = append(ks.keys, k)
	}
	return ks, nil
}

func New(keys ...*Key) *KeyStore {
	return &KeyStore{keys: keys}
}

func (ks *KeyStore) Keys() []*Key {
	return ks.keys
}

// Intersect returns the local keys present in set with their index.
func (ks *KeyStore) Intersect(set lockdrop.AuthoritySet) []LocalAuthority {
	var local []LocalAuthority
	for _, k := range ks.keys {
		if idx, ok := set.IndexOf(k.Public()); ok {
			local = append(local, LocalAuthority{Key: k, Index: idx})
		}
	}
	return local
}
