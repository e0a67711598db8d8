package metadata

import (
	"encoding/hex"
	"encoding/json"

	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"golang.org/x/crypto/blake2b"
)

const (
	LockdropVoteMeta = 301
	LockdropRateMeta = 302
)

// Submission is an unsigned extrinsic carrying an authority signature.
type Submission interface {
	GetType() int
	// Payload is the canonical encoding of the call arguments.
	Payload() []byte
	// Hash is the digest the authority signs.
	Hash() lockdrop.Hash
	GetSignature() []byte
	AuthorityIndex() lockdrop.AuthorityIndex
	CalculateSize() uint64
}

type MetadataBase struct {
	Type int
}

func (mb MetadataBase) GetType() int {
	return mb.Type
}

func (mb MetadataBase) prefix() []byte {
	return []byte{byte(mb.Type >> 8), byte(mb.Type)}
}

func digest(mb MetadataBase, payload []byte) lockdrop.Hash {
	return blake2b.Sum256(append(mb.prefix(), payload...))
}

// Tag identifies a submission for deduplication, independent of signature.
func Tag(s Submission) string {
	return hex.EncodeToString(append(MetadataBase{Type: s.GetType()}.prefix(), s.Payload()...))
}

func calculateSize(meta interface{}) uint64 {
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return 0
	}
	return uint64(len(metaBytes))
}
