package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/starledger/foundation/ledger/signature"
)

// GenesisData is the sentinel payload stored in the body of block 0.
const GenesisData = "Genesis Block"

// ErrInvalidBody is returned from DecodeBody when a block body is not a
// valid payload encoding.
var ErrInvalidBody = errors.New("block body is not a valid payload encoding")

// =============================================================================

// Payload represents the decoded form of a block body. Payloads stored via
// the ownership path carry an "owner" field equal to the claiming address.
type Payload map[string]any

// EncodeBody serializes a payload into the canonical byte form stored in a
// block body. The encoding is reversible via DecodeBody.
func EncodeBody(payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	return body, nil
}

// DecodeBody is the inverse of EncodeBody. It is pure and never mutates the
// block it reads from.
func DecodeBody(body []byte) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBody, err)
	}

	return payload, nil
}

// =============================================================================

// BlockHeader represents the common information sealed into each block.
type BlockHeader struct {
	Number        uint64 `json:"number"`                    // Height of this block in the chain.
	TimeStamp     uint64 `json:"timestamp"`                 // Time the block was appended.
	PrevBlockHash string `json:"prev_block_hash,omitempty"` // Hash of the previous block in the chain. Empty only for the genesis block.
}

// Block represents a single ownership claim sealed into the chain.
type Block struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"header"`
	Body   []byte      `json:"body"`
}

// ComputeHash returns the unique hash for the Block. The stored Hash field is
// never part of the hashed form, so the result is stable no matter when it
// is recomputed.
func (b Block) ComputeHash() string {
	data := struct {
		Header BlockHeader `json:"header"`
		Body   []byte      `json:"body"`
	}{
		Header: b.Header,
		Body:   b.Body,
	}

	return signature.Hash(data)
}

// Validate recomputes the block's hash and compares it to the sealed hash.
// It returns true iff the block has not been mutated since it was appended.
func (b Block) Validate() bool {
	return b.Hash == b.ComputeHash()
}
