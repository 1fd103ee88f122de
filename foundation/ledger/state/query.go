package state

import (
	"strings"

	"github.com/ardanlabs/starledger/foundation/ledger/database"
	"github.com/ardanlabs/starledger/foundation/ledger/validator"
)

// QueryStarsByOwner returns the payloads of every block whose decoded body
// carries the specified address in its owner field, in ascending height
// order. A block whose body cannot be decoded is skipped, never aborting
// the scan.
func (s *State) QueryStarsByOwner(address string) []database.Payload {
	var stars []database.Payload

	for _, block := range s.db.CopyBlocks() {
		payload, err := database.DecodeBody(block.Body)
		if err != nil {
			s.evHandler("state: query stars: blk[%d]: skipping: %s", block.Header.Number, err)
			continue
		}

		owner, exists := payload["owner"].(string)
		if !exists || !strings.EqualFold(owner, address) {
			continue
		}

		stars = append(stars, payload)
	}

	return stars
}

// QueryBlockByHeight returns the block sealed at the specified height. The
// ok value reports whether such a block exists.
func (s *State) QueryBlockByHeight(num uint64) (database.Block, bool) {
	return s.db.GetBlock(num)
}

// QueryBlockByHash returns the block sealed with the specified hash. The ok
// value reports whether such a block exists.
func (s *State) QueryBlockByHash(hash string) (database.Block, bool) {
	return s.db.GetBlockByHash(hash)
}

// RetrieveLatestBlock returns the block at the tip of the chain.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// Height returns the current height of the chain.
func (s *State) Height() uint64 {
	return s.db.Height()
}

// ValidateChain walks the whole chain against a consistent snapshot and
// returns the integrity report.
func (s *State) ValidateChain() validator.Report {
	return validator.Validate(s.db.CopyBlocks())
}
