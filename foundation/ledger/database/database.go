// Package database maintains the hash-chained block store for the star
// registry. The chain lives in memory using a slice protected for concurrent
// access, with the append path being the sole mutator.
package database

import (
	"fmt"
	"sync"
	"time"
)

// Database manages the ordered sequence of blocks and the current height.
type Database struct {
	mu     sync.RWMutex
	blocks []Block
	byHash map[string]uint64
}

// New constructs the block store and synchronously seals the genesis block
// so a chain is never observable in an empty state.
func New() (*Database, error) {
	db := Database{
		byHash: make(map[string]uint64),
	}

	body, err := EncodeBody(Payload{"data": GenesisData})
	if err != nil {
		return nil, err
	}

	genesisBlock := Block{
		Header: BlockHeader{
			Number:    0,
			TimeStamp: uint64(time.Now().UTC().Unix()),
		},
		Body: body,
	}
	genesisBlock.Hash = genesisBlock.ComputeHash()

	db.blocks = append(db.blocks, genesisBlock)
	db.byHash[genesisBlock.Hash] = 0

	return &db, nil
}

// Height returns the number of the latest block in the chain.
func (db *Database) Height() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[len(db.blocks)-1].Header.Number
}

// Append seals the specified body into a new block at the tip of the chain.
// Height assignment, previous-hash capture and hash computation happen as one
// atomic unit with respect to concurrent appenders.
func (db *Database) Append(body []byte) (Block, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	latest := db.blocks[len(db.blocks)-1]

	block := Block{
		Header: BlockHeader{
			Number:        latest.Header.Number + 1,
			TimeStamp:     uint64(time.Now().UTC().Unix()),
			PrevBlockHash: latest.Hash,
		},
		Body: body,
	}
	block.Hash = block.ComputeHash()

	// A violation here means the height counter and the slice disagree,
	// which is a defect, not a recoverable condition.
	if block.Header.Number != uint64(len(db.blocks)) {
		return Block{}, fmt.Errorf("block out of order: got %d, exp %d", block.Header.Number, len(db.blocks))
	}

	db.blocks = append(db.blocks, block)
	db.byHash[block.Hash] = block.Header.Number

	return block, nil
}

// LatestBlock returns the block at the tip of the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[len(db.blocks)-1]
}

// GetBlock returns the block sealed at the specified height. The ok value
// reports whether such a block exists.
func (db *Database) GetBlock(num uint64) (Block, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if num >= uint64(len(db.blocks)) {
		return Block{}, false
	}

	return db.blocks[num], true
}

// GetBlockByHash returns the block sealed with the specified hash. The ok
// value reports whether such a block exists.
func (db *Database) GetBlockByHash(hash string) (Block, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	num, exists := db.byHash[hash]
	if !exists {
		return Block{}, false
	}

	return db.blocks[num], true
}

// CopyBlocks returns a snapshot of the chain in height order. Scans and
// validation walks run against the snapshot so they never observe a partial
// append.
func (db *Database) CopyBlocks() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, len(db.blocks))
	copy(blocks, db.blocks)

	return blocks
}
