package registrygrp

import (
	"github.com/ardanlabs/starledger/foundation/ledger/database"
	"github.com/ardanlabs/starledger/foundation/ledger/validator"
)

type newChallenge struct {
	Address string `json:"address" validate:"required"`
}

type challenge struct {
	Address string `json:"address"`
	Message string `json:"message"`
	Window  int    `json:"window"`
}

type newStar struct {
	Address   string           `json:"address" validate:"required"`
	Message   string           `json:"message" validate:"required"`
	Signature string           `json:"signature" validate:"required"`
	Star      database.Payload `json:"star" validate:"required"`
}

type block struct {
	Hash          string           `json:"hash"`
	Number        uint64           `json:"number"`
	TimeStamp     uint64           `json:"timestamp"`
	PrevBlockHash string           `json:"prev_block_hash,omitempty"`
	Payload       database.Payload `json:"payload,omitempty"`
}

type validation struct {
	Valid    bool                `json:"valid"`
	Findings []validator.Finding `json:"findings,omitempty"`
}

// toBlock builds the client view of a block, decoding the body back to its
// payload form. An undecodable body leaves the payload empty rather than
// failing the response.
func toBlock(blk database.Block) block {
	payload, err := database.DecodeBody(blk.Body)
	if err != nil {
		payload = nil
	}

	return block{
		Hash:          blk.Hash,
		Number:        blk.Header.Number,
		TimeStamp:     blk.Header.TimeStamp,
		PrevBlockHash: blk.Header.PrevBlockHash,
		Payload:       payload,
	}
}
