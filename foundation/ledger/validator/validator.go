// Package validator walks a chain of blocks recomputing every hash and
// checking linkage, producing an exhaustive diagnostic report.
package validator

import (
	"fmt"

	"github.com/ardanlabs/starledger/foundation/ledger/database"
)

// Finding represents a single integrity failure at a specific height.
type Finding struct {
	Height uint64 `json:"height"`
	Reason string `json:"reason"`
}

// Report represents the outcome of a full chain walk.
type Report struct {
	Findings []Finding `json:"findings"`
}

// Valid reports whether the walk found no integrity failures.
func (r Report) Valid() bool {
	return len(r.Findings) == 0
}

// =============================================================================

// Validate walks the specified blocks in height order. Every block is checked
// even after a failure so the report covers the whole chain. The genesis
// block only needs its self hash checked since it is never chain linked.
func Validate(blocks []database.Block) Report {
	var findings []Finding

	for i, block := range blocks {
		height := uint64(i)

		if !block.Validate() {
			findings = append(findings, Finding{
				Height: height,
				Reason: fmt.Sprintf("Block %d is invalid.", height),
			})
		}

		if i > 0 && block.Header.PrevBlockHash != blocks[i-1].Hash {
			findings = append(findings, Finding{
				Height: height,
				Reason: fmt.Sprintf("Block %d is not linked to the hash of block %d.", height, height-1),
			})
		}
	}

	return Report{Findings: findings}
}
