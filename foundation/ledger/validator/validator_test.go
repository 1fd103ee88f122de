package validator_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ardanlabs/starledger/foundation/ledger/database"
	"github.com/ardanlabs/starledger/foundation/ledger/validator"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func newChain(t *testing.T, appends int) *database.Database {
	t.Helper()

	db, err := database.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the database: %v", failed, err)
	}

	for i := 1; i <= appends; i++ {
		body, err := database.EncodeBody(database.Payload{"owner": "0xA1", "name": fmt.Sprintf("star-%d", i)})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to encode a payload: %v", failed, err)
		}

		if _, err := db.Append(body); err != nil {
			t.Fatalf("\t%s\tShould be able to append block %d: %v", failed, i, err)
		}
	}

	return db
}

// =============================================================================

func Test_ValidChain(t *testing.T) {
	t.Log("Given the need to report a clean chain as valid.")

	db := newChain(t, 3)

	report := validator.Validate(db.CopyBlocks())
	if !report.Valid() {
		t.Fatalf("\t%s\tShould report a clean chain as valid: %v", failed, report.Findings)
	}
	t.Logf("\t%s\tShould report a clean chain as valid.", success)
}

func Test_GenesisOnlyChain(t *testing.T) {
	t.Log("Given the need to validate a chain holding only the genesis block.")

	db := newChain(t, 0)

	report := validator.Validate(db.CopyBlocks())
	if !report.Valid() {
		t.Fatalf("\t%s\tShould report a genesis only chain as valid: %v", failed, report.Findings)
	}
	t.Logf("\t%s\tShould report a genesis only chain as valid.", success)
}

func Test_TamperedBody(t *testing.T) {
	t.Log("Given the need to report a block whose body was mutated.")

	db := newChain(t, 2)

	blocks := db.CopyBlocks()
	blocks[1].Body = []byte(`{"owner":"0xEV"}`)

	report := validator.Validate(blocks)
	if report.Valid() {
		t.Fatalf("\t%s\tShould report the tampered chain as invalid.", failed)
	}

	if len(report.Findings) != 1 {
		t.Fatalf("\t%s\tShould report exactly one finding: got %d.", failed, len(report.Findings))
	}

	finding := report.Findings[0]
	if finding.Height != 1 || finding.Reason != "Block 1 is invalid." {
		t.Logf("got: %d %q", finding.Height, finding.Reason)
		t.Fatalf("\t%s\tShould report block 1 as invalid.", failed)
	}
	t.Logf("\t%s\tShould report block 1 as invalid while block 0 stays clean.", success)
}

func Test_BrokenLinkage(t *testing.T) {
	t.Log("Given the need to report both a broken seal and a broken link.")

	db := newChain(t, 2)

	// Rewriting the sealed hash of block 1 breaks its own seal and the
	// previous hash reference held by block 2.
	blocks := db.CopyBlocks()
	blocks[1].Hash = "0xdeadbeef"

	report := validator.Validate(blocks)
	if len(report.Findings) != 2 {
		t.Fatalf("\t%s\tShould accumulate two findings: got %d.", failed, len(report.Findings))
	}
	t.Logf("\t%s\tShould accumulate two findings without aborting the walk.", success)

	if report.Findings[0].Reason != "Block 1 is invalid." {
		t.Fatalf("\t%s\tShould report block 1 as invalid first: got %q.", failed, report.Findings[0].Reason)
	}

	if report.Findings[1].Height != 2 || !strings.Contains(report.Findings[1].Reason, "not linked") {
		t.Fatalf("\t%s\tShould report block 2 as not linked: got %q.", failed, report.Findings[1].Reason)
	}
	t.Logf("\t%s\tShould report findings in height order.", success)
}
