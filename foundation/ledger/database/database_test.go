package database_test

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/ardanlabs/starledger/foundation/ledger/database"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to initialize a new chain.")

	db, err := database.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the database: %v", failed, err)
	}
	t.Logf("\t%s\tShould be able to construct the database.", success)

	if db.Height() != 0 {
		t.Fatalf("\t%s\tShould have height 0 after genesis: got %d.", failed, db.Height())
	}
	t.Logf("\t%s\tShould have height 0 after genesis.", success)

	genesisBlock, ok := db.GetBlock(0)
	if !ok {
		t.Fatalf("\t%s\tShould find the genesis block at height 0.", failed)
	}

	if genesisBlock.Header.PrevBlockHash != "" {
		t.Fatalf("\t%s\tShould have no previous hash on the genesis block: got %q.", failed, genesisBlock.Header.PrevBlockHash)
	}
	t.Logf("\t%s\tShould have no previous hash on the genesis block.", success)

	payload, err := database.DecodeBody(genesisBlock.Body)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to decode the genesis body: %v", failed, err)
	}

	if payload["data"] != database.GenesisData {
		t.Fatalf("\t%s\tShould carry the genesis sentinel payload: got %v.", failed, payload)
	}
	t.Logf("\t%s\tShould carry the genesis sentinel payload.", success)

	if !genesisBlock.Validate() {
		t.Fatalf("\t%s\tShould have a valid self hash on the genesis block.", failed)
	}
	t.Logf("\t%s\tShould have a valid self hash on the genesis block.", success)
}

func Test_AppendLinkage(t *testing.T) {
	t.Log("Given the need to append blocks with correct linkage.")

	db, err := database.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the database: %v", failed, err)
	}

	const appends = 5
	for i := 1; i <= appends; i++ {
		body, err := database.EncodeBody(database.Payload{"owner": "0xA1", "name": fmt.Sprintf("star-%d", i)})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to encode a payload: %v", failed, err)
		}

		prev := db.LatestBlock()

		block, err := db.Append(body)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to append block %d: %v", failed, i, err)
		}

		if block.Header.Number != prev.Header.Number+1 {
			t.Fatalf("\t%s\tShould assign the next height: got %d, exp %d.", failed, block.Header.Number, prev.Header.Number+1)
		}

		if block.Header.PrevBlockHash != prev.Hash {
			t.Fatalf("\t%s\tShould link block %d to the previous block's hash.", failed, i)
		}

		if !block.Validate() {
			t.Fatalf("\t%s\tShould seal block %d with a valid hash.", failed, i)
		}
	}
	t.Logf("\t%s\tShould append %d blocks with correct heights and linkage.", success, appends)

	if db.Height() != appends {
		t.Fatalf("\t%s\tShould have height %d: got %d.", failed, appends, db.Height())
	}
	t.Logf("\t%s\tShould have height %d.", success, appends)
}

func Test_ConcurrentAppend(t *testing.T) {
	t.Log("Given the need to keep the chain intact under concurrent appenders.")

	db, err := database.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the database: %v", failed, err)
	}

	const goroutines = 25

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()

			body, err := database.EncodeBody(database.Payload{"owner": fmt.Sprintf("0x%02d", id)})
			if err != nil {
				t.Errorf("\t%s\tShould be able to encode a payload: %v", failed, err)
				return
			}

			if _, err := db.Append(body); err != nil {
				t.Errorf("\t%s\tShould be able to append concurrently: %v", failed, err)
			}
		}(i)
	}
	wg.Wait()

	if db.Height() != goroutines {
		t.Fatalf("\t%s\tShould have height %d after %d concurrent appends: got %d.", failed, goroutines, goroutines, db.Height())
	}
	t.Logf("\t%s\tShould have height %d after %d concurrent appends.", success, goroutines, goroutines)

	blocks := db.CopyBlocks()
	seen := make(map[string]bool)
	for i, block := range blocks {
		if seen[block.Hash] {
			t.Fatalf("\t%s\tShould not have colliding block hashes at height %d.", failed, i)
		}
		seen[block.Hash] = true

		if i == 0 {
			continue
		}

		if block.Header.PrevBlockHash != blocks[i-1].Hash {
			t.Fatalf("\t%s\tShould link block %d to block %d.", failed, i, i-1)
		}
	}
	t.Logf("\t%s\tShould have a gap free, hash linked chain.", success)
}

func Test_TamperDetection(t *testing.T) {
	t.Log("Given the need to detect mutation of an appended block.")

	db, err := database.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the database: %v", failed, err)
	}

	body, err := database.EncodeBody(database.Payload{"owner": "0xA1", "name": "Polaris"})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to encode a payload: %v", failed, err)
	}

	block, err := db.Append(body)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to append a block: %v", failed, err)
	}

	if !block.Validate() {
		t.Fatalf("\t%s\tShould validate a freshly appended block.", failed)
	}
	t.Logf("\t%s\tShould validate a freshly appended block.", success)

	tampered := block
	tampered.Body = []byte(`{"owner":"0xEV","name":"Polaris"}`)
	if tampered.Validate() {
		t.Fatalf("\t%s\tShould fail validation after the body is mutated.", failed)
	}
	t.Logf("\t%s\tShould fail validation after the body is mutated.", success)

	tampered = block
	tampered.Header.Number = 42
	if tampered.Validate() {
		t.Fatalf("\t%s\tShould fail validation after the height is mutated.", failed)
	}

	tampered = block
	tampered.Header.TimeStamp++
	if tampered.Validate() {
		t.Fatalf("\t%s\tShould fail validation after the timestamp is mutated.", failed)
	}

	tampered = block
	tampered.Header.PrevBlockHash = "0xdeadbeef"
	if tampered.Validate() {
		t.Fatalf("\t%s\tShould fail validation after the previous hash is mutated.", failed)
	}
	t.Logf("\t%s\tShould fail validation after any header field is mutated.", success)
}

func Test_Lookups(t *testing.T) {
	t.Log("Given the need to look blocks up by height and by hash.")

	db, err := database.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the database: %v", failed, err)
	}

	body, err := database.EncodeBody(database.Payload{"owner": "0xA1", "name": "Vega"})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to encode a payload: %v", failed, err)
	}

	block, err := db.Append(body)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to append a block: %v", failed, err)
	}

	byHeight, ok := db.GetBlock(1)
	if !ok || byHeight.Hash != block.Hash {
		t.Fatalf("\t%s\tShould find the block by height.", failed)
	}
	t.Logf("\t%s\tShould find the block by height.", success)

	byHash, ok := db.GetBlockByHash(block.Hash)
	if !ok || byHash.Header.Number != 1 {
		t.Fatalf("\t%s\tShould find the block by hash.", failed)
	}
	t.Logf("\t%s\tShould find the block by hash.", success)

	if _, ok := db.GetBlock(99); ok {
		t.Fatalf("\t%s\tShould report absent for an unknown height.", failed)
	}

	if _, ok := db.GetBlockByHash("0xmissing"); ok {
		t.Fatalf("\t%s\tShould report absent for an unknown hash.", failed)
	}
	t.Logf("\t%s\tShould report absent rather than fail for unknown lookups.", success)
}

func Test_BodyRoundTrip(t *testing.T) {
	t.Log("Given the need to round trip payloads through the body encoding.")

	payload := database.Payload{
		"owner": "0xA1",
		"name":  "Polaris",
		"coordinates": map[string]any{
			"ra":  "16h 29m 1.0s",
			"dec": "-26 29 24.9",
		},
	}

	body, err := database.EncodeBody(payload)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to encode the payload: %v", failed, err)
	}

	decoded, err := database.DecodeBody(body)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to decode the body: %v", failed, err)
	}

	if !reflect.DeepEqual(payload, decoded) {
		t.Logf("got: %v", decoded)
		t.Logf("exp: %v", payload)
		t.Fatalf("\t%s\tShould get the original payload back.", failed)
	}
	t.Logf("\t%s\tShould get the original payload back.", success)

	if _, err := database.DecodeBody([]byte("not json")); err == nil {
		t.Fatalf("\t%s\tShould reject a body that is not a valid encoding.", failed)
	}
	t.Logf("\t%s\tShould reject a body that is not a valid encoding.", success)
}
