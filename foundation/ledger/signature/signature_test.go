package signature_test

import (
	"testing"

	"github.com/ardanlabs/starledger/foundation/ledger/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	from     = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
)

// =============================================================================

func Test_SignVerifyAddress(t *testing.T) {
	message := from + ":1000:starRegistry"

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to parse the private key: %s", err)
	}

	v, r, s, err := signature.Sign(message, pk)
	if err != nil {
		t.Fatalf("Should be able to sign the message: %s", err)
	}

	if err := signature.VerifySignature(v, r, s); err != nil {
		t.Fatalf("Should be able to verify the signature: %s", err)
	}

	addr, err := signature.FromAddress(message, v, r, s)
	if err != nil {
		t.Fatalf("Should be able to extract the from address: %s", err)
	}

	if from != addr {
		t.Logf("got: %s", addr)
		t.Logf("exp: %s", from)
		t.Fatalf("Should get back the right address.")
	}

	sigStr := signature.SignatureString(v, r, s)
	if err := signature.VerifyAddress(from, message, sigStr); err != nil {
		t.Fatalf("Should be able to verify the address against the hex signature: %s", err)
	}
}

func Test_VerifyAddressWrongKey(t *testing.T) {
	message := from + ":1000:starRegistry"

	otherPK, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	v, r, s, err := signature.Sign(message, otherPK)
	if err != nil {
		t.Fatalf("Should be able to sign the message: %s", err)
	}

	sigStr := signature.SignatureString(v, r, s)
	if err := signature.VerifyAddress(from, message, sigStr); err == nil {
		t.Fatalf("Should not verify a signature produced by a different key.")
	}
}

func Test_VerifyAddressTamperedMessage(t *testing.T) {
	message := from + ":1000:starRegistry"

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to parse the private key: %s", err)
	}

	v, r, s, err := signature.Sign(message, pk)
	if err != nil {
		t.Fatalf("Should be able to sign the message: %s", err)
	}

	sigStr := signature.SignatureString(v, r, s)
	if err := signature.VerifyAddress(from, from+":2000:starRegistry", sigStr); err == nil {
		t.Fatalf("Should not verify a signature against a different message.")
	}
}

func Test_VerifyAddressBadEncoding(t *testing.T) {
	tests := []struct {
		name   string
		sigStr string
	}{
		{"missing prefix", "ff"},
		{"not hex", "0xzz"},
		{"short", "0xffff"},
	}

	for _, tst := range tests {
		if err := signature.VerifyAddress(from, "msg", tst.sigStr); err == nil {
			t.Errorf("Should reject a malformed signature: %s", tst.name)
		}
	}
}

func Test_Hash(t *testing.T) {
	value := struct {
		Name string
	}{
		Name: "Polaris",
	}

	h1 := signature.Hash(value)
	h2 := signature.Hash(value)
	if h1 != h2 {
		t.Logf("got: %s", h2)
		t.Logf("exp: %s", h1)
		t.Fatalf("Should get back the same hash twice.")
	}

	value.Name = "Vega"
	if h3 := signature.Hash(value); h3 == h1 {
		t.Fatalf("Should get a different hash for different data.")
	}
}
