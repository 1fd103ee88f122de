// Package signature provides the hashing and signature support needed by
// the star registry ledger.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// registryID is an arbitrary number added to the recovery id when signing
// challenge messages. This makes it clear a signature was produced for the
// star registry. Ethereum and Bitcoin do the same with the value of 27.
const registryID = 29

// =============================================================================

// Hash returns a unique string for the value.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// Sign uses the specified private key to sign the challenge message.
func Sign(message string, privateKey *ecdsa.PrivateKey) (v, r, s *big.Int, err error) {

	// Prepare the message for signing.
	data := stamp(message)

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return nil, nil, nil, err
	}

	// Extract the public key from the message and the signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return nil, nil, nil, err
	}

	// Check the public key extracted from the message and signature.
	rs := sig[:crypto.RecoveryIDOffset]
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, rs) {
		return nil, nil, nil, errors.New("invalid signature produced")
	}

	// Convert the 65 byte signature into the [R|S|V] format.
	v, r, s = toSignatureValues(sig)

	return v, r, s, nil
}

// VerifySignature verifies the signature conforms to our standards.
func VerifySignature(v, r, s *big.Int) error {

	// Check the recovery id is either 0 or 1.
	uintV := v.Uint64() - registryID
	if uintV != 0 && uintV != 1 {
		return errors.New("invalid recovery id")
	}

	// Check the signature values are valid.
	if !crypto.ValidateSignatureValues(byte(uintV), r, s, false) {
		return errors.New("invalid signature values")
	}

	return nil
}

// FromAddress extracts the address for the account that signed the message.
func FromAddress(message string, v, r, s *big.Int) (string, error) {

	// Prepare the message for public key extraction.
	data := stamp(message)

	// Convert the [R|S|V] format into the original 65 bytes.
	sig := ToSignatureBytes(v, r, s)

	// Capture the public key associated with this message and signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", err
	}

	// Extract the account address from the public key.
	return crypto.PubkeyToAddress(*publicKey).String(), nil
}

// VerifyAddress proves the signature over the challenge message was produced
// by the private key behind the specified address.
func VerifyAddress(address string, message string, sigStr string) error {
	v, r, s, err := ToVRSFromHexSignature(sigStr)
	if err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}

	if err := VerifySignature(v, r, s); err != nil {
		return err
	}

	from, err := FromAddress(message, v, r, s)
	if err != nil {
		return fmt.Errorf("extracting address: %w", err)
	}

	// Compare case insensitive since address casing only carries the
	// checksum, not identity.
	if !strings.EqualFold(from, address) {
		return fmt.Errorf("signature produced by %s, not %s", from, address)
	}

	return nil
}

// SignatureString returns the signature as a string.
func SignatureString(v, r, s *big.Int) string {
	return hexutil.Encode(toSignatureBytesWithRegistryID(v, r, s))
}

// ToVRSFromHexSignature converts a hex representation of the signature into
// its R, S and V parts.
func ToVRSFromHexSignature(sigStr string) (v, r, s *big.Int, err error) {
	if !strings.HasPrefix(sigStr, "0x") {
		return nil, nil, nil, errors.New("signature is missing the 0x prefix")
	}

	sig, err := hex.DecodeString(sigStr[2:])
	if err != nil {
		return nil, nil, nil, err
	}

	if len(sig) != crypto.SignatureLength {
		return nil, nil, nil, fmt.Errorf("signature length is %d, exp %d", len(sig), crypto.SignatureLength)
	}

	r = new(big.Int).SetBytes(sig[:32])
	s = new(big.Int).SetBytes(sig[32:64])
	v = new(big.Int).SetBytes([]byte{sig[64]})

	return v, r, s, nil
}

// ToSignatureBytes converts the r, s, v values into a slice of bytes
// with the removal of the registryID.
func ToSignatureBytes(v, r, s *big.Int) []byte {
	sig := make([]byte, crypto.SignatureLength)

	rBytes := r.Bytes()
	if len(rBytes) == 31 {
		copy(sig[1:], rBytes)
	} else {
		copy(sig, rBytes)
	}

	sBytes := s.Bytes()
	if len(sBytes) == 31 {
		copy(sig[33:], sBytes)
	} else {
		copy(sig[32:], sBytes)
	}

	sig[64] = byte(v.Uint64() - registryID)

	return sig
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents the challenge message with
// the registry stamp embedded into the final hash.
func stamp(message string) []byte {

	// Hash the message into a 32 byte array. This provides a data length
	// consistency with all messages.
	msgHash := crypto.Keccak256([]byte(message))

	// This stamp is used so signatures produced when signing challenge
	// messages are always unique to the star registry.
	stamp := []byte("\x19Star Registry Signed Message:\n32")

	// Hash the stamp and the message hash together in a final 32 byte
	// array that represents the message.
	return crypto.Keccak256(stamp, msgHash)
}

// toSignatureValues converts the signature into the r, s, v values.
func toSignatureValues(sig []byte) (v, r, s *big.Int) {
	r = new(big.Int).SetBytes(sig[:32])
	s = new(big.Int).SetBytes(sig[32:64])
	v = new(big.Int).SetBytes([]byte{sig[64] + registryID})

	return v, r, s
}

// toSignatureBytesWithRegistryID converts the r, s, v values into a slice of
// bytes keeping the registry id.
func toSignatureBytesWithRegistryID(v, r, s *big.Int) []byte {
	sig := ToSignatureBytes(v, r, s)
	sig[64] = byte(v.Uint64())

	return sig
}
