package state

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/starledger/foundation/ledger/database"
	"github.com/ardanlabs/starledger/foundation/ledger/signature"
)

// challengeSuffix tags challenge messages as belonging to the star registry.
const challengeSuffix = "starRegistry"

// Set of errors surfaced to callers of SubmitStar.
var (
	ErrInvalidChallenge = errors.New("malformed challenge message")
	ErrChallengeExpired = errors.New("challenge expired")
	ErrInvalidSignature = errors.New("signature does not verify for address")
)

// =============================================================================

// RequestChallenge produces the message a wallet owner must sign to prove
// control of the specified address. The issue time is embedded in the message
// itself so no server side state is kept.
func (s *State) RequestChallenge(address string) (string, error) {
	if address == "" {
		return "", errors.New("address is required")
	}

	message := fmt.Sprintf("%s:%d:%s", address, time.Now().UTC().Unix(), challengeSuffix)
	s.evHandler("state: request challenge: address[%s]", address)

	return message, nil
}

// SubmitStar validates a signed challenge submission and seals the star
// payload into a new block. The timeout check runs first and short circuits
// the signature check. Both checks run before the append critical section.
func (s *State) SubmitStar(address string, message string, sig string, star database.Payload) (database.Block, error) {
	issued, err := challengeTime(message)
	if err != nil {
		return database.Block{}, fmt.Errorf("%w: %s", ErrInvalidChallenge, err)
	}

	// The window is closed at the far end: exactly window seconds is
	// already expired.
	elapsed := time.Now().UTC().Unix() - issued
	if elapsed >= s.window {
		s.evHandler("state: submit star: address[%s]: REJECTED: elapsed[%ds]", address, elapsed)
		return database.Block{}, fmt.Errorf("%w: elapsed %ds, window %ds", ErrChallengeExpired, elapsed, s.window)
	}

	if err := signature.VerifyAddress(address, message, sig); err != nil {
		s.evHandler("state: submit star: address[%s]: REJECTED: %s", address, err)
		return database.Block{}, fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	body, err := database.EncodeBody(star)
	if err != nil {
		return database.Block{}, err
	}

	block, err := s.db.Append(body)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: submit star: address[%s]: ACCEPTED: blk[%d] hash[%s]", address, block.Header.Number, block.Hash)

	return block, nil
}

// challengeTime extracts the embedded issue time from a challenge message of
// the form "<address>:<unixSeconds>:starRegistry".
func challengeTime(message string) (int64, error) {
	fields := strings.Split(message, ":")
	if len(fields) != 3 {
		return 0, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	if fields[2] != challengeSuffix {
		return 0, fmt.Errorf("unknown message tag %q", fields[2])
	}

	issued, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing issue time: %s", err)
	}

	return issued, nil
}
