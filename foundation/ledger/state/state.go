// Package state is the core API for the star registry and implements the
// ownership verification protocol over the block store.
package state

import (
	"time"

	"github.com/ardanlabs/starledger/foundation/ledger/database"
	"github.com/ardanlabs/starledger/foundation/ledger/genesis"
)

// defaultChallengeWindow is the number of seconds a challenge message stays
// valid when the genesis file does not specify a window.
const defaultChallengeWindow = 300

// =============================================================================

// EventHandler defines a function that is called when events occur in the
// processing of registering claims.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the registry.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// State manages the star registry ledger.
type State struct {
	genesis   genesis.Genesis
	window    int64
	evHandler EventHandler

	db *database.Database
}

// New constructs a new registry state for claims management. The underlying
// chain is initialized with its genesis block before New returns.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	db, err := database.New()
	if err != nil {
		return nil, err
	}

	window := int64(cfg.Genesis.ChallengeWindow)
	if window == 0 {
		window = defaultChallengeWindow
	}

	state := State{
		genesis:   cfg.Genesis,
		window:    window,
		evHandler: ev,
		db:        db,
	}

	ev("state: chain initialized: genesis[%s] window[%ds]", db.LatestBlock().Hash, window)

	return &state, nil
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// ChallengeWindow returns the period a challenge message remains valid.
func (s *State) ChallengeWindow() time.Duration {
	return time.Duration(s.window) * time.Second
}
