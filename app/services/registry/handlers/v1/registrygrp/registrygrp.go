// Package registrygrp maintains the group of handlers for star registry access.
package registrygrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/starledger/business/web/errs"
	"github.com/ardanlabs/starledger/foundation/events"
	"github.com/ardanlabs/starledger/foundation/ledger/state"
	"github.com/ardanlabs/starledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of star registry endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide ledger events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// RequestChallenge issues the challenge message a wallet owner must sign to
// register a star claim.
func (h Handlers) RequestChallenge(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nc newChallenge
	if err := web.Decode(r, &nc); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	message, err := h.State.RequestChallenge(nc.Address)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("challenge issued", "traceid", v.TraceID, "address", nc.Address)

	resp := challenge{
		Address: nc.Address,
		Message: message,
		Window:  int(h.State.ChallengeWindow().Seconds()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitStar accepts a signed challenge submission and seals the claim into
// the ledger.
func (h Handlers) SubmitStar(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ns newStar
	if err := web.Decode(r, &ns); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("submit star", "traceid", v.TraceID, "address", ns.Address)

	blk, err := h.State.SubmitStar(ns.Address, ns.Message, ns.Signature, ns.Star)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrChallengeExpired):
			return errs.NewTrusted(err, http.StatusRequestTimeout)
		case errors.Is(err, state.ErrInvalidSignature):
			return errs.NewTrusted(err, http.StatusUnauthorized)
		case errors.Is(err, state.ErrInvalidChallenge):
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	return web.Respond(ctx, w, toBlock(blk), http.StatusCreated)
}

// StarsByOwner returns the star payloads claimed by the specified address.
func (h Handlers) StarsByOwner(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "account")

	stars := h.State.QueryStarsByOwner(address)
	if len(stars) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, stars, http.StatusOK)
}

// LatestBlock returns the block at the tip of the chain.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toBlock(h.State.RetrieveLatestBlock()), http.StatusOK)
}

// BlockByHeight returns the block sealed at the specified height.
func (h Handlers) BlockByHeight(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	num, err := strconv.ParseUint(web.Param(r, "number"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block number: %w", err), http.StatusBadRequest)
	}

	blk, exists := h.State.QueryBlockByHeight(num)
	if !exists {
		return errs.NewTrusted(fmt.Errorf("no block at height %d", num), http.StatusNotFound)
	}

	return web.Respond(ctx, w, toBlock(blk), http.StatusOK)
}

// BlockByHash returns the block sealed with the specified hash.
func (h Handlers) BlockByHash(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash := web.Param(r, "hash")

	blk, exists := h.State.QueryBlockByHash(hash)
	if !exists {
		return errs.NewTrusted(fmt.Errorf("no block with hash %s", hash), http.StatusNotFound)
	}

	return web.Respond(ctx, w, toBlock(blk), http.StatusOK)
}

// ValidateChain walks the whole chain and returns the integrity report.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	report := h.State.ValidateChain()

	resp := validation{
		Valid:    report.Valid(),
		Findings: report.Findings,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveGenesis(), http.StatusOK)
}
