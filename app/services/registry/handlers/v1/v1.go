// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/starledger/app/services/registry/handlers/v1/registrygrp"
	"github.com/ardanlabs/starledger/foundation/events"
	"github.com/ardanlabs/starledger/foundation/ledger/state"
	"github.com/ardanlabs/starledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	rgh := registrygrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	const version = "v1"

	app.Handle(http.MethodGet, version, "/events", rgh.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", rgh.Genesis)
	app.Handle(http.MethodPost, version, "/challenge", rgh.RequestChallenge)
	app.Handle(http.MethodPost, version, "/stars", rgh.SubmitStar)
	app.Handle(http.MethodGet, version, "/stars/list/:account", rgh.StarsByOwner)
	app.Handle(http.MethodGet, version, "/blocks/latest", rgh.LatestBlock)
	app.Handle(http.MethodGet, version, "/blocks/height/:number", rgh.BlockByHeight)
	app.Handle(http.MethodGet, version, "/blocks/hash/:hash", rgh.BlockByHash)
	app.Handle(http.MethodGet, version, "/chain/validate", rgh.ValidateChain)
}
