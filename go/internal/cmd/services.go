package main

import (
	"context"
	"fmt"

	"github.com/mcdev12/soccermanager/go/clients/soccer_api_client"
	"github.com/mcdev12/soccermanager/go/internal/config"
	"github.com/mcdev12/soccermanager/go/internal/desk"
	"github.com/mcdev12/soccermanager/go/internal/session"
)

// setupDesk wires storage → session store → API client → desk
func setupDesk(ctx context.Context, cfg *config.Config) (*desk.Desk, func(), error) {
	storage, closeStorage, err := cfg.OpenStorage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	store := session.NewStore(storage)

	client := soccer_api_client.NewSoccerApiClient(cfg.API.BaseURL, store)
	if cfg.API.Timeout > 0 {
		client.SetTimeout(cfg.API.Timeout)
	}

	d := desk.New(store, client)
	if err := d.Start(ctx); err != nil {
		d.Close()
		closeStorage()
		return nil, nil, fmt.Errorf("failed to restore session: %w", err)
	}

	return d, func() {
		d.Close()
		closeStorage()
	}, nil
}
