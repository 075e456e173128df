package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/soccermanager/go/internal/config"
	"github.com/mcdev12/soccermanager/go/internal/desk"
	"github.com/mcdev12/soccermanager/go/internal/failures"
)

func main() {
	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, cleanup := newRootCmd(func(ctx context.Context) (*desk.Desk, func(), error) {
		return setupDesk(ctx, cfg)
	})
	err = root.ExecuteContext(ctx)
	cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

// describe renders an error the way it is shown to the user
func describe(err error) string {
	if errors.Is(err, desk.ErrSignedOut) {
		return "You are not logged in. Run `soccermanager login` first."
	}
	var fe *failures.Error
	if !errors.As(err, &fe) {
		return err.Error()
	}
	msg := fe.Message
	for _, f := range fe.Fields {
		msg += fmt.Sprintf("\n  %s: %s", f.Field, f.RejectReason)
	}
	return msg
}
