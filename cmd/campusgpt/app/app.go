// Package app provides the CampusGPT server application.
package app

import (
	"context"
	"fmt"

	"github.com/kart-io/campusgpt/cmd/campusgpt/app/options"
	"github.com/kart-io/campusgpt/internal/campus"
	"github.com/kart-io/campusgpt/pkg/infra/app"
)

// commandDesc is the description of the command.
const commandDesc = `CampusGPT Service

A campus assistant with a community bulletin and a help-ticket board.

This server provides:
  - Chat answers grounded on posts and resolved tickets
  - Announcements scoped to public or internal visibility
  - Help tickets whose answers feed the knowledge base`

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewServerOptions()
	return app.NewApp(
		app.WithName(campus.Name),
		app.WithShortDescription("CampusGPT campus assistant service"),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
	)
}

// run builds the server from the loaded options and blocks until ctx ends.
func run(opts *options.ServerOptions) app.RunFunc {
	return func(ctx context.Context) error {
		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		server, err := cfg.NewServer(ctx)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}
		return server.Run(ctx)
	}
}
