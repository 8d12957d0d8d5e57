package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/inkleaf/cmd/app/commands"
	"github.com/allisson/inkleaf/internal/app"
	"github.com/allisson/inkleaf/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "create-search-indexes",
			Usage: "Create the Atlas Search and vector search indexes on the notes collection",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				searchRepository, err := container.SearchRepository(ctx)
				if err != nil {
					return err
				}

				return commands.RunCreateSearchIndexes(
					ctx,
					searchRepository,
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "seed",
			Usage: "Insert sample plain notes, generating embeddings when OPENAI_API_KEY is set",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "reset",
					Value: false,
					Usage: "Delete every existing plain note first (vault notes are kept)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				noteRepository, err := container.NoteRepository(ctx)
				if err != nil {
					return err
				}

				return commands.RunSeed(
					ctx,
					noteRepository,
					container.EmbeddingClient(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Bool("reset"),
				)
			},
		},
	}
}
