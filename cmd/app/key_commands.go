package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/inkleaf/cmd/app/commands"
	"github.com/allisson/inkleaf/internal/app"
	"github.com/allisson/inkleaf/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-key",
			Usage: "Generate the local master key file at ENCRYPTION_KEY_PATH",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateMasterKey(
					ctx,
					container.KeyProvider(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.KMSKeyURI,
				)
			},
		},
		{
			Name:  "ensure-key-vault-index",
			Usage: "Create the unique keyAltNames index on the key vault collection",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				dataKeyUseCase, err := container.DataKeyUseCase(ctx)
				if err != nil {
					return err
				}

				return commands.RunEnsureKeyVaultIndex(
					ctx,
					dataKeyUseCase,
					container.KeyVaultNamespace(),
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "create-data-key",
			Usage: "Create the vault data key and print CSFLE_DATA_KEY_ID",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "alt-name",
					Aliases: []string{"n"},
					Usage:   "Alternate name for the data key (defaults to CSFLE_DATA_KEY_ALT_NAME)",
				},
				&cli.StringFlag{
					Name:    "algorithm",
					Aliases: []string{"alg"},
					Usage:   "Encryption algorithm (aes-gcm or chacha20-poly1305, defaults to CSFLE_KEY_ALGORITHM)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				dataKeyUseCase, err := container.DataKeyUseCase(ctx)
				if err != nil {
					return err
				}

				altName := cmd.String("alt-name")
				if altName == "" {
					altName = cfg.CSFLEDataKeyAltName
				}
				algorithm := cmd.String("algorithm")
				if algorithm == "" {
					algorithm = cfg.CSFLEKeyAlgorithm
				}

				return commands.RunCreateDataKey(
					ctx,
					dataKeyUseCase,
					container.KeyProvider(),
					container.Logger(),
					commands.DefaultIO().Writer,
					altName,
					algorithm,
				)
			},
		},
	}
}
