package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// MasterKeyCreator writes a new master key file.
type MasterKeyCreator interface {
	Create(ctx context.Context) error
	Path() string
}

// RunCreateMasterKey generates the master key file that wraps every data key.
// An existing file is never overwritten. When kmsKeyURI is set the file holds
// the key encrypted by that KMS keeper.
func RunCreateMasterKey(
	ctx context.Context,
	creator MasterKeyCreator,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	if err := creator.Create(ctx); err != nil {
		return fmt.Errorf("failed to create master key: %w", err)
	}

	logger.Info("master key created", slog.String("path", creator.Path()))

	_, _ = fmt.Fprintln(writer, "# Master key written. Keep this file out of version control.")
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintln(writer, "# The file holds KMS ciphertext; the same KMS_KEY_URI is needed to load it.")
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=%s\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEY_PATH=%s\n", creator.Path())
	return nil
}
