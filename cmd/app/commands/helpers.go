// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/allisson/inkleaf/internal/app"
	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
	cryptoService "github.com/allisson/inkleaf/internal/crypto/service"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// parseAlgorithm converts an algorithm flag value to cryptoDomain.Algorithm.
func parseAlgorithm(algorithm string) (cryptoDomain.Algorithm, error) {
	supported := cryptoService.SupportedAlgorithms()
	if slices.Contains(supported, cryptoDomain.Algorithm(algorithm)) {
		return cryptoDomain.Algorithm(algorithm), nil
	}
	names := make([]string, len(supported))
	for i, alg := range supported {
		names[i] = string(alg)
	}
	return "", fmt.Errorf("invalid algorithm: %s (valid options: %s)", algorithm, strings.Join(names, ", "))
}
