package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/inkleaf/internal/docstore"
	"github.com/allisson/inkleaf/internal/httputil"
)

// Connector establishes the encrypting connection on demand.
type Connector interface {
	Connect(ctx context.Context) (docstore.Database, error)
}

// RequireConnection ensures the encrypting connection is ready before a vault
// handler runs. A failed attempt answers 503 with the reason and leaves the
// connector free to retry on the next request.
func RequireConnection(connector Connector, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := connector.Connect(c.Request.Context()); err != nil {
			logger.Warn("vault connection unavailable", slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, httputil.ErrorResponse{
				Error:   "vault_unavailable",
				Message: "CSFLE not configured: " + err.Error(),
			})
			return
		}
		c.Next()
	}
}
