package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellerhub/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Batch
// endpoints accept large payloads, so the ceiling is configured rather
// than hardcoded.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.CodeTooLarge, "request body exceeds maximum allowed size"))
			return
		}

		// Wrap the body for streaming requests without Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
