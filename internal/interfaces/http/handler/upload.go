package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadIssuer opens image upload sessions. The S3 store returns a
// presigned PUT URL; the stub returns a fake one.
type UploadIssuer interface {
	IssueUploadRef(ctx context.Context, tenantID uuid.UUID, contentType string) (ref, uploadURL string, expiresAt time.Time, err error)
}

// UploadHandler serves the image upload session endpoint. Clients PUT
// the bytes to the returned URL themselves and submit the ref in
// product image fields; reconciliation promotes it on success.
type UploadHandler struct {
	BaseHandler
	issuer UploadIssuer
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(issuer UploadIssuer, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		BaseHandler: NewBaseHandler(logger),
		issuer:      issuer,
	}
}

// CreateUploadRequest opens one upload session.
type CreateUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,max=100"`
}

// UploadSessionResponse is the opened session.
type UploadSessionResponse struct {
	Ref       string    `json:"ref"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Create handles POST /api/v1/uploads
func (h *UploadHandler) Create(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	var req CreateUploadRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ref, uploadURL, expiresAt, err := h.issuer.IssueUploadRef(c.Request.Context(), tenantID, req.ContentType)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, UploadSessionResponse{
		Ref:       ref,
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	})
}
