package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/application/reconcile"
	infraconfig "github.com/sellerhub/backend/internal/infrastructure/config"
)

// NewImageStore builds the image store selected by configuration.
func NewImageStore(cfg *infraconfig.StorageConfig, logger *zap.Logger) (reconcile.ImageStore, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3ImageStore(cfg, WithLogger(logger))
	case "stub":
		return NewStubImageStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
