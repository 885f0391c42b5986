// Package services holds the business rules behind every endpoint. Services
// take raw identifiers from the transport layer and validate them before any
// store access, load the referenced documents, check ownership and mutate.
package services

import (
	"context"
	"errors"

	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/pkg/media"
	"go.uber.org/zap"
)

// lookupError turns a repository failure while loading a referenced document
// into a NotFound carrying notFoundMsg, or an Internal error otherwise.
func lookupError(err error, notFoundMsg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.New(apperror.NotFound, notFoundMsg)
	}
	return apperror.Wrap(err, "Something went wrong while loading data")
}

// storeError classifies a failed write.
func storeError(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.New(apperror.NotFound, message).WithCause(err)
	}
	return apperror.Wrap(err, message)
}

// discardAsset deletes a hosted asset whose owning mutation already settled.
// Failures are logged and never reach the caller.
func discardAsset(ctx context.Context, store media.Store, logger *zap.Logger, publicID string, kind media.Kind) {
	if publicID == "" {
		return
	}
	if err := store.Delete(ctx, publicID, kind); err != nil && !errors.Is(err, media.ErrNotFound) {
		logger.Warn("Failed to delete media asset",
			zap.String("public_id", publicID),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}

// assetPublicID prefers the stored public id and falls back to deriving it
// from the hosted URL for documents written before ids were stored.
func assetPublicID(publicID, url string) string {
	if publicID != "" {
		return publicID
	}
	return media.PublicIDFromURL(url)
}
