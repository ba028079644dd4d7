package main

import (
	"context"
	"fmt"

	"github.com/relaybase/chat-api/internal/config"
	"github.com/relaybase/chat-api/internal/domain/model"
	"github.com/relaybase/chat-api/internal/infrastructure/logger"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

// DataInitializer seeds the model catalog from MODEL_BOOTSTRAP on startup.
type DataInitializer struct {
	Models model.Repository
}

func (d *DataInitializer) Install(ctx context.Context) error {
	cfg := config.GetGlobal()
	if cfg == nil {
		return nil
	}

	entries, err := cfg.ModelBootstrapEntries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	log := logger.GetLogger()
	for _, entry := range entries {
		if entry.ID == "" || entry.ProviderModelID == "" {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				fmt.Sprintf("model bootstrap entry %q missing id or provider_model_id", entry.ID), nil,
				"6e2c9d4a-1f83-45b7-a0d6-8b3f5c7e2a91")
		}

		displayName := entry.DisplayName
		if displayName == "" {
			displayName = entry.ID
		}
		isActive := true
		if entry.IsActive != nil {
			isActive = *entry.IsActive
		}

		if _, err := d.Models.Upsert(ctx, &model.Model{
			PublicID:        entry.ID,
			DisplayName:     displayName,
			ProviderModelID: entry.ProviderModelID,
			IsActive:        isActive,
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
				fmt.Sprintf("failed to bootstrap model %q", entry.ID))
		}
		log.Info().Str("model", entry.ID).Msg("Model catalog entry seeded")
	}

	return nil
}
