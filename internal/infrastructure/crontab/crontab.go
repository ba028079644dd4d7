package crontab

import (
	"context"
	"fmt"
	"time"

	"github.com/mileusna/crontab"

	"github.com/relaybase/chat-api/internal/config"
	"github.com/relaybase/chat-api/internal/domain/session"
	"github.com/relaybase/chat-api/internal/infrastructure/logger"
	"github.com/relaybase/chat-api/internal/infrastructure/metrics"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

const (
	DefaultPurgeFrequencyMinutes = 60
	CronJobTimeout               = 10 * time.Minute
)

// Crontab owns the background jobs: retention purge of soft-deleted sessions
// and periodic config reload.
type Crontab struct {
	ctab     *crontab.Crontab
	sessions *session.Service
}

func NewCrontab(sessions *session.Service) *Crontab {
	return &Crontab{
		ctab:     crontab.New(),
		sessions: sessions,
	}
}

func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()

	cfg := config.GetGlobal()
	if cfg != nil && cfg.SessionPurgeEnabled {
		// execute once on server start
		c.purgeSessions(ctx)

		frequency := cfg.SessionPurgeFrequency
		if frequency <= 0 {
			frequency = DefaultPurgeFrequencyMinutes
		}

		cronExpr := fmt.Sprintf("*/%d * * * *", frequency)
		if frequency >= 60 {
			cronExpr = "0 * * * *"
		}
		if err := c.ctab.AddJob(cronExpr, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
			defer cancel()
			c.purgeSessions(jobCtx)
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add session purge job")
		}
		log.Info().Msgf("Session purge scheduled: every %d minute(s)", frequency)
	}

	// Schedule environment reload job
	if err := c.ctab.AddJob("* * * * *", func() {
		config.Load()
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add env reload job")
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) purgeSessions(ctx context.Context) {
	log := logger.GetLogger()

	cfg := config.GetGlobal()
	if cfg == nil {
		return
	}

	retention := time.Duration(cfg.SessionRetentionDays) * 24 * time.Hour
	purged, err := c.sessions.PurgeDeleted(ctx, retention)
	if err != nil {
		log.Error().Err(err).Msg("Failed to purge deleted sessions")
		return
	}

	if purged > 0 {
		metrics.SessionsPurgedTotal.Add(float64(purged))
		log.Info().Int64("purged", purged).Msg("Purged soft-deleted sessions")
	}
}
