package handlers

import (
	"github.com/sivaneshk23/honeypot-api/internal/config"
	"github.com/sivaneshk23/honeypot-api/internal/domain/services"
	"github.com/sivaneshk23/honeypot-api/internal/infrastructure/cache"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health   *HealthHandler
	Honeypot *HoneypotHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Engagement *services.EngagementService
	Cache      *cache.RedisCache
	Config     config.Config
	Logger     *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Cache, deps.Config.App.Version, deps.Logger),
		Honeypot: NewHoneypotHandler(deps.Engagement, deps.Config.Honeypot, deps.Logger),
	}
}
