package httpapi

import (
	"database/sql"
	"sync/atomic"

	"carvis-engine/internal/ai"
	"carvis-engine/internal/config"
	"carvis-engine/internal/events"
	"carvis-engine/internal/inbox"
	"carvis-engine/internal/track"
)

type Deps struct {
	DB  *sql.DB
	App *track.App
	Hub *events.Hub

	// AI is nil when the provider is disabled or unkeyed; handlers that
	// need it return ai_unavailable.
	AI *ai.Client

	// Atomic stores
	CfgVal     *atomic.Value // stores config.Config
	ScanStatus *atomic.Value // stores inbox.Status

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Scanner *inbox.Scanner
}
