package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"carvis-engine/internal/ai"
	"carvis-engine/internal/config"
	"carvis-engine/internal/events"
	"carvis-engine/internal/httpapi"
	"carvis-engine/internal/inbox"
	"carvis-engine/internal/scheduler"
	"carvis-engine/internal/secrets"
	"carvis-engine/internal/store"
	"carvis-engine/internal/track"
)

var serveDataDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine HTTP API on loopback",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "engine data directory (default $CARVIS_DATA_DIR or .)")
	rootCmd.AddCommand(serveCmd)
}

func resolveDataDir(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("CARVIS_DATA_DIR"); env != "" {
		return env
	}
	return "."
}

func runServe(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	dataDir := resolveDataDir(serveDataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// One engine per data dir; a second instance would fight over sqlite
	// and the port.
	lock := flock.New(filepath.Join(dataDir, "carvis.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("data dir lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another engine instance is already running in %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return fmt.Errorf("config bootstrap failed: %w", err)
	}

	// Load config and keep it reloadable.
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		raw, err := config.Load(userCfgPath)
		if err != nil {
			return config.Config{}, err
		}
		normalized, vr := config.NormalizeAndValidate(raw)
		for _, warning := range vr.Warnings {
			log.Printf("level=warn msg=\"config\" warn=%q", warning)
		}
		if !vr.OK() {
			return config.Config{}, fmt.Errorf("config invalid: %v", vr.Errors)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "carvis.db")
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		return err
	}

	hub := events.NewHub()
	app := track.New(track.WithDB(db.Pool), track.WithHub(hub))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := app.LoadPersisted(ctx); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	var aiClient *ai.Client
	if cfg.AI.Enabled {
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			log.Printf("level=warn msg=\"ai enabled but OPENAI_API_KEY is empty, assets disabled\"")
		} else if aiClient, err = ai.New(cfg, key); err != nil {
			return fmt.Errorf("ai client: %w", err)
		}
	}

	var comfort inbox.Comforter
	if aiClient != nil {
		comfort = aiClient
	}
	scanner := inbox.NewScanner(comfort, func() (string, error) {
		cur := cfgVal.Load().(config.Config)
		return secrets.GetIMAPPassword(secrets.IMAPKeyringAccount(cur))
	})

	var scanStatus atomic.Value
	scanStatus.Store(inbox.Status{})

	go scheduler.Every(ctx, time.Duration(cfg.Notify.RecomputeSeconds)*time.Second, "recompute", func(context.Context) error {
		app.Recompute()
		return nil
	})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db.Pool,
		App:         app,
		Hub:         hub,
		AI:          aiClient,
		CfgVal:      &cfgVal,
		ScanStatus:  &scanStatus,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		Scanner:     scanner,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.Cors, httpapi.RequestID, httpapi.AccessLog, httpapi.Recover),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// The desktop shell reads the token file so it can stop the engine
	// cleanly on exit.
	token, err := randomToken(16)
	if err != nil {
		return err
	}
	tokenPath := filepath.Join(dataDir, "shutdown.token")
	if err := os.WriteFile(tokenPath, []byte(token), 0o600); err != nil {
		return err
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	log.Printf("level=info msg=\"engine listening\" addr=http://%s db=%s", addr, dbPath)
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
