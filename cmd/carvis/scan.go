package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"carvis-engine/internal/ai"
	"carvis-engine/internal/config"
	"carvis-engine/internal/inbox"
	"carvis-engine/internal/secrets"
	"carvis-engine/internal/store"
	"carvis-engine/internal/track"
)

var scanDataDir string

// scanCmd runs one inbox scan against the stored state and prints the
// outcome, without starting the server.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one inbox scan and print the result as JSON",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanDataDir, "data-dir", "", "engine data directory (default $CARVIS_DATA_DIR or .)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	dataDir := resolveDataDir(scanDataDir)
	userCfgPath, err := config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
	if err != nil {
		return err
	}
	raw, err := config.Load(userCfgPath)
	if err != nil {
		return err
	}
	cfg, vr := config.NormalizeAndValidate(raw)
	if !vr.OK() {
		return fmt.Errorf("config invalid: %v", vr.Errors)
	}

	db, err := store.Open(filepath.Join(dataDir, "carvis.db"))
	if err != nil {
		return err
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	app := track.New(track.WithDB(db.Pool))
	if err := app.LoadPersisted(ctx); err != nil {
		return err
	}

	var comfort inbox.Comforter
	if cfg.AI.Enabled {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			if client, err := ai.New(cfg, key); err == nil {
				comfort = client
			}
		}
	}
	scanner := inbox.NewScanner(comfort, func() (string, error) {
		return secrets.GetIMAPPassword(secrets.IMAPKeyringAccount(cfg))
	})

	out := scanner.Scan(ctx, cfg, app.User(), app.Snapshot())
	app.AddScanNotification(out.Notification, track.ScanResult{Comfort: out.Comfort, JobID: out.JobID})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
