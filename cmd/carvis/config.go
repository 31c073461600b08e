package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"carvis-engine/internal/config"
)

var configDataDir string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the engine configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the user config and print errors and warnings",
	RunE:  runConfigValidate,
}

func init() {
	configCmd.PersistentFlags().StringVar(&configDataDir, "data-dir", "", "engine data directory (default $CARVIS_DATA_DIR or .)")
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	dataDir := resolveDataDir(configDataDir)
	userCfgPath, err := config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
	if err != nil {
		return err
	}
	raw, err := config.Load(userCfgPath)
	if err != nil {
		return err
	}

	_, vr := config.NormalizeAndValidate(raw)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(vr); err != nil {
		return err
	}
	if !vr.OK() {
		return fmt.Errorf("config has %d error(s)", len(vr.Errors))
	}
	return nil
}
