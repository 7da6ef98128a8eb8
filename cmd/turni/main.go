package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Luni-4/volunteers-shifts/config"
	applogger "github.com/Luni-4/volunteers-shifts/pkg/logger"
)

// App dependencies shared by every command
type App struct {
	cfg    *config.Config
	logger *zap.Logger
}

var (
	configPath string
	app        = &App{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "turni",
		Short:         "Prenotazione dei turni dei volontari",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "file di configurazione (default ./config/config.yaml)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(importVolunteersCmd())
	rootCmd.AddCommand(purgeShiftsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "errore: %v\n", err)
		os.Exit(1)
	}
}

// init loads configuration and logger
func (a *App) init() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("caricamento configurazione fallito: %w", err)
	}
	a.cfg = cfg

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("inizializzazione log fallita: %w", err)
	}
	a.logger = logger
	return nil
}
