package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Luni-4/volunteers-shifts/internal/notify"
	"github.com/Luni-4/volunteers-shifts/internal/repository"
	"github.com/Luni-4/volunteers-shifts/internal/roster"
	"github.com/Luni-4/volunteers-shifts/internal/service"
	"github.com/Luni-4/volunteers-shifts/pkg/database"
)

func migrateCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Applica o annulla le migrazioni del database",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sqlDB, err := app.openDB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			switch args[0] {
			case "up":
				return database.RunMigrations(sqlDB, app.logger)
			case "down":
				return database.RollbackMigrations(sqlDB, steps, app.logger)
			default:
				return fmt.Errorf("direzione sconosciuta %q (up o down)", args[0])
			}
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "migrazioni da annullare con down")
	return cmd
}

func importVolunteersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-volunteers",
		Short: "Importa il registro dei volontari dall'URL configurato",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, sqlDB, err := app.openDB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			svc := service.NewVolunteerService(
				repository.NewRepository(db),
				roster.NewFetcher(&app.cfg.Roster, app.logger),
				app.logger,
			)
			n, err := svc.RefreshRoster(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d volontari importati\n", n)
			return nil
		},
	}
}

func purgeShiftsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-shifts",
		Short: "Elimina i turni con data precedente a oggi",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, sqlDB, err := app.openDB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			builder, err := app.builder()
			if err != nil {
				return err
			}
			svc := service.NewShiftService(
				repository.NewRepository(db),
				builder,
				service.NewFormGuard(nil, time.Minute),
				notify.NewBroadcaster(notify.DefaultBuffer),
				app.logger,
			)
			n, err := svc.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d turni eliminati\n", n)
			return nil
		},
	}
}
