package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"go-care-scheduling/cmd/bootstrap"
	"go-care-scheduling/internal/infrastructure/database"
	"go-care-scheduling/internal/seed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "caresched",
		Short: "Care appointment scheduling API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.New()
			if err != nil {
				logrus.Errorf("Failed to initialize application: %v", err)
				return err
			}
			return app.Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(func(m *migrate.Migrate) error { return database.MigrateUp(m) })
		},
	}

	// migrate down
	downCmd := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid steps %q", args[0])
				}
				steps = n
			}
			return runMigration(func(m *migrate.Migrate) error { return database.MigrateDown(m, steps) })
		},
	}

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func runMigration(fn func(m *migrate.Migrate) error) error {
	db, _, err := bootstrap.OpenDatabase()
	if err != nil {
		return err
	}

	m, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func seedCmd() *cobra.Command {
	var opts seed.Options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the store with fake accounts and appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.New()
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Config.App.StoreDriver == bootstrap.StoreDriverMemory {
				app.Log.Warn("Seeding the in-memory store; the data is discarded when this command exits")
			}

			uc := app.Usecases
			seeder := seed.NewSeeder(uc.Directory, uc.Appointment, app.JWT, app.Log, nil)
			result, err := seeder.Run(context.Background(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Seeded %d admins, %d caregivers, %d patients, %d appointments\n",
				len(result.Admins), len(result.Caregivers), len(result.Patients), len(result.Appointments))
			fmt.Fprintln(out, "Development access tokens:")
			for _, t := range result.Tokens {
				fmt.Fprintf(out, "%-9s %s %s\n  %s\n", t.Role, t.AccountID, t.Email, t.AccessToken)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Admins, "admins", 1, "number of admins")
	cmd.Flags().IntVar(&opts.Caregivers, "caregivers", 12, "number of caregivers")
	cmd.Flags().IntVar(&opts.Patients, "patients", 20, "number of patients")
	cmd.Flags().IntVar(&opts.Appointments, "appointments", 30, "number of pending appointments to book")
	cmd.Flags().IntVar(&opts.Approved, "approved", 5, "number of booked appointments to approve")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed for reproducible data (0 = random)")
	return cmd
}
