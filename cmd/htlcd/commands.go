package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fusionswap/htlc-node/api"
	"github.com/fusionswap/htlc-node/bank"
	"github.com/fusionswap/htlc-node/config"
	"github.com/fusionswap/htlc-node/db"
	"github.com/fusionswap/htlc-node/ledger"
	"github.com/fusionswap/htlc-node/logger"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const dbFileName = "htlc_ledger.db"

func InitRootCmd(rootCmd *cobra.Command) {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(versionCmd())
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file to the daemon home",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetString("owner")

			cfg, err := config.LoadDefaultConfig()
			if err != nil {
				return err
			}
			cfg.OwnerAccount = owner
			cfg.NodeHome = homeDir()

			if err := config.Save(cfg, homeDir()); err != nil {
				return err
			}
			fmt.Printf("Config written under %s\n", homeDir())
			return nil
		},
	}
	cmd.Flags().String("owner", "", "account allowed to call admin operations (required)")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the HTLC ledger daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(homeDir())
			if err != nil {
				return err
			}

			log := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogSampler)
			daemonLog := logger.Named(log, "daemon")

			database, err := db.OpenFileDB(homeDir(), dbFileName, true)
			if err != nil {
				return err
			}

			// The daemon settles against an in-process ledger; embedders
			// running against a real chain construct the engine directly
			// with their own bank.Ledger implementation.
			assetLedger := bank.NewMemoryLedger()

			engine, err := ledger.NewEngine(database, assetLedger, ledger.SystemClock{}, cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			worker := ledger.NewPayoutWorker(engine)
			worker.Start(ctx)

			server := api.NewServer(log, engine, cfg.QueryServerPort)
			if err := server.Start(); err != nil {
				worker.Stop()
				return err
			}

			daemonLog.Info().
				Int("port", cfg.QueryServerPort).
				Str("home", homeDir()).
				Msg("🚀 HTLC ledger daemon started")

			<-ctx.Done()

			daemonLog.Info().Msg("🛑 Shutting down HTLC ledger daemon...")
			worker.Stop()
			if err := server.Stop(); err != nil {
				daemonLog.Error().Err(err).Msg("failed to stop query server")
			}
			return database.Close()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print htlcd version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("htlcd %s\n", Version)
		},
	}
}
