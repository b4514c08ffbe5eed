package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the htlcd command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "htlcd",
		Short: "Destination-chain HTLC ledger daemon",
	}

	rootCmd.PersistentFlags().String("home", "", "daemon home directory (default: ~/.htlcd, env: HTLCD_HOME)")
	_ = viper.BindPFlag("home", rootCmd.PersistentFlags().Lookup("home"))
	_ = viper.BindEnv("home", "HTLCD_HOME")

	InitRootCmd(rootCmd) // add subcommands like `init`, `start` and `version`

	return rootCmd
}

// homeDir resolves the daemon home: flag, then env, then ~/.htlcd.
func homeDir() string {
	if home := viper.GetString("home"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".htlcd"
	}
	return filepath.Join(userHome, ".htlcd")
}
