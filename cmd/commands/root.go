package commands

import (
	"fmt"
	"io"
	"os"

	"cureconnect/cmd/bootstrap"
	"cureconnect/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cureconnect",
	Short: "CureConnect healthcare backend",
	Long: `CureConnect serves doctor and patient accounts, live profile sync,
profile pictures, the doctor directory and the medical assistant chat.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newReconcileCommand())
	rootCmd.AddCommand(newChatCommand())
	rootCmd.AddCommand(newPictureCommand())
}

func loadConfig() (*config.Config, *logrus.Logger, io.Closer, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, closer := bootstrap.NewLogger(cfg.Log)
	log.Info("Configuration loaded successfully")
	return cfg, log, closer, nil
}
