package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/trainadmin/internal/api"
	"github.com/nhle/trainadmin/internal/app"
	"github.com/nhle/trainadmin/internal/credential"
	"github.com/nhle/trainadmin/internal/logging"
	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/store"
)

const appName = "trainadmin"

var (
	configPath string
	logLevel   string
	forceInit  bool

	rootCmd = &cobra.Command{
		Use:          appName,
		Short:        "Terminal admin client for the train schedule service",
		SilenceUsage: true,
		RunE:         run,
	}
	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session tokens",
		RunE:  logout,
	}
	initConfigCmd = &cobra.Command{
		Use:   "init-config",
		Short: "Write the effective configuration to the config file",
		RunE:  initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "Config file path")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	initConfigCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")

	rootCmd.AddCommand(logoutCmd, initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.Open(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	s, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	creds, err := credential.Open()
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.API, logger)
	tokens, err := creds.LoadTokens()
	switch {
	case err == nil:
		client.SetToken(tokens.AccessToken)
	case errors.Is(err, credential.ErrNotFound):
		logger.Info("no stored session")
	default:
		logger.Warn("loading stored session", "err", err)
	}

	root := app.New(app.Deps{
		Config:      cfg,
		Store:       s,
		Credentials: creds,
		Client:      client,
		Logger:      logger,
	})
	defer root.Shutdown()

	logger.Info("starting", "api", cfg.API.BaseURL, "store", cfg.Store.Path)
	if _, err := tea.NewProgram(root, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("program exited", "err", err)
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func logout(cmd *cobra.Command, args []string) error {
	creds, err := credential.Open()
	if err != nil {
		return err
	}
	if err := creds.ClearTokens(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := model.SaveConfig(configPath, cfg); err != nil {
		return err
	}
	log.New(cmd.OutOrStdout()).Info("wrote config", "path", configPath)
	return nil
}
