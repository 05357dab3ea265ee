package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jdziat/livejobs/pkg/config"
	"github.com/jdziat/livejobs/pkg/gateway"
	"github.com/jdziat/livejobs/pkg/notify"
)

// app carries state shared by the subcommands.
type app struct {
	configPath string
	baseURL    string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "livejobs",
		Short:         "Live monitoring client for a job-processing backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&a.baseURL, "base-url", "", "backend base URL (overrides config)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(watchCmd(a))
	root.AddCommand(jobsCmd(a))
	root.AddCommand(statsCmd(a))
	root.AddCommand(dlqCmd(a))
	root.AddCommand(historyCmd(a))
	return root
}

func (a *app) load(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// gateway builds a gateway for one-shot commands. Failures are logged and
// returned; there is no notice display.
func (a *app) gateway() *gateway.Gateway {
	return gateway.New(a.cfg.BaseURL,
		gateway.WithPageSize(a.cfg.PageSize),
		gateway.WithTimeout(a.cfg.FetchTimeout),
		gateway.WithLogger(a.logger),
		gateway.WithNotifier(notify.Discard),
	)
}
