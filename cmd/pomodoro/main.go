package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/npratt/pomodoro/internal/config"
	"github.com/npratt/pomodoro/internal/timer"
	"github.com/npratt/pomodoro/internal/tui"
)

var version = "dev"

// loadConfig loads the layered config and applies the flag overrides shared
// by every command. Paths come back resolved against the state directory.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.LoadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if logFile := v.GetString(FlagLogFile); logFile != "" {
		cfg.Paths.Log = logFile
	}
	if v.GetBool(FlagNoSound) {
		cfg.Sound.Enabled = false
	}

	cfg.Paths, err = config.ResolvePaths(cfg.Paths, "")
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	return cfg, nil
}

// phaseRows describes the phases for the phases command.
func phaseRows() [][]string {
	rows := make([][]string, 0, len(timer.Phases))
	for _, p := range timer.Phases {
		theme := p.Theme()
		rows = append(rows, []string{
			p.Label(),
			timer.FormatTime(p.Seconds()),
			strconv.Itoa(p.Seconds()),
			p.Next().Label(),
			theme.Background,
			theme.BackgroundSecondary,
			theme.Foreground,
		})
	}
	return rows
}

func newRootCmd(logger *slog.Logger, logLevel *slog.LevelVar) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("POMODORO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "pomodoro",
		Short: "A simple terminal pomodoro timer",
		Long: `pomodoro is a single-screen pomodoro timer. It alternates between a
25 minute Focus phase and a 5 minute Rest phase and rings when a running
phase runs out.

In a terminal it opens an interactive screen. Without one (or with
--tui=false) it runs the chosen phase once, printing the remaining time
every minute, and exits when the phase is over.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v.GetBool(FlagVerbose) {
				logLevel.Set(slog.LevelDebug)
				logger.Debug("verbose logging enabled")
			}

			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			phase := timer.PhaseFocus
			if name := v.GetString(FlagPhase); name != "" {
				phase, err = timer.ParsePhase(name)
				if err != nil {
					return err
				}
			}

			// Explicit flag or env wins; otherwise detect a terminal.
			tuiEnabled := v.GetBool(FlagTUI)
			if !v.IsSet(FlagTUI) {
				tuiEnabled = tui.IsTerminal()
			}

			return runTimer(cmd.Context(), runOptions{
				cfg:      cfg,
				phase:    phase,
				tui:      tuiEnabled,
				logger:   logger,
				logLevel: logLevel,
				out:      cmd.OutOrStdout(),
			})
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .pomodoro/config.yaml)")
	rootCmd.PersistentFlags().String(FlagLogFile, "", "Event log path")
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})

	rootCmd.Flags().Bool(FlagTUI, false, "Force the interactive screen on or off (default: auto-detect)")
	rootCmd.Flags().Bool(FlagNoSound, false, "Do not ring when a phase ends")
	rootCmd.Flags().String(FlagPhase, "", "Phase to start in: focus or rest")
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pomodoro %s\n", version)
		},
	}

	// Phases command
	phasesCmd := &cobra.Command{
		Use:   "phases",
		Short: "List the timer phases",
		Run: func(cmd *cobra.Command, args []string) {
			headers := []string{"Phase", "Duration", "Seconds", "Next", "Background", "Accent", "Text"}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, phaseRows(), aligns))
		},
	}

	// Config command
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	// Events command
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "View recent timer events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			if v.GetBool(FlagFollow) {
				return tailFollow(cmd.Context(), cmd.OutOrStdout(), cfg.Paths.Log)
			}
			return tailLast(cmd.OutOrStdout(), cfg.Paths.Log, v.GetInt(FlagCount))
		},
	}

	eventsCmd.Flags().Bool(FlagFollow, false, "Follow event stream (like tail -f)")
	eventsCmd.Flags().Int(FlagCount, 20, "Number of recent events to show")
	eventsCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(phasesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(eventsCmd)

	return rootCmd
}

func main() {
	logLevel := &slog.LevelVar{}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	rootCmd := newRootCmd(logger, logLevel)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
