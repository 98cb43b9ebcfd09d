package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/truestretch/truestretch/internal/config"
	"github.com/truestretch/truestretch/internal/logging"
	"github.com/truestretch/truestretch/internal/prompt"
	"github.com/truestretch/truestretch/internal/report"
	"github.com/truestretch/truestretch/internal/stretch"
	"github.com/truestretch/truestretch/internal/types"
)

// exitPrecondition is the exit status when the native check fails
const exitPrecondition = 2

var cfgFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "truestretch",
	Short: "Force a true stretched resolution in VALORANT's GameUserSettings.ini (close VALORANT first)",
	Long: `truestretch rewrites VALORANT's GameUserSettings.ini files so the game runs
at a stretched resolution.

Setup:  open VALORANT, Settings > Video > Display Mode: Fullscreen, Aspect Ratio: Fill,
        apply and close the game.
Usage:  truestretch verify|preview|apply --native 2560x1440 --target 1280x1024
After:  change the Windows desktop resolution to the target and launch VALORANT.`,
	SilenceErrors: true,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the settings are at native resolution and list the files that would change",
	Args:  cobra.NoArgs,
	RunE:  verify,
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the diff for every settings file without writing",
	Args:  cobra.NoArgs,
	RunE:  preview,
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Write the stretched resolution into every settings file",
	Args:  cobra.NoArgs,
	RunE:  apply,
}

var resolutionsCmd = &cobra.Command{
	Use:   "resolutions",
	Short: "List common native and target resolutions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		report.NewConsole(cmd.OutOrStdout()).Presets(types.NativePresets, types.TargetPresets)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "path to config file")

	// resolutions
	pf.StringP("native", "n", "", "your desktop native resolution, e.g. 2560x1440")
	pf.StringP("target", "t", "", "the resolution you want in VALORANT, e.g. 1280x1024")
	pf.Bool("force", false, "continue even if the native check fails")

	// settings location and pinned values
	pf.String("config-dir", "", `VALORANT config directory (default %LOCALAPPDATA%\VALORANT\Saved\Config)`)
	pf.String("hdr-nits", stretch.DefaultNits, "value written to HDRDisplayOutputNits")
	pf.String("fullscreen-mode", stretch.DefaultMode, "value written to FullscreenMode")

	// other opts
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-output-dir", "", "directory to write log files (if set, logs are written to both stderr and file)")

	applyCmd.Flags().BoolP("yes", "y", false, "apply without confirmation")

	bindFlags(pf, map[string]string{
		"native":          "native",
		"target":          "target",
		"force":           "force",
		"config-dir":      "config_dir",
		"hdr-nits":        "hdr_nits",
		"fullscreen-mode": "fullscreen_mode",
		"log-level":       "log_level",
		"log-output-dir":  "log_output_dir",
	})
	bindFlags(applyCmd.Flags(), map[string]string{"yes": "yes"})

	rootCmd.AddCommand(verifyCmd, previewCmd, applyCmd, resolutionsCmd)
}

// bindFlags binds each named flag of fs to a viper key
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", flag, err))
		}
	}
}

// initConfig reads in config file and environment variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "truestretch"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("TRUESTRETCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// session is the state shared by verify, preview and apply
type session struct {
	cfg     *config.Config
	opts    stretch.Options
	console *report.Console
	runner  *stretch.Runner
	close   func() error
}

// newSession loads the config, sets up logging and parses the resolutions
func newSession(cmd *cobra.Command) (*session, error) {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	native, err := types.ParseResolution(cfg.Native)
	if err != nil {
		return nil, fmt.Errorf("--native: %w", err)
	}
	target, err := types.ParseResolution(cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("--target: %w", err)
	}

	closeLog, err := logging.Setup(cfg.LogLevel, cfg.LogOutputDir, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("could not set up logging: %w", err)
	}

	// the run has started; further errors are not usage errors
	cmd.SilenceUsage = true

	console := report.NewConsole(cmd.OutOrStdout())
	return &session{
		cfg: cfg,
		opts: stretch.Options{
			Native:  native,
			Target:  target,
			Force:   cfg.Force,
			BaseDir: cfg.ConfigDir,
			Nits:    cfg.HDRNits,
			Mode:    cfg.FullscreenMode,
		},
		console: console,
		runner:  stretch.NewRunner(slog.Default(), console.Handle, os.LookupEnv),
		close:   closeLog,
	}, nil
}

// plan runs the native check and prints the planned targets
func (s *session) plan() (*stretch.Plan, error) {
	plan, err := s.runner.Plan(s.opts)
	if err != nil {
		return nil, err
	}
	s.console.Plan(plan)
	return plan, nil
}

func verify(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if _, err := s.plan(); err != nil {
		return err
	}
	s.console.Message("\nVerification complete.")
	return nil
}

func preview(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	plan, err := s.plan()
	if err != nil {
		return err
	}

	rep, err := s.runner.Execute(plan, s.opts)
	if err != nil {
		return err
	}
	s.console.Summary(rep)
	s.console.Message("Dry run complete.")
	return nil
}

func apply(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	plan, err := s.plan()
	if err != nil {
		return err
	}

	s.opts.Apply = s.cfg.Yes
	if !s.opts.Apply {
		fmt.Fprintln(cmd.OutOrStdout())
		if s.opts.Apply, err = prompt.Confirm("Apply changes?", cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return err
		}
		if !s.opts.Apply {
			slog.Info("changes declined, running as dry run")
		}
	}

	rep, err := s.runner.Execute(plan, s.opts)
	if err != nil {
		return err
	}
	s.console.Summary(rep)
	if s.opts.Apply {
		s.console.NextSteps(s.opts.Target)
	}
	return nil
}

// exitCode maps a command error to the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, types.ErrPreconditionMismatch):
		return exitPrecondition
	default:
		return 1
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
