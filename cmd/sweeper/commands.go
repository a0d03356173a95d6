package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pankaj-dahiya-devops/sweeper/internal/checks"
	"github.com/pankaj-dahiya-devops/sweeper/internal/config"
	"github.com/pankaj-dahiya-devops/sweeper/internal/engine"
	"github.com/pankaj-dahiya-devops/sweeper/internal/logging"
	"github.com/pankaj-dahiya-devops/sweeper/internal/output"
	"github.com/pankaj-dahiya-devops/sweeper/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/sweeper/internal/version"
)

// envPrefix namespaces the environment variables bound to flags, e.g.
// SWEEPER_PROFILES or SWEEPER_MAX_RETRIES.
const envPrefix = "SWEEPER"

// deps are the collaborators a command builds at run time. Tests swap them
// for stubs.
type deps struct {
	provider func(maxRetries int) common.AWSClientProvider
	registry func() *checks.Registry
	clients  checks.ClientFactory
	getenv   func(string) string
}

var defaultDeps = deps{
	provider: func(maxRetries int) common.AWSClientProvider {
		return common.NewDefaultAWSClientProvider(maxRetries)
	},
	registry: checks.Default,
	clients:  checks.NewClients,
	getenv:   os.Getenv,
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(defaultDeps)
}

func newRootCmdWith(d deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "sweeper",
		Short: "Report running and billable AWS resources across profiles and regions",
		Long: `sweeper scans every enabled region of each AWS profile and reports
resources that are still running or billable. It never modifies anything.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, d)
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", config.DefaultPath, "YAML config file")
	pf.StringP("profiles", "p", "", "comma-separated AWS profiles (overrides the config file)")
	pf.String("log-level", logging.DefaultLevel, "log level: debug, info, warn, error or disabled")
	pf.String("env-file", "", "dotenv file loaded before credentials are resolved")

	f := root.Flags()
	f.StringP("output", "o", "", "write the report to this file instead of stdout")
	f.String("format", string(output.FormatText), "report format: text or json")
	f.Int("workers", config.DefaultWorkers, "parallel (region, check) units per profile")
	f.Int("max-retries", config.DefaultMaxRetries, "retries for a throttled (region, check) unit")
	f.Bool("progress", false, "show a progress bar on stderr")

	root.AddCommand(newChecksCmd(d))
	root.AddCommand(newDoctorCmd(d))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

func newChecksCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the available checks and whether the config excludes them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, v, err := setup(cmd)
			if err != nil {
				return err
			}

			cfg, _, err := config.LoadOrDefault(ctx, v.GetString("config"))
			if errors.Is(err, config.ErrConfigNotFound) {
				zerolog.Ctx(ctx).Debug().Err(err).Msg("listing checks without a config")
				cfg, err = &config.Config{}, nil
			}
			if err != nil {
				return err
			}

			printChecks(cmd.OutOrStdout(), d.registry(), cfg)
			return nil
		},
	}
}

// printChecks writes one line per registered check: name, description and
// whether cfg excludes it.
func printChecks(w io.Writer, reg *checks.Registry, cfg *config.Config) {
	width := len("CHECK")
	for _, name := range reg.Names() {
		width = max(width, len(name))
	}

	fmt.Fprintf(w, "%-*s  %-8s  %s\n", width, "CHECK", "STATUS", "DESCRIPTION")
	fmt.Fprintln(w, strings.Repeat("-", width+2+8+2+len("DESCRIPTION")))
	for _, c := range reg.All() {
		status := "enabled"
		if cfg.ExcludesCheck(c.Name()) {
			status = "excluded"
		}
		fmt.Fprintf(w, "%-*s  %-8s  %s\n", width, c.Name(), status, c.Description())
	}
}

// setup binds flags and SWEEPER_* variables through viper, loads the dotenv
// file and attaches a logger to the command context.
func setup(cmd *cobra.Command) (context.Context, *viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("env-file"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, nil, fmt.Errorf("load env file %q: %w", path, err)
		}
	}

	lvl, err := logging.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cmd.ErrOrStderr(), lvl)
	return logger.WithContext(cmd.Context()), v, nil
}

// loadConfig loads and validates the config named by --config. Validation
// problems are logged as warnings.
func loadConfig(ctx context.Context, v *viper.Viper, reg *checks.Registry) (*config.Config, error) {
	log := zerolog.Ctx(ctx)

	cfg, path, err := config.LoadOrDefault(ctx, v.GetString("config"))
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Msg("loaded config")

	for _, verr := range config.Validate(cfg, reg.Names()) {
		log.Warn().Err(verr).Msg("config")
	}
	return cfg, nil
}

// resolveSources applies the -p > config > environment precedence and warns
// about overridden or unknown profiles.
func resolveSources(ctx context.Context, v *viper.Viper, cfg *config.Config, getenv func(string) string) ([]common.CredentialSource, error) {
	log := zerolog.Ctx(ctx)

	cli := v.GetString("profiles")
	if strings.TrimSpace(cli) != "" && len(cfg.Profiles) > 0 {
		log.Warn().Strs("config_profiles", cfg.Profiles).Msg("overriding profiles found in config")
	}

	sources, err := common.ResolveSources(cli, cfg.Profiles, getenv)
	if err != nil {
		return nil, err
	}

	if len(sources) == 1 && sources[0].Environment {
		log.Info().Msg("using AWS environment variables for the current session")
		return sources, nil
	}

	known, err := common.DiscoverProfiles()
	if err != nil {
		log.Debug().Err(err).Msg("cannot read shared AWS files")
		return sources, nil
	}
	for _, name := range common.UnknownProfiles(sources, known) {
		log.Warn().Str("profile", name).Msg("profile not found in shared AWS files")
	}
	return sources, nil
}

func runSweep(cmd *cobra.Command, d deps) error {
	ctx, v, err := setup(cmd)
	if err != nil {
		return err
	}
	log := zerolog.Ctx(ctx)

	format, err := output.ParseFormat(v.GetString("format"))
	if err != nil {
		return err
	}

	reg := d.registry()
	cfg, err := loadConfig(ctx, v, reg)
	if err != nil {
		return err
	}

	sources, err := resolveSources(ctx, v, cfg, d.getenv)
	if err != nil {
		return err
	}

	workers := cfg.EffectiveWorkers()
	if v.IsSet("workers") {
		workers = v.GetInt("workers")
	}
	maxRetries := cfg.EffectiveMaxRetries()
	if v.IsSet("max-retries") {
		maxRetries = v.GetInt("max-retries")
	}
	if workers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", workers)
	}
	if maxRetries < 0 {
		return fmt.Errorf("--max-retries must not be negative, got %d", maxRetries)
	}

	opts := engine.Options{
		Sources:    sources,
		Config:     cfg,
		Workers:    workers,
		MaxRetries: maxRetries,
	}

	var bar *progressbar.ProgressBar
	if v.GetBool("progress") {
		bar = newProgressBar(cmd.ErrOrStderr())
		opts.Progress = barProgress{bar}
	}

	dest := v.GetString("output")
	if dest == "" {
		log.Info().Msg("sweeping to screen")
	} else {
		log.Info().Str("path", dest).Msg("sweeping to file")
	}

	eng := engine.NewDefaultEngineWithFactory(d.provider(maxRetries), reg, d.clients)
	report, err := eng.RunSweep(ctx, opts)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("sweep aborted: %w", err)
	}

	if err := output.WriteReport(report, format, dest, cmd.OutOrStdout()); err != nil {
		return err
	}

	log.Info().
		Int("findings", report.Summary.Findings).
		Int("checks_skipped", report.Summary.ChecksSkipped).
		Msg("sweep complete")
	return nil
}

func newProgressBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(0,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionSetDescription("sweeping"),
		progressbar.OptionClearOnFinish(),
	)
}

// barProgress adapts a progress bar to engine.Progress.
type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p barProgress) Expand(n int) { p.bar.ChangeMax(p.bar.GetMax() + n) }
func (p barProgress) Increment()   { _ = p.bar.Add(1) }
