package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/obentoo/pluginutils/internal/common/logger"
	"github.com/obentoo/pluginutils/internal/pluginutils"
	"github.com/obentoo/pluginutils/internal/update"
)

// Config keys read by check-update
const (
	cfgUpdateEnabled  = "update.enabled"
	cfgUpdateURL      = "update.url"
	cfgUpdateInterval = "update.interval"
)

var (
	// checkInterval re-runs the check periodically when positive
	checkInterval time.Duration
	// checkTimeout bounds a single request
	checkTimeout time.Duration
	// checkForce runs even when update.enabled is false
	checkForce bool
)

var errNoUpdateURL = errors.New("no update URL configured")

var checkUpdateCmd = &cobra.Command{
	Use:   "check-update",
	Short: "Check for a newer plugin release",
	Long: `Ask the releases API for the latest release and compare its tag with the
running version. The request runs on a background worker; the result is
reported once it completes.

Examples:
  pluginutils check-update
  pluginutils check-update --update-url https://api.github.com/repos/owner/repo/releases/latest
  pluginutils check-update --interval 6h     Keep checking every six hours`,
	Args: cobra.NoArgs,
	RunE: runCheckUpdate,
}

func init() {
	checkUpdateCmd.Flags().DurationVar(&checkInterval, "interval", 0, "Repeat the check at this interval (default from config, 0 runs once)")
	checkUpdateCmd.Flags().DurationVar(&checkTimeout, "timeout", 30*time.Second, "Timeout of a single request, 0 disables it")
	checkUpdateCmd.Flags().BoolVar(&checkForce, "force", false, "Check even when update.enabled is false")

	rootCmd.AddCommand(checkUpdateCmd)
}

func runCheckUpdate(cmd *cobra.Command, args []string) error {
	u, err := newUtils(pluginutils.WithFetcher(update.NewHTTPFetcher(update.WithTimeout(checkTimeout))))
	if err != nil {
		return err
	}
	l, err := prepare(u)
	if err != nil {
		return err
	}

	cfg := u.Config()
	if enabled, ok := cfg.Get(cfgUpdateEnabled, true).(bool); ok && !enabled && !checkForce {
		logger.Info("Update checks are disabled in %s", cfg.Path())
		return nil
	}

	url := settings.GetString(KeyUpdateURL)
	if url == "" {
		url = cfg.GetString(cfgUpdateURL, "")
	}
	if url == "" {
		return errNoUpdateURL
	}

	interval := checkInterval
	if !cmd.Flags().Changed("interval") {
		interval, err = time.ParseDuration(cfg.GetString(cfgUpdateInterval, "0s"))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", cfgUpdateInterval, err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runChecks(ctx, u, l, url, interval)
}

// runChecks runs one check, then one per interval tick until ctx is done.
// A single run returns the failure of the check.
func runChecks(ctx context.Context, u *pluginutils.Utils, t update.Translator, url string, interval time.Duration) error {
	result, err := checkOnce(ctx, u, t, url)
	if interval <= 0 {
		if err != nil {
			return err
		}
		if !result.OK() {
			return result.Err
		}
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := checkOnce(ctx, u, t, url); err != nil && ctx.Err() == nil {
				return err
			}
		}
	}
}

// checkOnce submits a check and collects its completion on this goroutine
func checkOnce(ctx context.Context, u *pluginutils.Utils, t update.Translator, url string) (update.Result, error) {
	check, err := u.CheckUpdate(url, t)
	if err != nil {
		return update.Result{}, err
	}
	if err := u.Pool().Await(ctx, check.Handle()); err != nil {
		return update.Result{}, err
	}
	result, _ := check.Result()
	return result, nil
}
