package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/nelssec/defcheck/internal/config"
	"github.com/nelssec/defcheck/internal/console"
	"github.com/nelssec/defcheck/internal/credentials"
	"github.com/nelssec/defcheck/internal/defender"
	"github.com/nelssec/defcheck/internal/logging"
	"github.com/nelssec/defcheck/internal/output"
	"github.com/nelssec/defcheck/internal/runinfo"
)

var errStaleDefenders = errors.New("stale defenders found")

var nowUTC = func() time.Time {
	return time.Now().UTC()
}

// consoleAPI is the part of console.Client the check needs.
type consoleAPI interface {
	Authenticate(ctx context.Context, identity, secret string) (string, error)
	Defenders(ctx context.Context, token string) ([]defender.Agent, error)
}

type checkResult struct {
	Fetched int
	Report  *defender.Report
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	_, done, err := logging.Init(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer done()

	secret, err := credentials.ResolveSecret(cfg.Console.Key, os.Stdin, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	client, err := console.New(console.Options{
		URL:      cfg.Console.URL,
		Timeout:  cfg.GetTimeout(),
		Insecure: cfg.Console.Insecure,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := otelzap.Ctx(ctx)
	run := runinfo.Collect(nowUTC())
	runField := zap.String("run_id", run.ID)

	logger.Info("Checking defender scan freshness",
		runField,
		zap.String("console", client.BaseURL()),
		zap.String("identity", cfg.Console.Identity),
		zap.String("host", run.Host))
	if cfg.Console.Insecure {
		logger.Warn("TLS certificate verification disabled", runField)
	}

	res, err := check(ctx, client, cfg.Console.Identity, secret, run.StartedAt,
		defender.WithSkipIncomplete(cfg.Report.SkipIncomplete))
	if err != nil {
		return err
	}

	for _, host := range res.Report.Skipped {
		logger.Warn("Skipped defender with incomplete scan status", runField, zap.String("hostname", host))
	}

	out := cmd.OutOrStdout()
	switch cfg.GetFormat() {
	case config.FormatTable:
		output.PrintTable(out, res.Fetched, res.Report, run)
	default:
		if err := output.PrintJSON(out, res.Fetched, res.Report); err != nil {
			return err
		}
	}

	logger.Info("Defender check complete",
		runField,
		zap.Int("fetched", res.Fetched),
		zap.Int("evaluated", len(res.Report.Details)),
		zap.Int("stale", len(res.Report.StaleHostnames)))

	if cfg.Report.FailOnStale && len(res.Report.StaleHostnames) > 0 {
		return errStaleDefenders
	}
	return nil
}

// check performs one authentication, one fetch and one evaluation. Any
// failure aborts without a partial result.
func check(ctx context.Context, api consoleAPI, identity, secret string, now time.Time, opts ...defender.Option) (*checkResult, error) {
	token, err := api.Authenticate(ctx, identity, secret)
	if err != nil {
		return nil, err
	}

	agents, err := api.Defenders(ctx, token)
	if err != nil {
		return nil, err
	}

	report, err := defender.Check(agents, now, opts...)
	if errors.Is(err, defender.ErrMissingField) {
		return nil, errors.WithHint(err, "rerun with --skip-incomplete to exclude Defenders without scan status")
	}
	if err != nil {
		return nil, err
	}

	return &checkResult{Fetched: len(agents), Report: report}, nil
}
