package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nelssec/defcheck/internal/config"
	"github.com/nelssec/defcheck/internal/runinfo"
)

var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	cfgFile   string
)

const (
	exitFailure = 1
	exitStale   = 2
)

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errStaleDefenders) {
			os.Exit(exitStale)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(exitFailure)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "defcheck",
		Short: "Report Prisma Cloud Compute Defenders with stale scans",
		Long: `defcheck queries a Prisma Cloud Compute console for its Defenders and
reports every connected docker, cri or daemonset Defender whose last image
scan or container scan is older than 24 hours.

Stale Defenders are reported data, not a failure: the exit status is 0 unless
--fail-on-stale is set.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCheck,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.config/defcheck/config.yaml)")
	flags.StringP("url", "u", "", "Console URL, e.g. api.prismacloud.io")
	flags.StringP("identity", "i", "", "Access key ID or username")
	flags.StringP("key", "k", "", "Secret key or password (prompted if omitted)")
	flags.Duration("timeout", 0, "HTTP timeout per console request (default 30s)")
	flags.Bool("insecure", false, "Skip TLS certificate verification")
	flags.String("format", "", "Output format: json, table")
	flags.Bool("skip-incomplete", false, "Skip Defenders with missing scan status instead of failing")
	flags.Bool("fail-on-stale", false, "Exit with status 2 when stale Defenders are found")
	flags.BoolP("verbose", "v", false, "Verbose logging")

	viper.BindPFlag("console.url", flags.Lookup("url"))
	viper.BindPFlag("console.identity", flags.Lookup("identity"))
	viper.BindPFlag("console.key", flags.Lookup("key"))
	viper.BindPFlag("console.timeout", flags.Lookup("timeout"))
	viper.BindPFlag("console.insecure", flags.Lookup("insecure"))
	viper.BindPFlag("report.format", flags.Lookup("format"))
	viper.BindPFlag("report.skip_incomplete", flags.Lookup("skip-incomplete"))
	viper.BindPFlag("report.fail_on_stale", flags.Lookup("fail-on-stale"))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return config.InitConfig(cfgFile)
	}

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "defcheck version %s\n", Version)
			fmt.Fprintf(out, "Build time: %s\n", BuildTime)

			info := runinfo.Collect(nowUTC())
			fmt.Fprintf(out, "Host: %s (%s)\n", info.Host, info.Platform)
		},
	}
}
