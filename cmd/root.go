package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global flags
	profile string
	region  string
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rightsizer",
	Short: "Rightsizer - underutilized EC2 instance reporter",
	Long: `Rightsizer scans every enabled AWS region for EC2 instances sized
.medium or larger, aggregates recent CPU utilization (and CPU credit
statistics for burstable families) from CloudWatch, and reports which
instances look underutilized against configured thresholds.

It only reports; it never resizes or terminates anything.

Examples:
  rightsizer scan                        # table on stdout
  rightsizer scan --output json          # report/report.json
  rightsizer scan --output sheets        # new dated worksheet
  rightsizer scan --lookback-days 30 --cpu-threshold 20`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initEnv)

	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	rootCmd.PersistentFlags().StringVarP(&region, "region", "r", "", "base AWS region for discovery calls")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

func initEnv() {
	// Read from environment variables
	viper.SetEnvPrefix("RIGHTSIZER")
	viper.AutomaticEnv()

	// Priority for profile: --profile flag > env
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}

	// Use AWS_REGION if --region not specified
	if region == "" {
		region = os.Getenv("AWS_REGION")
		if region == "" {
			region = os.Getenv("AWS_DEFAULT_REGION")
		}
	}
}
