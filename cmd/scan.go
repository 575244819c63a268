package cmd

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	awsx "github.com/dmtruong/rightsizer/internal/aws"
	"github.com/dmtruong/rightsizer/internal/config"
	"github.com/dmtruong/rightsizer/internal/logging"
	"github.com/dmtruong/rightsizer/internal/report"
	"github.com/dmtruong/rightsizer/internal/scan"
	"github.com/dmtruong/rightsizer/internal/sheets"
	"github.com/dmtruong/rightsizer/pkg/provider"
)

// discoveryRegion is used for DescribeRegions when no base region is
// configured anywhere.
const discoveryRegion = "us-east-1"

// scanFlagKeys maps scan command flags to config keys.
var scanFlagKeys = map[string]string{
	"output":             "output",
	"output-path":        "output_path",
	"lookback-days":      "lookback_days",
	"metric-period":      "metric_period",
	"cpu-threshold":      "cpu_low_percent",
	"burst-headroom":     "burst_headroom",
	"batch-size":         "metric_batch_size",
	"concurrency":        "region_concurrency",
	"timeout":            "run_timeout",
	"sheet-key":          "sheet_key",
	"credentials-secret": "credentials_secret",
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan all regions and report underutilized instances",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyFlags(cmd)

		cfg, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		if profile != "" {
			cfg.Profile = profile
		}
		if region != "" {
			cfg.Region = region
		}
		if verbose {
			cfg.Verbose = true
		}
		logging.Init(cfg.Verbose)

		return runScan(cmd.Context(), cfg)
	},
}

func init() {
	scanCmd.Flags().StringP("output", "o", "", "output format: table, json, csv, sheets")
	scanCmd.Flags().String("output-path", "", "directory for json/csv output")
	scanCmd.Flags().Int("lookback-days", 0, "trailing window length in days")
	scanCmd.Flags().Duration("metric-period", 0, "metric granularity, e.g. 1h")
	scanCmd.Flags().Float64("cpu-threshold", 0, "low-utilization threshold in percent")
	scanCmd.Flags().Float64("burst-headroom", 0, "credit balance counted as unused headroom")
	scanCmd.Flags().Int("batch-size", 0, "metric queries per GetMetricData call")
	scanCmd.Flags().Int("concurrency", 0, "regions scanned in parallel")
	scanCmd.Flags().Duration("timeout", 0, "whole-run deadline")
	scanCmd.Flags().String("sheet-key", "", "target spreadsheet key for sheets output")
	scanCmd.Flags().String("credentials-secret", "", "secret reference for sheets credentials")

	rootCmd.AddCommand(scanCmd)
}

// applyFlags copies only flags the user actually set onto viper, so flag
// defaults never shadow file or environment values.
func applyFlags(cmd *cobra.Command) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := scanFlagKeys[f.Name]; ok {
			viper.Set(key, f.Value.String())
		}
	})
}

func runScan(ctx context.Context, cfg *config.Config) error {
	baseRegion := cfg.Region
	if baseRegion == "" {
		baseRegion = discoveryRegion
	}

	awsCfg, err := awsx.LoadConfig(ctx,
		awsx.WithProfile(cfg.Profile),
		awsx.WithRegion(baseRegion),
	)
	if err != nil {
		return err
	}

	// Credential problems surface here, before any fan-out.
	identity, err := awsx.GetCallerIdentity(ctx, awsCfg)
	if err != nil {
		return fmt.Errorf("failed to resolve caller identity: %w", err)
	}

	start, end := cfg.Window(time.Now())
	factory := func(region string) provider.RegionScanner {
		client := awsx.NewClient(awsCfg, region)
		return awsx.NewRegionScanner(client, cfg.MetricPeriod, cfg.MetricBatchSize, start, end)
	}

	catalog := awsx.NewCatalog(awsx.NewClient(awsCfg, baseRegion).EC2)
	scanner := scan.New(cfg, catalog, factory, identity.Account)

	rep, err := scanner.Run(ctx)
	if err != nil {
		return err
	}

	sink := buildSink(cfg, awsCfg)
	dest, err := sink.Write(ctx, rep)
	if err != nil {
		return err
	}

	if cfg.Output != "table" {
		fmt.Printf("Report written to %s (%d underutilized of %d evaluated)\n",
			dest, len(rep.Results), rep.InstancesEvaluated)
	}
	return nil
}

func buildSink(cfg *config.Config, awsCfg awssdk.Config) provider.ReportSink {
	switch cfg.Output {
	case "json":
		return report.JSONWriter{Dir: cfg.OutputPath}
	case "csv":
		return report.CSVWriter{Dir: cfg.OutputPath}
	case "sheets":
		return sheets.NewWriter(cfg.SheetKey, cfg.CredentialsSecret, awsx.NewSecretSource(awsCfg))
	default:
		return report.TableWriter{}
	}
}
