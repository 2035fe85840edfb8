package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
	"github.com/smustafa75/aws-calc/pkg/runtime/terminal/export"
	"github.com/smustafa75/aws-calc/pkg/services/config"
	"github.com/smustafa75/aws-calc/pkg/services/estimate"
	"github.com/smustafa75/aws-calc/pkg/services/pricing"
	"github.com/smustafa75/aws-calc/pkg/store/table"
)

var (
	ErrUsage       = errors.New("invalid usage")
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

// TableStore reads the input table and writes the result sheet.
type TableStore interface {
	ReadTable(ctx context.Context, path string) (domain.Table, error)
	WriteTable(ctx context.Context, sheet table.Sheet, path string) error
}

// Backend is everything a run needs once an AWS identity is chosen.
type Backend struct {
	Lookup pricing.Lookup
	Tables TableStore
}

// Connector builds a Backend for an AWS profile.
type Connector func(ctx context.Context, profile string) (*Backend, error)

// ConsoleReporter renders an estimate, e.g. *terminal.Reporter or *export.Reporter.
type ConsoleReporter interface {
	Handle(est *domain.Estimate) error
}

type Dependencies struct {
	Profiles config.Registry
	Connect  Connector
	Reporter ConsoleReporter
	Summary  ConsoleReporter
}

type EstimateCmd struct {
	configPath string
	viper      *viper.Viper
	deps       Dependencies
}

func NewEstimateCmd(deps Dependencies) *cobra.Command {
	ec := &EstimateCmd{viper: config.NewViper(), deps: deps}
	d := config.DefaultSettings()

	cmd := &cobra.Command{
		Use:           "aws-calc",
		Short:         "Estimate EC2 on-demand cost for an instance inventory",
		Long:          "Reads a CSV or Excel table of instances, prices each row with the AWS Price List API and reports hourly, monthly and total cost.",
		RunE:          ec.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&ec.configPath, "config", "", "Path to an optional YAML settings file")
	cmd.Flags().StringP("input", "i", "", "Input table (.csv or .xlsx, local path or s3://bucket/key)")
	cmd.Flags().StringP("output", "o", "", "Output table; when omitted results are only printed")
	cmd.Flags().StringP("region", "r", d.Region, "AWS region code to price in")
	cmd.Flags().StringP("profile", "p", d.Profile, "AWS profile used for the Price List API")
	cmd.Flags().String("operating-system", d.OperatingSystem, "Operating system (also accepted as -os)")
	cmd.Flags().StringP("tenancy", "t", d.Tenancy, "Instance tenancy")
	cmd.Flags().Int("workers", d.Workers, "Maximum concurrent price lookups")
	cmd.Flags().Duration("timeout", d.Timeout, "Timeout of a single price lookup")
	cmd.Flags().Bool("memoize", d.Memoize, "Reuse lookups for identical rows within a run")
	cmd.Flags().String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")

	return cmd
}

func (ec *EstimateCmd) run(cmd *cobra.Command, _ []string) error {
	if err := ec.viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	settings, err := config.LoadSettings(ec.viper, ec.configPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if settings.Input == "" {
		return fmt.Errorf("%w: an input file is required (--input/-i)", ErrUsage)
	}

	ctx := cmd.Context()
	level, err := zerolog.ParseLevel(strings.ToLower(settings.LogLevel))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	logger := zerolog.Ctx(ctx).Level(level)
	ctx = logger.WithContext(ctx)

	if err := ec.checkProfile(ctx, settings.Profile); err != nil {
		return err
	}

	backend, err := ec.deps.Connect(ctx, settings.Profile)
	if err != nil {
		return err
	}

	t, err := backend.Tables.ReadTable(ctx, settings.Input)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	resolver := pricing.NewResolver(backend.Lookup,
		pricing.WithTimeout(settings.Timeout),
		pricing.WithMemoization(settings.Memoize))
	params := domain.QueryParams{
		Region:          settings.Region,
		OperatingSystem: settings.OperatingSystem,
		Tenancy:         settings.Tenancy,
		Profile:         settings.Profile,
	}

	est, err := estimate.NewEstimator(resolver, settings.Workers).Run(ctx, t, params)
	if err != nil {
		return fmt.Errorf("estimate aborted: %w", err)
	}

	if err := ec.deps.Reporter.Handle(est); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if settings.Output == "" {
		return ec.deps.Summary.Handle(est)
	}
	if err := backend.Tables.WriteTable(ctx, export.BuildSheet(est), settings.Output); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return writeLine(cmd.OutOrStdout(), "Results written to %s", settings.Output)
}

// checkProfile fails fast when the shared files define profiles but not this one.
// Without any shared profiles the SDK decides, e.g. from environment credentials.
func (ec *EstimateCmd) checkProfile(ctx context.Context, profile string) error {
	if ec.deps.Profiles == nil {
		return nil
	}
	profiles, err := ec.deps.Profiles.GetProfiles(ctx)
	if err != nil || len(profiles) == 0 {
		return nil
	}
	if !ec.deps.Profiles.HasProfile(ctx, profile) {
		names := make([]string, len(profiles))
		for i, p := range profiles {
			names[i] = p.String()
		}
		return fmt.Errorf("%w: '%s' (available: %s)",
			config.ErrProfileNotFound, profile, strings.Join(names, ", "))
	}
	return nil
}

func writeLine(w io.Writer, format string, args ...interface{}) error {
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}
