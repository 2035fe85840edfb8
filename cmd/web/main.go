package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	handlers "github.com/smustafa75/aws-calc/pkg/handlers/estimate"
	"github.com/smustafa75/aws-calc/pkg/models/domain"
	"github.com/smustafa75/aws-calc/pkg/server"
	"github.com/smustafa75/aws-calc/pkg/services/config"
	pricingstore "github.com/smustafa75/aws-calc/pkg/store/pricing"
)

var (
	profile string
	workers int
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the pricing web API",
		RunE:  runServer,
	}

	d := config.DefaultSettings()
	rootCmd.Flags().StringVarP(&profile, "profile", "p", d.Profile, "AWS profile used for the Price List API")
	rootCmd.Flags().IntVar(&workers, "workers", 4, "Maximum concurrent price lookups per request")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	awsCfg, err := config.LoadConfig(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}
	logger.Info().Msgf("Using AWS profile `%s` for the Price List API.", profile)

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	d := config.DefaultSettings()
	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Lookup: pricingstore.NewStoreFromConfig(*awsCfg),
			Estimate: handlers.Options{
				Defaults: domain.QueryParams{
					Region:          d.Region,
					OperatingSystem: d.OperatingSystem,
					Tenancy:         d.Tenancy,
					Profile:         profile,
				},
				Workers: workers,
				Timeout: d.Timeout,
			},
			Logger: logger,
		},
	})

	return api.Start()
}
