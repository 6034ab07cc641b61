package main

import (
	"context"
	"crypto/tls"
	"fmt"

	"nomadoctor/internal/config"
	applog "nomadoctor/pkg/log"

	"github.com/rs/zerolog"
	"go.temporal.io/sdk/contrib/envconfig"

	temporalclient "go.temporal.io/sdk/client"
)

// dialTemporal starts from the TEMPORAL_* environment and overrides it with
// whatever the config file sets
func dialTemporal(ctx context.Context, cfg config.TemporalConfig, logger zerolog.Logger) (temporalclient.Client, error) {
	clientOptions := envconfig.MustLoadDefaultClientOptions()

	if cfg.HostPort != "" {
		clientOptions.HostPort = cfg.HostPort
	}
	if cfg.Namespace != "" {
		clientOptions.Namespace = cfg.Namespace
	}

	if cfg.TLS {
		clientOptions.ConnectionOptions = temporalclient.ConnectionOptions{
			TLS: &tls.Config{
				MinVersion: tls.VersionTLS12,
				NextProtos: []string{"h2"},
			},
		}
	}

	if cfg.APIKey != "" {
		clientOptions.Credentials = temporalclient.NewAPIKeyStaticCredentials(cfg.APIKey)
	}

	clientOptions.Logger = applog.NewTemporalAdapter(logger)

	c, err := temporalclient.DialContext(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to create Temporal client: %w", err)
	}
	return c, nil
}
