package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/servicelayer/internal/config"
	"github.com/vango-dev/servicelayer/internal/errors"
	"github.com/vango-dev/servicelayer/pkg/registry"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath  string
	logLevel    string
	logFormat   string
	s3Region    string
	s3Endpoint  string
	s3PathStyle bool

	logger *slog.Logger
}

func (g *globals) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&g.configPath, "config", "c", config.DefaultFileName, "Registry document: a file path or s3://bucket/key")
	f.StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringVar(&g.logFormat, "log-format", "text", "Log format (text, json)")
	f.StringVar(&g.s3Region, "s3-region", "", "S3 region (default $AWS_REGION or us-east-1)")
	f.StringVar(&g.s3Endpoint, "s3-endpoint", "", "S3 endpoint override for S3 compatible stores")
	f.BoolVar(&g.s3PathStyle, "s3-path-style", false, "Use path-style S3 addressing")
}

func (g *globals) setup(w io.Writer) error {
	logger, err := newLogger(w, g.logLevel, g.logFormat)
	if err != nil {
		return err
	}
	g.logger = logger
	slog.SetDefault(logger)
	return nil
}

// newLogger builds the process logger from the --log-level and --log-format
// flags.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.New("E150").
			WithKey("--log-level").
			WithDetailf("unknown log level %q", level).
			WithSuggestion("Use debug, info, warn or error")
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, errors.New("E150").
		WithKey("--log-format").
		WithDetailf("unknown log format %q", format).
		WithSuggestion("Use text or json")
}

// load reads the registry document and builds the registry from it.
func (g *globals) load(ctx context.Context) (*registry.Registry, error) {
	src, err := config.Open(g.configPath, func() config.S3GetObjectAPI {
		return config.NewS3Client(config.S3ClientConfig{
			Region:    g.s3Region,
			Endpoint:  g.s3Endpoint,
			PathStyle: g.s3PathStyle,
		})
	})
	if err != nil {
		return nil, err
	}
	f, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := f.Registry()
	if err != nil {
		return nil, err
	}
	g.logger.Debug("Service registry loaded.", "source", src.String(), "services", reg.Len())
	return reg, nil
}
