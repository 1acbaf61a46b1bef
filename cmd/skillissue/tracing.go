package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Akram012388/skillissue-world/pkg/config"
	"github.com/Akram012388/skillissue-world/pkg/telemetry"
	"github.com/Akram012388/skillissue-world/pkg/version"
)

// initTracing initializes the OpenTelemetry tracing system
func initTracing(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	tc := cfg.Tracing
	tc.ServiceVersion = version.Get().Version
	return telemetry.InitTracer(ctx, tc)
}

var tracer = telemetry.Tracer("skillissue.cli")

// sensitiveFlags are never recorded on spans.
var sensitiveFlags = map[string]bool{
	"db-dsn":   true,
	"password": true,
	"token":    true,
}

// commandAttributes describes an invocation for the command span.
func commandAttributes(cmd *cobra.Command, args []string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("command.name", cmd.Name()),
		attribute.String("command.path", cmd.CommandPath()),
		attribute.Int("args.count", len(args)),
	}
	cmd.Flags().Visit(func(flag *pflag.Flag) {
		if !sensitiveFlags[flag.Name] {
			attrs = append(attrs, attribute.String("flag."+flag.Name, flag.Value.String()))
		}
	})
	return attrs
}

// withTracing wraps a Cobra command with tracing
func withTracing(cmd *cobra.Command) *cobra.Command {
	originalRun := cmd.RunE

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, span := tracer.Start(
			cmd.Context(),
			"cli.command",
			trace.WithAttributes(commandAttributes(cmd, args)...),
		)
		defer span.End()

		cmd.SetContext(ctx)

		if err := originalRun(cmd, args); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		span.SetStatus(codes.Ok, "")
		return nil
	}

	return cmd
}

func init() {
	rootCmd.PersistentFlags().Bool("tracing-enabled", false, "Enable OpenTelemetry tracing")
	rootCmd.PersistentFlags().String("tracing-endpoint", "", "OTLP HTTP endpoint (default from OTEL_EXPORTER_OTLP_ENDPOINT)")
	rootCmd.PersistentFlags().String("tracing-sampler", "ratio", "Tracing sampler type (always, never, ratio)")
	rootCmd.PersistentFlags().Float64("tracing-ratio", 1, "Sampling ratio when using ratio sampler")

	viper.BindPFlag("tracing.enabled", rootCmd.PersistentFlags().Lookup("tracing-enabled"))
	viper.BindPFlag("tracing.endpoint", rootCmd.PersistentFlags().Lookup("tracing-endpoint"))
	viper.BindPFlag("tracing.sampler", rootCmd.PersistentFlags().Lookup("tracing-sampler"))
	viper.BindPFlag("tracing.ratio", rootCmd.PersistentFlags().Lookup("tracing-ratio"))
}
