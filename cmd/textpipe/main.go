// Command textpipe decodes a file from one charset and writes it to standard
// output re-encoded in another.
//
//	textpipe --from ISO-8859-1 --to UTF-8 legacy.txt > modern.txt
//
// Exit status is 0 on success, 1 for usage and configuration errors and 2
// when reading, converting or writing fails.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/kbukum/textstream/bootstrap"
	"github.com/kbukum/textstream/config"
	"github.com/kbukum/textstream/errors"
	"github.com/kbukum/textstream/logger"
	"github.com/kbukum/textstream/observability"
	"github.com/kbukum/textstream/version"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes textpipe and returns its exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return errors.ExitOK
		}
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		fs.Usage()
		return errors.ExitCode(errors.Usage(err.Error()))
	}

	if v, _ := fs.GetBool("version"); v {
		fmt.Fprintln(stdout, version.Get().String(serviceName))
		return errors.ExitOK
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return errors.ExitCode(errors.Usage("expected exactly one input path"))
	}

	if err := convert(ctx, fs, fs.Arg(0), stdout); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return errors.ExitCode(err)
	}
	return errors.ExitOK
}

// convert loads the configuration, then runs one conversion of input as a
// bootstrap task.
func convert(ctx context.Context, fs *pflag.FlagSet, input string, stdout io.Writer) error {
	var cfg CLIConfig
	opts := append([]config.LoaderOption{
		config.WithDefault("name", serviceName),
		config.WithDefault("version", version.GetShortVersion()),
		config.WithDefault("telemetry.sample_rate", 1.0),
	}, loaderOptions(fs)...)
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	p, err := newPlan(cfg.Pipeline, input)
	if err != nil {
		return err
	}

	var metrics *observability.Metrics
	app.OnStart(func(ctx context.Context) error {
		shutdown, err := observability.Setup(ctx, cfg.Telemetry, cfg.Name, cfg.Version, cfg.Environment)
		if err != nil {
			return errors.InvalidConfig("telemetry", "cannot start telemetry").WithCause(err)
		}
		app.OnStop(func(ctx context.Context) error { return shutdown(ctx) })
		return nil
	})
	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*CLIConfig]) error {
		m, err := observability.NewMetrics(observability.Meter(a.Name))
		if err != nil {
			return errors.Internal(err)
		}
		metrics = m
		return nil
	})

	return app.RunTask(ctx, func(ctx context.Context) error {
		runID := uuid.NewString()
		ctx = logger.ContextWithRunID(ctx, runID)

		r := observability.NewRun(cfg.Name, runID, metrics)
		ctx, span := r.Start(ctx, observability.SpanPipelineRun)
		observability.SetSpanAttribute(ctx, observability.AttrInputPath, input)
		observability.SetSpanAttribute(ctx, observability.AttrCharsetFrom, p.from.Name())
		observability.SetSpanAttribute(ctx, observability.AttrCharsetTo, p.to.Name())

		log := logger.Get("cli").WithContext(ctx)
		log.Info("run started", p.fields())

		err := p.run(ctx, stdout, metrics, logger.Get("transcode").WithContext(ctx))
		r.End(ctx, span, err)

		fields := logger.MergeWithDuration(p.fields(), r.Duration())
		if err != nil {
			fields = logger.MergeWithError(fields, err)
		}
		log.Info("run finished", fields)
		return err
	})
}
