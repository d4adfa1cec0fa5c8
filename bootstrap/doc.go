// Package bootstrap runs a finite task with a uniform lifecycle.
//
// NewApp applies defaults to the typed configuration, validates it and
// initializes the global logger. RunTask then runs the OnStart hooks and the
// configure callbacks, executes the task under a context that is canceled on
// SIGINT or SIGTERM, and finally runs the OnStop hooks within a graceful
// timeout.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStop(flushTelemetry)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return convert(ctx)
//	})
package bootstrap
