package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/kbukum/textstream/config"
	apperrors "github.com/kbukum/textstream/errors"
	"github.com/kbukum/textstream/logger"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	app, err := NewApp(newTestConfig("test", "1.0"), opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	cfg := newTestConfig("test-svc", "1.0.0")
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Logger == nil {
		t.Error("expected non-nil logger")
	}
	if app.Cfg.Logging.Level == "" {
		t.Error("expected defaults to be applied")
	}
	if app.Cfg.Name != "test-svc" {
		t.Errorf("expected cfg.Name 'test-svc', got %q", app.Cfg.Name)
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{
		ServiceConfig: config.ServiceConfig{Environment: "development"},
	}
	_, err := NewApp(cfg)
	if err == nil {
		t.Fatal("expected error for missing name")
	}
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestWithLogger(t *testing.T) {
	defer logger.Reset()
	var buf bytes.Buffer
	customLogger := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, &buf, "custom-logger")
	app, err := NewApp(newTestConfig("test", "1.0"), WithLogger(customLogger))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Logger != customLogger {
		t.Error("expected custom logger to be set")
	}

	logger.Get("transcode").Info("component message")
	if !strings.Contains(buf.String(), "component message") {
		t.Errorf("component loggers should write through the custom logger, got %q", buf.String())
	}
}

func TestGracefulTimeout(t *testing.T) {
	if app := newTestApp(t); app.gracefulTimeout != 15*time.Second {
		t.Errorf("expected default 15s, got %v", app.gracefulTimeout)
	}
	if app := newTestApp(t, WithGracefulTimeout(5*time.Second)); app.gracefulTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %v", app.gracefulTimeout)
	}
}

func TestWithSignals(t *testing.T) {
	app := newTestApp(t, WithSignals(syscall.SIGHUP))
	if len(app.signals) != 1 || app.signals[0] != syscall.SIGHUP {
		t.Errorf("expected [SIGHUP], got %v", app.signals)
	}
	if app := newTestApp(t); len(app.signals) != 2 {
		t.Errorf("expected default SIGINT/SIGTERM, got %v", app.signals)
	}
}

func TestRunHooks(t *testing.T) {
	order := []string{}
	hooks := []Hook{
		func(ctx context.Context) error { order = append(order, "first"); return nil },
		func(ctx context.Context) error { order = append(order, "second"); return nil },
	}
	if err := runHooks(context.Background(), hooks); err != nil {
		t.Fatalf("runHooks: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected [first, second], got %v", order)
	}
}

func TestHookErrorStopsExecution(t *testing.T) {
	secondCalled := false
	sentinel := fmt.Errorf("fail")
	hooks := []Hook{
		func(ctx context.Context) error { return sentinel },
		func(ctx context.Context) error { secondCalled = true; return nil },
	}
	err := runHooks(context.Background(), hooks)
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
	if secondCalled {
		t.Error("expected second hook not to be called after first fails")
	}
}

func TestRunTaskSuccess(t *testing.T) {
	app := newTestApp(t)
	executed := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		executed = true
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if !executed {
		t.Error("expected task to be executed")
	}
}

func TestRunTaskError(t *testing.T) {
	app := newTestApp(t)
	taskErr := apperrors.IO("read", nil)
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		return taskErr
	})
	if err != taskErr {
		t.Errorf("expected task error unchanged, got %v", err)
	}
}

func TestRunTaskCancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := app.RunTask(ctx, func(taskCtx context.Context) error {
		cancel()
		<-taskCtx.Done()
		return taskCtx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunTaskSignal(t *testing.T) {
	app := newTestApp(t, WithSignals(syscall.SIGUSR1))

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return fmt.Errorf("signal did not cancel the task")
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunTaskWithHooks(t *testing.T) {
	app := newTestApp(t)

	order := []string{}
	app.OnStart(func(ctx context.Context) error {
		order = append(order, "start")
		return nil
	})
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		if a.Cfg.Name != "test" {
			t.Errorf("configure got cfg.Name %q", a.Cfg.Name)
		}
		order = append(order, "configure")
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		order = append(order, "stop")
		return nil
	})

	if err := app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		return nil
	}); err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	expected := []string{"start", "configure", "task", "stop"}
	if len(order) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, order)
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("order[%d] = %q, expected %q", i, order[i], v)
		}
	}
}

func TestRunTaskStopHooksRunAfterFailure(t *testing.T) {
	app := newTestApp(t)
	stopped := false
	app.OnStop(func(ctx context.Context) error {
		if ctx.Err() != nil {
			t.Error("stop hooks should get a live context")
		}
		stopped = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	_ = app.RunTask(ctx, func(ctx context.Context) error {
		cancel()
		return fmt.Errorf("task error")
	})
	if !stopped {
		t.Error("expected stop hook to run after a failed task")
	}
}

func TestRunTaskStartupErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(app *App[*testConfig])
	}{
		{
			name: "start hook",
			setup: func(app *App[*testConfig]) {
				app.OnStart(func(ctx context.Context) error { return fmt.Errorf("start hook failed") })
			},
		},
		{
			name: "configure callback",
			setup: func(app *App[*testConfig]) {
				app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
					return fmt.Errorf("configure failed")
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			tt.setup(app)
			executed := false

			err := app.RunTask(context.Background(), func(ctx context.Context) error {
				executed = true
				return nil
			})
			if err == nil {
				t.Error("expected startup error")
			}
			if executed {
				t.Error("task must not run after a failed startup")
			}
		})
	}
}

func TestRunTaskStartupFailureRunsStopHooks(t *testing.T) {
	app := newTestApp(t)
	stopped := false
	app.OnStart(func(ctx context.Context) error {
		app.OnStop(func(ctx context.Context) error {
			stopped = true
			return fmt.Errorf("shutdown failed")
		})
		return nil
	})
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		return fmt.Errorf("metrics unavailable")
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "metrics unavailable") {
		t.Fatalf("expected the configure error, got %v", err)
	}
	if !stopped {
		t.Error("stop hooks registered during startup must run")
	}
}

func TestRunTaskWithStopHookError(t *testing.T) {
	app := newTestApp(t)
	app.OnStop(func(ctx context.Context) error {
		return fmt.Errorf("stop hook failed")
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err == nil {
		t.Error("expected error from failing stop hook")
	}

	taskErr := fmt.Errorf("task error")
	err = app.RunTask(context.Background(), func(ctx context.Context) error {
		return taskErr
	})
	if err != taskErr {
		t.Errorf("task error should take precedence, got %v", err)
	}
}
