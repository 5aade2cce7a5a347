// Command solidcore loads solid models, runs kernel operations on them, and
// exports the results. The kernel backend is selectable: the built-in mesh
// kernel, or any geometry kernel compiled to wasm.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/qutlas/solidcore"
	"github.com/qutlas/solidcore/facade"
	"github.com/qutlas/solidcore/meshkernel"
	"github.com/qutlas/solidcore/resource"
	"github.com/qutlas/solidcore/wasmkernel"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "solidcore",
	Short:        "Solid model loading, booleans, and mesh export",
	Version:      version,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("kernel", "mesh", "kernel backend (mesh or wasm)")
	pf.String("module", "", "guest module path for the wasm kernel")
	pf.Float64("deflection", 0, "tessellation deflection (0 = kernel default)")
	pf.Float64("tolerance", 1e-9, "boolean fuzzy-match tolerance")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.Bool("trace", false, "print spans for every kernel call")

	viper.SetEnvPrefix("SOLIDCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"kernel", "module", "deflection", "tolerance", "log-level", "trace"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session holds everything a subcommand needs, built from flags and
// SOLIDCORE_* environment variables.
type session struct {
	facade     *facade.Facade
	logger     *zap.Logger
	deflection float64
	tolerance  float64
	shutdown   func()
}

func newSession(ctx context.Context) (*session, error) {
	logger, err := newLogger(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}

	kernel, err := newKernel(ctx, logger)
	if err != nil {
		return nil, err
	}

	opts := []facade.Option{facade.WithLogger(logger)}
	shutdown := func() { _ = logger.Sync() }

	if viper.GetBool("trace") {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
		if err != nil {
			return nil, fmt.Errorf("create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
		opts = append(opts, facade.WithTracer(tp.Tracer("solidcore/cli")))
		shutdown = func() {
			_ = tp.Shutdown(context.Background())
			_ = logger.Sync()
		}
	}

	f := facade.New(kernel, opts...)
	if err := f.Init(""); err != nil {
		shutdown()
		return nil, err
	}

	return &session{
		facade:     f,
		logger:     logger,
		deflection: viper.GetFloat64("deflection"),
		tolerance:  viper.GetFloat64("tolerance"),
		shutdown:   shutdown,
	}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func newKernel(ctx context.Context, logger *zap.Logger) (solidcore.Kernel, error) {
	switch backend := viper.GetString("kernel"); backend {
	case "mesh":
		return meshkernel.New(), nil
	case "wasm":
		modulePath := viper.GetString("module")
		if modulePath == "" {
			return nil, fmt.Errorf("the wasm kernel needs --module (or SOLIDCORE_MODULE)")
		}
		moduleBytes, err := os.ReadFile(modulePath)
		if err != nil {
			return nil, fmt.Errorf("read guest module: %w", err)
		}
		return wasmkernel.New(ctx, wasmkernel.Config{Module: moduleBytes},
			wasmkernel.WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown kernel backend %q (mesh or wasm)", backend)
	}
}

// loadFile reads a model file and registers it with the session facade.
func (s *session) loadFile(path string) (resource.Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read model: %w", err)
	}
	return s.facade.Load(path, data)
}

// writeOut writes data to path, or stdout when path is empty or "-".
func writeOut(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
