package facade

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/qutlas/solidcore"
	"github.com/qutlas/solidcore/errors"
	"github.com/qutlas/solidcore/resource"
)

// Entry is what the registry stores per handle: the opaque shape plus the
// origin of the resource for diagnostics. Entries are immutable.
type Entry struct {
	Shape  solidcore.Shape
	Origin string // e.g. "load:part.stl", "boolean:fuse"
}

// Facade is the handle-based operation surface. Safe for concurrent use;
// calls block for the full duration of the kernel computation they wrap.
type Facade struct {
	kernel solidcore.Kernel
	reg    *resource.Registry[Entry]
	logger *zap.Logger
	tracer trace.Tracer
}

// Option configures a Facade.
type Option func(*Facade)

// WithLogger sets the logger. The default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Facade) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithTracer sets the tracer used to span kernel calls. The default records
// nothing.
func WithTracer(t trace.Tracer) Option {
	return func(f *Facade) {
		if t != nil {
			f.tracer = t
		}
	}
}

// New creates a facade over kernel with a fresh registry.
func New(kernel solidcore.Kernel, opts ...Option) *Facade {
	f := &Facade{
		kernel: kernel,
		reg:    resource.NewRegistry[Entry](),
		logger: zap.NewNop(),
		tracer: noop.NewTracerProvider().Tracer("solidcore/facade"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Registry exposes the underlying registry for observers and inspection.
func (f *Facade) Registry() *resource.Registry[Entry] {
	return f.reg
}

// Init prepares the kernel. resourcePath may be empty.
func (f *Facade) Init(resourcePath string) error {
	err := f.guard("init", func() error {
		return f.kernel.Init(resourcePath)
	})
	if err != nil {
		f.logger.Warn("kernel init failed", zap.String("path", resourcePath), zap.Error(err))
		return err
	}
	f.logger.Info("kernel initialized", zap.String("path", resourcePath))
	return nil
}

// Load parses model bytes and registers the resulting shape. Empty input is
// an input error; no handle is allocated on any failure.
func (f *Facade) Load(filenameHint string, data []byte) (resource.Handle, error) {
	_, end := f.span("load", attribute.String("hint", filenameHint), attribute.Int("bytes", len(data)))
	defer end()

	if len(data) == 0 {
		return 0, errors.Input("load", "empty input data")
	}

	var shape solidcore.Shape
	err := f.guard("load", func() error {
		var kerr error
		shape, kerr = f.kernel.Load(filenameHint, data)
		return kerr
	})
	if err != nil {
		return 0, errors.Wrap("load", errors.KindParse, err)
	}

	h := f.reg.Insert(Entry{Shape: shape, Origin: "load:" + filenameHint})
	f.logger.Debug("model loaded",
		zap.Uint64("handle", uint64(h)),
		zap.String("hint", filenameHint),
		zap.Int("bytes", len(data)))
	return h, nil
}

// Export serializes the shape under h to the kernel's primary interchange
// format. The returned bytes are owned by the caller.
func (f *Facade) Export(h resource.Handle) ([]byte, error) {
	_, end := f.span("export", attribute.Int64("handle", int64(h)))
	defer end()

	entry, ok := f.reg.Lookup(h)
	if !ok {
		return nil, errors.NotFound("export", uint64(h))
	}

	var out []byte
	err := f.guard("export", func() error {
		var kerr error
		out, kerr = f.kernel.Export(entry.Shape)
		return kerr
	})
	if err != nil {
		return nil, errors.Wrap("export", errors.KindIO, err)
	}
	return out, nil
}

// Bounds computes the axis-aligned bounding box of the shape under h. Pure
// query; no new handle.
func (f *Facade) Bounds(h resource.Handle) (solidcore.Bounds, error) {
	entry, ok := f.reg.Lookup(h)
	if !ok {
		return solidcore.Bounds{}, errors.NotFound("bounds", uint64(h))
	}

	var b solidcore.Bounds
	err := f.guard("bounds", func() error {
		var kerr error
		b, kerr = f.kernel.Bounds(entry.Shape)
		return kerr
	})
	if err != nil {
		return solidcore.Bounds{}, errors.Wrap("bounds", errors.KindAlgorithm, err)
	}
	return b, nil
}

// Boolean derives a new shape from target and tool and registers it. The
// operation name is validated before the handles, so an unknown name fails
// identically whether or not the handles exist.
func (f *Facade) Boolean(target, tool resource.Handle, opName string, tolerance float64) (resource.Handle, error) {
	_, end := f.span("boolean",
		attribute.Int64("target", int64(target)),
		attribute.Int64("tool", int64(tool)),
		attribute.String("op", opName))
	defer end()

	op, ok := solidcore.ParseBoolOp(opName)
	if !ok {
		return 0, errors.Algorithm("boolean", "unknown boolean operation")
	}

	targetEntry, ok := f.reg.Lookup(target)
	if !ok {
		return 0, errors.NotFound("boolean", uint64(target))
	}
	toolEntry, ok := f.reg.Lookup(tool)
	if !ok {
		return 0, errors.NotFound("boolean", uint64(tool))
	}

	var shape solidcore.Shape
	err := f.guard("boolean", func() error {
		var kerr error
		shape, kerr = f.kernel.Boolean(targetEntry.Shape, toolEntry.Shape, op, tolerance)
		return kerr
	})
	if err != nil {
		return 0, errors.Wrap("boolean", errors.KindAlgorithm, err)
	}

	h := f.reg.Insert(Entry{Shape: shape, Origin: "boolean:" + op.String()})
	f.logger.Debug("boolean completed",
		zap.Uint64("handle", uint64(h)),
		zap.String("op", op.String()))
	return h, nil
}

// Fillet registers a derivation of target. The current kernel fillet is a
// documented stub that duplicates the target under the new handle without
// rounding anything; the parameter and handle contract is stable regardless.
func (f *Facade) Fillet(target resource.Handle, edgeIDs []uint64, radius, tolerance float64) (resource.Handle, error) {
	_, end := f.span("fillet", attribute.Int64("target", int64(target)))
	defer end()

	entry, ok := f.reg.Lookup(target)
	if !ok {
		return 0, errors.NotFound("fillet", uint64(target))
	}

	var shape solidcore.Shape
	err := f.guard("fillet", func() error {
		var kerr error
		shape, kerr = f.kernel.Fillet(entry.Shape, edgeIDs, radius, tolerance)
		return kerr
	})
	if err != nil {
		return 0, errors.Wrap("fillet", errors.KindAlgorithm, err)
	}

	h := f.reg.Insert(Entry{Shape: shape, Origin: "fillet"})
	return h, nil
}

// MeshExport triangulates the shape under h and returns the position/
// triangle text export. deflection <= 0 selects the kernel default.
func (f *Facade) MeshExport(h resource.Handle, deflection float64, linear bool) ([]byte, error) {
	_, end := f.span("mesh", attribute.Int64("handle", int64(h)), attribute.Float64("deflection", deflection))
	defer end()

	entry, ok := f.reg.Lookup(h)
	if !ok {
		return nil, errors.NotFound("mesh", uint64(h))
	}

	var out []byte
	err := f.guard("mesh", func() error {
		var kerr error
		out, kerr = f.kernel.Mesh(entry.Shape, deflection, linear)
		return kerr
	})
	if err != nil {
		return nil, errors.Wrap("mesh", errors.KindAlgorithm, err)
	}
	return out, nil
}

// Release erases the handle. Releasing an already-released or never-issued
// handle is a not-found error, not a no-op.
func (f *Facade) Release(h resource.Handle) error {
	if !f.reg.Erase(h) {
		return errors.NotFound("release", uint64(h))
	}
	f.logger.Debug("handle released", zap.Uint64("handle", uint64(h)))
	return nil
}

// Adopt registers an externally produced shape (typically from the
// value-semantics facade) under a new handle. The shape is shared, not
// copied.
func (f *Facade) Adopt(shape solidcore.Shape, origin string) resource.Handle {
	if origin == "" {
		origin = "adopt"
	}
	return f.reg.Insert(Entry{Shape: shape, Origin: origin})
}

// Share hands out the shape under h for use outside the registry, e.g. by
// the value-semantics facade. Both sides reference the same immutable
// kernel object.
func (f *Facade) Share(h resource.Handle) (solidcore.Shape, error) {
	entry, ok := f.reg.Lookup(h)
	if !ok {
		return nil, errors.NotFound("share", uint64(h))
	}
	return entry.Shape, nil
}

// guard runs fn and converts a kernel panic into an algorithm error, keeping
// the no-panic guarantee of the boundary.
func (f *Facade) guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("kernel panic recovered",
				zap.String("op", op),
				zap.Any("panic", r))
			err = errors.Algorithm(op, fmt.Sprintf("kernel panic: %v", r))
		}
	}()
	return fn()
}

func (f *Facade) span(op string, attrs ...attribute.KeyValue) (context.Context, func()) {
	ctx, span := f.tracer.Start(context.Background(), "facade."+op, trace.WithAttributes(attrs...))
	return ctx, func() { span.End() }
}
