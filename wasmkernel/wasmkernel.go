package wasmkernel

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	wasi "github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/qutlas/solidcore"
	"github.com/qutlas/solidcore/errors"
)

// Guest ABI. Every export takes a (errPtr, errCap) pair at the end; on
// failure the guest writes a NUL-terminated diagnostic there.
//
//	kernel_load(dataPtr, dataLen u32, errPtr, errCap u32) -> handle u64
//	kernel_export_step(handle u64, outPtrPtr, outLenPtr u32, errPtr, errCap u32) -> i32
//	kernel_get_bounds(handle u64, outPtr u32, errPtr, errCap u32) -> i32
//	kernel_boolean(target, tool u64, opPtr, opLen u32, tolerance f64, errPtr, errCap u32) -> handle u64
//	kernel_fillet(target u64, edgesPtr, edgesLen u32, radius, tolerance f64, errPtr, errCap u32) -> handle u64
//	kernel_generate_mesh(handle u64, deflection f64, linear i32, outPtrPtr, outLenPtr u32, errPtr, errCap u32) -> i32
//	kernel_release(handle u64) -> i32
//	kernel_alloc(size u32) -> ptr u32
//	kernel_free(ptr, size u32)
//
// Handle 0 and status 0 are the guest's failure sentinels, mirroring the
// host boundary conventions.
const (
	fnLoad     = "kernel_load"
	fnExport   = "kernel_export_step"
	fnBounds   = "kernel_get_bounds"
	fnBoolean  = "kernel_boolean"
	fnFillet   = "kernel_fillet"
	fnMesh     = "kernel_generate_mesh"
	fnRelease  = "kernel_release"
	fnAlloc    = "kernel_alloc"
	fnFree     = "kernel_free"
	fnInitOpt = "kernel_init" // optional
)

var requiredExports = []string{
	fnLoad, fnExport, fnBounds, fnBoolean, fnFillet, fnMesh,
	fnRelease, fnAlloc, fnFree,
}

const (
	errBufCap   = 1024
	boundsBytes = 48 // 6 little-endian f64
)

// Config holds configuration for kernel creation.
type Config struct {
	// Module is the compiled guest kernel (core wasm bytes).
	Module []byte

	// MemoryLimitPages caps guest memory in 64KB pages. 0 means the wazero
	// default.
	MemoryLimitPages uint32
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithLogger sets the logger. The default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(k *Kernel) {
		if l != nil {
			k.logger = l
		}
	}
}

// Kernel implements solidcore.Kernel over a wasm guest module. Safe for
// concurrent use; every guest call holds the kernel mutex for its full
// duration because the guest instance is single-threaded.
type Kernel struct {
	mu      sync.Mutex
	runtime wazero.Runtime
	mod     api.Module
	mem     api.Memory
	fns     map[string]api.Function
	errPtr  uint32
	logger  *zap.Logger
}

// guestShape is the host-side view of a shape owned by the guest.
type guestShape struct {
	handle uint64
}

// New compiles and instantiates the guest module and prepares the shared
// diagnostic slot. The instance gets a unique name so several kernels can
// share a process.
func New(ctx context.Context, cfg Config, opts ...Option) (*Kernel, error) {
	if len(cfg.Module) == 0 {
		return nil, errors.Input("wasmkernel", "empty guest module")
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	k := &Kernel{
		runtime: r,
		fns:     make(map[string]api.Function, len(requiredExports)+1),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(k)
	}

	if _, err := wasi.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, errors.Wrap("wasmkernel", errors.KindAlgorithm, fmt.Errorf("instantiate wasi: %w", err))
	}

	compiled, err := r.CompileModule(ctx, cfg.Module)
	if err != nil {
		_ = r.Close(ctx)
		return nil, errors.Wrap("wasmkernel", errors.KindParse, fmt.Errorf("compile guest: %w", err))
	}

	name := "solidcore-" + uuid.NewString()
	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		_ = r.Close(ctx)
		return nil, errors.Wrap("wasmkernel", errors.KindAlgorithm, fmt.Errorf("instantiate guest: %w", err))
	}
	k.mod = mod

	if k.mem = mod.Memory(); k.mem == nil {
		_ = r.Close(ctx)
		return nil, errors.Input("wasmkernel", "guest exports no memory")
	}
	for _, export := range requiredExports {
		fn := mod.ExportedFunction(export)
		if fn == nil {
			_ = r.Close(ctx)
			return nil, errors.Input("wasmkernel", "guest missing export "+export)
		}
		k.fns[export] = fn
	}
	if init := mod.ExportedFunction(fnInitOpt); init != nil {
		k.fns[fnInitOpt] = init
	}

	k.errPtr, err = k.allocLocked(ctx, errBufCap)
	if err != nil {
		_ = r.Close(ctx)
		return nil, err
	}

	k.logger.Info("wasm kernel instantiated",
		zap.String("instance", name),
		zap.Int("module_bytes", len(cfg.Module)))
	return k, nil
}

// Close tears down the guest instance and runtime.
func (k *Kernel) Close(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.runtime.Close(ctx)
}

// Init forwards resourcePath to the guest's optional kernel_init export. A
// guest without one needs no preparation.
func (k *Kernel) Init(resourcePath string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	ctx := context.Background()

	init, ok := k.fns[fnInitOpt]
	if !ok {
		return nil
	}

	ptr, free, err := k.copyIn(ctx, "init", []byte(resourcePath))
	if err != nil {
		return err
	}
	defer free()

	res, err := init.Call(ctx, uint64(ptr), uint64(len(resourcePath)), uint64(k.errPtr), errBufCap)
	if err != nil {
		return errors.Wrap("init", errors.KindAlgorithm, err)
	}
	if len(res) > 0 && uint32(res[0]) == 0 {
		return k.guestError("init", errors.KindAlgorithm, 0)
	}
	return nil
}

// Load hands model bytes to the guest and wraps the returned guest handle.
func (k *Kernel) Load(filenameHint string, data []byte) (solidcore.Shape, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	ctx := context.Background()

	if len(data) == 0 {
		return nil, errors.Input("load", "empty input data")
	}

	ptr, free, err := k.copyIn(ctx, "load", data)
	if err != nil {
		return nil, err
	}
	defer free()

	res, err := k.fns[fnLoad].Call(ctx, uint64(ptr), uint64(len(data)), uint64(k.errPtr), errBufCap)
	if err != nil {
		return nil, errors.Wrap("load", errors.KindAlgorithm, err)
	}
	if res[0] == 0 {
		guestErr := k.guestError("load", errors.KindParse, 0)
		if filenameHint != "" {
			guestErr.Detail += fmt.Sprintf(" (input %q)", filenameHint)
		}
		return nil, guestErr
	}

	k.logger.Debug("guest loaded model",
		zap.Uint64("guest_handle", res[0]),
		zap.Int("bytes", len(data)))
	return &guestShape{handle: res[0]}, nil
}

// Export asks the guest to serialize the shape to its primary format and
// copies the result out of guest memory.
func (k *Kernel) Export(s solidcore.Shape) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	ctx := context.Background()

	shape, err := k.shape("export", s)
	if err != nil {
		return nil, err
	}
	return k.copyOutCall(ctx, "export", errors.KindIO, k.fns[fnExport],
		shape.handle)
}

// Bounds reads the guest-computed extents from a 48-byte guest slot.
func (k *Kernel) Bounds(s solidcore.Shape) (solidcore.Bounds, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	ctx := context.Background()

	shape, err := k.shape("bounds", s)
	if err != nil {
		return solidcore.Bounds{}, err
	}

	outPtr, free, err := k.allocScratch(ctx, "bounds", boundsBytes)
	if err != nil {
		return solidcore.Bounds{}, err
	}
	defer free()

	res, err := k.fns[fnBounds].Call(ctx, shape.handle, uint64(outPtr), uint64(k.errPtr), errBufCap)
	if err != nil {
		return solidcore.Bounds{}, errors.Wrap("bounds", errors.KindAlgorithm, err)
	}
	if uint32(res[0]) == 0 {
		return solidcore.Bounds{}, k.guestError("bounds", errors.KindAlgorithm, shape.handle)
	}

	var vals [6]float64
	for i := range vals {
		v, ok := k.mem.ReadFloat64Le(outPtr + uint32(i*8))
		if !ok {
			return solidcore.Bounds{}, errors.Algorithm("bounds", "guest bounds slot out of range")
		}
		vals[i] = v
	}
	return solidcore.Bounds{
		MinX: vals[0], MinY: vals[1], MinZ: vals[2],
		MaxX: vals[3], MaxY: vals[4], MaxZ: vals[5],
	}, nil
}

// Boolean passes the canonical operation name through to the guest.
func (k *Kernel) Boolean(target, tool solidcore.Shape, op solidcore.BoolOp, tolerance float64) (solidcore.Shape, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	ctx := context.Background()

	targetShape, err := k.shape("boolean", target)
	if err != nil {
		return nil, err
	}
	toolShape, err := k.shape("boolean", tool)
	if err != nil {
		return nil, err
	}

	opName := op.String()
	opPtr, free, err := k.copyIn(ctx, "boolean", []byte(opName))
	if err != nil {
		return nil, err
	}
	defer free()

	res, err := k.fns[fnBoolean].Call(ctx,
		targetShape.handle, toolShape.handle,
		uint64(opPtr), uint64(len(opName)),
		api.EncodeF64(tolerance),
		uint64(k.errPtr), errBufCap)
	if err != nil {
		return nil, errors.Wrap("boolean", errors.KindAlgorithm, err)
	}
	if res[0] == 0 {
		return nil, k.guestError("boolean", errors.KindAlgorithm, targetShape.handle)
	}
	return &guestShape{handle: res[0]}, nil
}

// Fillet marshals the edge list as little-endian u64s into guest memory.
func (k *Kernel) Fillet(target solidcore.Shape, edgeIDs []uint64, radius, tolerance float64) (solidcore.Shape, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	ctx := context.Background()

	shape, err := k.shape("fillet", target)
	if err != nil {
		return nil, err
	}

	edges := make([]byte, 8*len(edgeIDs))
	for i, id := range edgeIDs {
		binary.LittleEndian.PutUint64(edges[i*8:], id)
	}
	edgesPtr, free, err := k.copyIn(ctx, "fillet", edges)
	if err != nil {
		return nil, err
	}
	defer free()

	res, err := k.fns[fnFillet].Call(ctx,
		shape.handle,
		uint64(edgesPtr), uint64(len(edgeIDs)),
		api.EncodeF64(radius), api.EncodeF64(tolerance),
		uint64(k.errPtr), errBufCap)
	if err != nil {
		return nil, errors.Wrap("fillet", errors.KindAlgorithm, err)
	}
	if res[0] == 0 {
		return nil, k.guestError("fillet", errors.KindAlgorithm, shape.handle)
	}
	return &guestShape{handle: res[0]}, nil
}

// Mesh asks the guest for the position/triangle text export.
func (k *Kernel) Mesh(s solidcore.Shape, deflection float64, linear bool) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	ctx := context.Background()

	shape, err := k.shape("mesh", s)
	if err != nil {
		return nil, err
	}

	linearFlag := uint64(0)
	if linear {
		linearFlag = 1
	}
	return k.copyOutCall(ctx, "mesh", errors.KindAlgorithm, k.fns[fnMesh],
		shape.handle, api.EncodeF64(deflection), linearFlag)
}

// ReleaseShape frees the guest-side resources behind s. The registry above
// does not know about guest handles, so callers release explicitly when a
// shape leaves every registry.
func (k *Kernel) ReleaseShape(s solidcore.Shape) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	ctx := context.Background()

	shape, err := k.shape("release", s)
	if err != nil {
		return err
	}
	res, err := k.fns[fnRelease].Call(ctx, shape.handle)
	if err != nil {
		return errors.Wrap("release", errors.KindAlgorithm, err)
	}
	if uint32(res[0]) == 0 {
		return errors.NotFound("release", shape.handle)
	}
	return nil
}

// copyOutCall runs a guest export that returns a (ptr, len) pair through two
// u32 out-slots, copies the bytes out, and frees the guest allocation.
func (k *Kernel) copyOutCall(ctx context.Context, op string, failKind errors.Kind, fn api.Function, args ...uint64) ([]byte, error) {
	outSlots, free, err := k.allocScratch(ctx, op, 8)
	if err != nil {
		return nil, err
	}
	defer free()

	callArgs := append(args, uint64(outSlots), uint64(outSlots+4), uint64(k.errPtr), errBufCap)
	res, err := fn.Call(ctx, callArgs...)
	if err != nil {
		return nil, errors.Wrap(op, errors.KindAlgorithm, err)
	}
	if uint32(res[0]) == 0 {
		return nil, k.guestError(op, failKind, 0)
	}

	ptr, ok1 := k.mem.ReadUint32Le(outSlots)
	size, ok2 := k.mem.ReadUint32Le(outSlots + 4)
	if !ok1 || !ok2 {
		return nil, errors.Algorithm(op, "guest result slot out of range")
	}
	data, ok := k.mem.Read(ptr, size)
	if !ok {
		return nil, errors.Algorithm(op, "guest result buffer out of range")
	}

	out := make([]byte, len(data))
	copy(out, data)

	if _, err := k.fns[fnFree].Call(ctx, uint64(ptr), uint64(size)); err != nil {
		k.logger.Warn("guest free failed", zap.String("op", op), zap.Error(err))
	}
	return out, nil
}

// copyIn allocates guest memory, writes data into it, and returns the guest
// pointer plus a cleanup that frees the allocation.
func (k *Kernel) copyIn(ctx context.Context, op string, data []byte) (uint32, func(), error) {
	if len(data) == 0 {
		return 0, func() {}, nil
	}
	ptr, free, err := k.allocScratch(ctx, op, uint32(len(data)))
	if err != nil {
		return 0, nil, err
	}
	if !k.mem.Write(ptr, data) {
		free()
		return 0, nil, errors.Algorithm(op, "guest allocation out of range")
	}
	return ptr, free, nil
}

// allocScratch allocates size bytes of guest memory with a paired cleanup.
func (k *Kernel) allocScratch(ctx context.Context, op string, size uint32) (uint32, func(), error) {
	ptr, err := k.allocLocked(ctx, size)
	if err != nil {
		return 0, nil, err
	}
	free := func() {
		if _, err := k.fns[fnFree].Call(ctx, uint64(ptr), uint64(size)); err != nil {
			k.logger.Warn("guest free failed", zap.String("op", op), zap.Error(err))
		}
	}
	return ptr, free, nil
}

func (k *Kernel) allocLocked(ctx context.Context, size uint32) (uint32, error) {
	res, err := k.fns[fnAlloc].Call(ctx, uint64(size))
	if err != nil {
		return 0, errors.Wrap("alloc", errors.KindAllocation, err)
	}
	ptr := uint32(res[0])
	if ptr == 0 {
		return 0, errors.Allocation("alloc", int(size))
	}
	return ptr, nil
}

// guestError reads the NUL-terminated diagnostic the guest left in the
// shared slot.
func (k *Kernel) guestError(op string, kind errors.Kind, handle uint64) *errors.Error {
	detail := "guest reported failure"
	if raw, ok := k.mem.Read(k.errPtr, errBufCap); ok {
		for i, c := range raw {
			if c == 0 {
				if i > 0 {
					detail = string(raw[:i])
				}
				break
			}
		}
	}
	return &errors.Error{Op: op, Kind: kind, Detail: detail, Handle: handle}
}

// shape narrows an opaque shape back to this kernel's guest handle.
func (k *Kernel) shape(op string, s solidcore.Shape) (*guestShape, error) {
	shape, ok := s.(*guestShape)
	if !ok || shape == nil {
		return nil, errors.Input(op, fmt.Sprintf("shape %T does not belong to the wasm kernel", s))
	}
	if shape.handle == 0 || shape.handle == math.MaxUint64 {
		return nil, errors.Input(op, "guest handle out of range")
	}
	return shape, nil
}
