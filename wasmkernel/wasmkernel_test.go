package wasmkernel

import (
	"context"
	"strings"
	"testing"

	"github.com/qutlas/solidcore/errors"
)

// Smallest valid core module: just the magic and version.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// A module that exports one memory and nothing else.
var memoryOnlyModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// memory section: one memory, min 1 page
	0x05, 0x03, 0x01, 0x00, 0x01,
	// export section: "memory" -> mem 0
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
}

func TestNew_EmptyModule(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if errors.KindOf(err) != errors.KindInput {
		t.Fatalf("kind = %q, want %q", errors.KindOf(err), errors.KindInput)
	}
}

func TestNew_GarbageBytesFailCompile(t *testing.T) {
	_, err := New(context.Background(), Config{Module: []byte("not wasm at all")})
	if err == nil {
		t.Fatal("expected compile failure")
	}
	if errors.KindOf(err) != errors.KindParse {
		t.Fatalf("kind = %q, want %q", errors.KindOf(err), errors.KindParse)
	}
}

func TestNew_ModuleWithoutMemory(t *testing.T) {
	_, err := New(context.Background(), Config{Module: emptyModule})
	if err == nil {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(err.Error(), "no memory") {
		t.Fatalf("error %q does not name the missing memory", err)
	}
}

func TestNew_ModuleWithoutKernelExports(t *testing.T) {
	_, err := New(context.Background(), Config{Module: memoryOnlyModule})
	if err == nil {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(err.Error(), "missing export "+fnLoad) {
		t.Fatalf("error %q does not name the first missing export", err)
	}
	if errors.KindOf(err) != errors.KindInput {
		t.Fatalf("kind = %q, want %q", errors.KindOf(err), errors.KindInput)
	}
}

func TestShape_RejectsForeignShapes(t *testing.T) {
	k := &Kernel{}

	if _, err := k.shape("export", "not a guest shape"); errors.KindOf(err) != errors.KindInput {
		t.Fatalf("kind = %q, want %q", errors.KindOf(err), errors.KindInput)
	}
	if _, err := k.shape("export", &guestShape{handle: 0}); errors.KindOf(err) != errors.KindInput {
		t.Fatal("zero guest handle must be rejected")
	}
	if _, err := k.shape("export", &guestShape{handle: 7}); err != nil {
		t.Fatalf("valid guest shape rejected: %v", err)
	}
}
