package ir_test

import (
	"testing"

	"github.com/dusklang/duskc/ir"
	"github.com/dusklang/duskc/parser"
	"github.com/dusklang/duskc/sema"
	"github.com/dusklang/duskc/types"
)

func compile(t *testing.T, src, entry string) *ir.Module {
	t.Helper()
	file, err := parser.Parse("test.dusk", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	in := types.NewInterner()
	if bag := sema.Analyze(file, in); bag.HasErrors() {
		t.Fatalf("sema errors: %v", bag.Items())
	}
	mod, bag := ir.Build(file, in, entry)
	if bag.HasErrors() {
		t.Fatalf("ir errors: %v", bag.Items())
	}
	return mod
}

func TestBuildEmptyVertexShader(t *testing.T) {
	src := `
[[stage(vertex)]]
fn main() [[location(0)]] float4 {
	return float4(0.0, 0.0, 0.0, 1.0);
}
`
	mod := compile(t, src, "main")
	if len(mod.EntryPoints) != 1 {
		t.Fatalf("expected 1 entry point, got %d", len(mod.EntryPoints))
	}
	ep := mod.EntryPoints[0]
	if ep.Stage != ir.StageVertex {
		t.Fatalf("expected vertex stage, got %v", ep.Stage)
	}
	if len(ep.Interface) != 1 {
		t.Fatalf("expected 1 interface variable (output position), got %d", len(ep.Interface))
	}
	if ep.Interface[0].Storage != types.StorageOutput {
		t.Fatalf("expected output storage, got %v", ep.Interface[0].Storage)
	}
}

func TestBuildPositionPassthrough(t *testing.T) {
	src := `
[[stage(vertex)]]
fn main([[location(0)]] pos : float4) [[builtin(position)]] float4 {
	return pos;
}
`
	mod := compile(t, src, "main")
	ep := mod.EntryPoints[0]
	if len(ep.Interface) != 2 {
		t.Fatalf("expected 2 interface vars (input + output), got %d", len(ep.Interface))
	}
}

func TestBuildUniformBufferRead(t *testing.T) {
	src := `
type Uniforms struct(std140) {
	mvp : float4x4,
};
[[set(0), binding(0)]]
let (uniform) u : Uniforms;

[[stage(vertex)]]
fn main() [[builtin(position)]] float4 {
	return u.mvp[0];
}
`
	mod := compile(t, src, "main")
	if len(mod.Globals) < 2 {
		t.Fatalf("expected at least 2 globals (uniform + output), got %d", len(mod.Globals))
	}
	var foundUniform bool
	for _, g := range mod.Globals {
		if g.Storage == types.StorageUniform {
			foundUniform = true
			if g.Binding == nil || g.Binding.Set != 0 || g.Binding.Binding != 0 {
				t.Fatalf("expected set=0 binding=0, got %+v", g.Binding)
			}
		}
	}
	if !foundUniform {
		t.Fatal("expected a uniform-storage global")
	}
}

func TestBuildFragmentDiscard(t *testing.T) {
	src := `
[[stage(fragment)]]
fn main([[location(0)]] a : float) [[location(0)]] float4 {
	if (a < 0.5) {
		discard;
	}
	return float4(a, a, a, 1.0);
}
`
	mod := compile(t, src, "main")
	fn := mod.EntryPoints[0].Function
	var sawDiscard bool
	for _, blk := range fn.Blocks {
		if _, ok := blk.Term.(*ir.Discard); ok {
			sawDiscard = true
		}
	}
	if !sawDiscard {
		t.Fatal("expected a block terminated by Discard")
	}
}

func TestBuildShortCircuitAndProducesPhi(t *testing.T) {
	src := `
fn pick(a : bool, b : bool) bool {
	return a && b;
}

[[stage(fragment)]]
fn main() {}
`
	mod := compile(t, src, "main")
	var sawPhi bool
	for _, blk := range mod.Functions[0].Blocks {
		for _, v := range blk.Insts {
			if v.Op == ir.OpPhi {
				sawPhi = true
			}
		}
	}
	if !sawPhi {
		t.Fatal("expected a Phi instruction lowering &&")
	}
}

func TestBuildSwizzleShuffle(t *testing.T) {
	src := `
fn swiz(v : float4) float3 {
	return v.xyz;
}

[[stage(fragment)]]
fn main() {}
`
	mod := compile(t, src, "main")
	var sawShuffle bool
	for _, blk := range mod.Functions[0].Blocks {
		for _, v := range blk.Insts {
			if v.Op == ir.OpVectorShuffle {
				sawShuffle = true
			}
		}
	}
	if !sawShuffle {
		t.Fatal("expected a VectorShuffle instruction lowering .xyz")
	}
}

func TestBuildMissingEntryPointIsFatal(t *testing.T) {
	src := `
fn helper() float { return 1.0; }
`
	file, err := parser.Parse("test.dusk", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	in := types.NewInterner()
	if bag := sema.Analyze(file, in); bag.HasErrors() {
		t.Fatalf("sema errors: %v", bag.Items())
	}
	_, bag := ir.Build(file, in, "main")
	if !bag.HasErrors() {
		t.Fatal("expected a fatal diagnostic for a missing entry point")
	}
}
