package dusk

import (
	"encoding/binary"
	"testing"
)

func magicOf(t *testing.T, b []byte) uint32 {
	t.Helper()
	if len(b) < 20 {
		t.Fatalf("SPIR-V output too short: %d bytes", len(b))
	}
	return binary.LittleEndian.Uint32(b[0:4])
}

func TestCompileEmptyVertexShader(t *testing.T) {
	src := `
[[stage(vertex)]]
fn main() [[location(0)]] float4 {
	return float4(0.0, 0.0, 0.0, 1.0);
}
`
	out, err := Compile("vertex.dusk", src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if magicOf(t, out) != 0x07230203 {
		t.Fatal("bad SPIR-V magic number")
	}
}

func TestCompilePositionPassthrough(t *testing.T) {
	src := `
[[stage(vertex)]]
fn main([[location(0)]] pos : float4) [[builtin(position)]] float4 {
	return pos;
}
`
	out, err := Compile("vertex.dusk", src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if magicOf(t, out) != 0x07230203 {
		t.Fatal("bad SPIR-V magic number")
	}
}

func TestCompileUniformBuffer(t *testing.T) {
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
	out, err := Compile("vertex.dusk", src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if magicOf(t, out) != 0x07230203 {
		t.Fatal("bad SPIR-V magic number")
	}
}

func TestCompileFragmentDiscard(t *testing.T) {
	src := `
[[stage(fragment)]]
fn main([[location(0)]] a : float) [[location(0)]] float4 {
	if (a < 0.5) {
		discard;
	}
	return float4(a, a, a, 1.0);
}
`
	out, err := Compile("frag.dusk", src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if magicOf(t, out) != 0x07230203 {
		t.Fatal("bad SPIR-V magic number")
	}
}

func TestCompileMathBuiltins(t *testing.T) {
	src := `
[[stage(fragment)]]
fn main([[location(0)]] v : float3) [[location(0)]] float4 {
	let n = @normalize(v);
	let len = @length(v);
	return float4(n, len);
}
`
	out, err := Compile("frag.dusk", src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if magicOf(t, out) != 0x07230203 {
		t.Fatal("bad SPIR-V magic number")
	}
}

func TestCompileShortCircuit(t *testing.T) {
	src := `
[[stage(fragment)]]
fn main([[location(0)]] a : float, [[location(1)]] b : float) [[location(0)]] float4 {
	if (a > 0.0 && b > 0.0) {
		return float4(1.0, 1.0, 1.0, 1.0);
	}
	return float4(0.0, 0.0, 0.0, 1.0);
}
`
	out, err := Compile("frag.dusk", src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if magicOf(t, out) != 0x07230203 {
		t.Fatal("bad SPIR-V magic number")
	}
}

func TestCompileTextureSample(t *testing.T) {
	src := `
[[set(0), binding(0)]]
let (uniform_constant) tex : texture2d;
[[set(0), binding(1)]]
let (uniform_constant) samp : sampler;

[[stage(fragment)]]
fn main([[location(0)]] uv : float2) [[location(0)]] float4 {
	return @image_sample(tex, samp, uv);
}
`
	out, err := Compile("frag.dusk", src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if magicOf(t, out) != 0x07230203 {
		t.Fatal("bad SPIR-V magic number")
	}
}

func TestCompileMissingEntryPoint(t *testing.T) {
	src := `
fn helper() float { return 1.0; }
`
	if _, err := CompileWithOptions("x.dusk", src, Options{Entry: "main"}); err == nil {
		t.Fatal("expected an error for a missing entry point")
	}
}

func TestCompileSemaError(t *testing.T) {
	src := `
[[stage(vertex)]]
fn main() [[builtin(position)]] float4 {
	return 1;
}
`
	if _, err := Compile("x.dusk", src); err == nil {
		t.Fatal("expected a semantic error for returning an int where float4 is required")
	}
}
