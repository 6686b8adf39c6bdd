package types

import "testing"

func TestInternerIdempotence(t *testing.T) {
	in := NewInterner()
	f32 := in.Float(32)
	a := in.Vector(f32, 4)
	b := in.Vector(in.Float(32), 4)

	if a != b {
		t.Fatalf("expected identical pointer for structurally equal vector types")
	}
	if a.Signature() != b.Signature() {
		t.Fatalf("expected byte-equal canonical strings, got %q vs %q", a.Signature(), b.Signature())
	}
}

func TestInternerDistinctTypes(t *testing.T) {
	in := NewInterner()
	v3 := in.Vector(in.Float(32), 3)
	v4 := in.Vector(in.Float(32), 4)
	if v3 == v4 {
		t.Fatalf("distinct vector lengths must not share an identity")
	}
}

func TestStructLayoutStd140(t *testing.T) {
	in := NewInterner()
	f32 := in.Float(32)
	float4 := in.Vector(f32, 4)

	s := in.Struct("S", []StructField{
		{Name: "a", Type: float4},
		{Name: "b", Type: f32},
	}, LayoutStd140, true)

	if s.Fields[0].Offset != 0 {
		t.Errorf("a offset = %d, want 0", s.Fields[0].Offset)
	}
	if s.Fields[1].Offset != 16 {
		t.Errorf("b offset = %d, want 16", s.Fields[1].Offset)
	}
	if s.ByteSize != 32 {
		t.Errorf("size = %d, want 32", s.ByteSize)
	}
	if s.Align != 16 {
		t.Errorf("align = %d, want 16", s.Align)
	}
}

func TestStructLayoutStd430(t *testing.T) {
	in := NewInterner()
	f32 := in.Float(32)
	float3 := in.Vector(f32, 3)

	s := in.Struct("S", []StructField{
		{Name: "a", Type: float3},
		{Name: "b", Type: f32},
	}, LayoutStd430, true)

	if s.Fields[0].Offset != 0 {
		t.Errorf("a offset = %d, want 0", s.Fields[0].Offset)
	}
	if s.Fields[1].Offset != 12 {
		t.Errorf("b offset = %d, want 12", s.Fields[1].Offset)
	}
	if s.ByteSize != 16 {
		t.Errorf("size = %d, want 16", s.ByteSize)
	}
	if s.Align != 16 {
		t.Errorf("align = %d, want 16", s.Align)
	}
}

func TestMarkLivePropagates(t *testing.T) {
	in := NewInterner()
	f32 := in.Float(32)
	v4 := in.Vector(f32, 4)
	ptr := in.Pointer(v4, StorageUniform)

	MarkLive(ptr)

	if !ptr.Emit || !v4.Emit || !f32.Emit {
		t.Fatalf("MarkLive must propagate through pointer and vector to the scalar")
	}
}

func TestScalarOf(t *testing.T) {
	in := NewInterner()
	f32 := in.Float(32)
	v4 := in.Vector(f32, 4)
	m4 := in.Matrix(v4, 4)

	if ScalarOf(f32) != f32 {
		t.Errorf("ScalarOf(scalar) should return itself")
	}
	if ScalarOf(v4) != f32 {
		t.Errorf("ScalarOf(vector) should return its element")
	}
	if ScalarOf(m4) != f32 {
		t.Errorf("ScalarOf(matrix) should return its scalar")
	}
}
