package types

import (
	"strconv"
	"strings"
)

// Interner deduplicates every structural type constructed during a
// single compilation. It mirrors a classic type-registry: build a
// provisional node, serialize its canonical signature, and look that
// string up before installing anything new. A hit returns the cached
// node and drops the provisional one; a miss installs it and appends
// it to the insertion-ordered list that All returns.
type Interner struct {
	byKey   map[string]*Type
	ordered []*Type
}

// NewInterner creates an empty type interner for one compilation.
func NewInterner() *Interner {
	return &Interner{byKey: make(map[string]*Type, 64)}
}

// All returns every interned type in first-construction order.
func (in *Interner) All() []*Type { return in.ordered }

func (in *Interner) intern(sig string, provisional *Type) *Type {
	if existing, ok := in.byKey[sig]; ok {
		return existing
	}
	provisional.sig = sig
	in.byKey[sig] = provisional
	in.ordered = append(in.ordered, provisional)
	return provisional
}

// Void returns the interned Void type.
func (in *Interner) Void() *Type {
	return in.intern("@void", &Type{Kind: KindVoid})
}

// Bool returns the interned Bool type.
func (in *Interner) Bool() *Type {
	return in.intern("@bool", &Type{Kind: KindBool})
}

// MetaType returns the interned meta-type (the type of a type expression).
func (in *Interner) MetaType() *Type {
	return in.intern("@type", &Type{Kind: KindMetaType})
}

// String returns the interned string type.
func (in *Interner) String() *Type {
	return in.intern("@string", &Type{Kind: KindString})
}

// UntypedInt returns the interned untyped-integer-literal type.
func (in *Interner) UntypedInt() *Type {
	return in.intern("@untyped_int", &Type{Kind: KindUntypedInt})
}

// UntypedFloat returns the interned untyped-float-literal type.
func (in *Interner) UntypedFloat() *Type {
	return in.intern("@untyped_float", &Type{Kind: KindUntypedFloat})
}

// Int returns the interned Int{bits,signed} type.
func (in *Interner) Int(bits uint8, signed bool) *Type {
	sig := "@int(" + strconv.Itoa(int(bits)) + "," + strconv.FormatBool(signed) + ")"
	return in.intern(sig, &Type{Kind: KindInt, Bits: bits, Signed: signed})
}

// Float returns the interned Float{bits} type.
func (in *Interner) Float(bits uint8) *Type {
	sig := "@float" + strconv.Itoa(int(bits))
	return in.intern(sig, &Type{Kind: KindFloat, Bits: bits})
}

// Vector returns the interned Vector{elem,len} type.
func (in *Interner) Vector(elem *Type, length uint8) *Type {
	sig := "@vector(" + elem.sig + "," + strconv.Itoa(int(length)) + ")"
	return in.intern(sig, &Type{Kind: KindVector, Elem: elem, Len: length})
}

// Matrix returns the interned Matrix{col,cols} type. col must be a
// Vector type previously produced by Vector.
func (in *Interner) Matrix(col *Type, cols uint8) *Type {
	sig := "@matrix(" + col.sig + "," + strconv.Itoa(int(cols)) + ")"
	return in.intern(sig, &Type{Kind: KindMatrix, Elem: col, Len: cols})
}

// Array returns the interned fixed-size Array{elem,size,layout} type,
// computing its stride eagerly from elem's size/alignment under layout.
func (in *Interner) Array(elem *Type, size uint32, layout Layout) *Type {
	sig := "@array(" + elem.sig + "," + strconv.FormatUint(uint64(size), 10) + "," + layout.String() + ")"
	t := &Type{Kind: KindArray, Elem: elem, Size: size, Layout: layout}
	result := in.intern(sig, t)
	if result == t {
		result.Stride = roundUp(alignOf(elem, layout), sizeOfElemForStride(elem, layout))
	}
	return result
}

// RuntimeArray returns the interned RuntimeArray{elem,layout} type.
func (in *Interner) RuntimeArray(elem *Type, layout Layout) *Type {
	sig := "@runtime_array(" + elem.sig + "," + layout.String() + ")"
	t := &Type{Kind: KindRuntimeArray, Elem: elem, Layout: layout}
	result := in.intern(sig, t)
	if result == t {
		result.Stride = roundUp(alignOf(elem, layout), sizeOfElemForStride(elem, layout))
	}
	return result
}

func sizeOfElemForStride(elem *Type, layout Layout) uint32 {
	s := sizeOf(elem, layout)
	if layout == LayoutStd140 {
		s = roundUp(16, s)
	}
	return s
}

// StructField is the constructor-time description of a field, before
// offsets are computed.
type StructField struct {
	Name     string
	Type     *Type
	ReadOnly bool
}

// Struct returns the interned Struct type, computing size, alignment,
// and per-field byte offsets for the given layout at creation time.
func (in *Interner) Struct(name string, fields []StructField, layout Layout, isBlock bool) *Type {
	var sb strings.Builder
	sb.WriteString("@struct(")
	sb.WriteString(name)
	sb.WriteString(",")
	sb.WriteString(layout.String())
	sb.WriteString(",")
	sb.WriteString(strconv.FormatBool(isBlock))
	for _, f := range fields {
		sb.WriteString(";")
		sb.WriteString(f.Name)
		sb.WriteString(":")
		sb.WriteString(f.Type.sig)
	}
	sb.WriteString(")")
	sig := sb.String()

	t := &Type{Kind: KindStruct, Name: name, Layout: layout, IsBlock: isBlock}
	t.Fields = make([]Field, len(fields))
	t.FieldIndex = make(map[string]int, len(fields))
	for i, f := range fields {
		t.Fields[i] = Field{Name: f.Name, Type: f.Type, ReadOnly: f.ReadOnly}
		t.FieldIndex[f.Name] = i
	}

	result := in.intern(sig, t)
	if result == t {
		computeStructLayout(result)
	}
	return result
}

// Pointer returns the interned Pointer{sub,storage} type.
func (in *Interner) Pointer(sub *Type, storage StorageClass) *Type {
	sig := "@ptr(" + sub.sig + "," + storage.String() + ")"
	return in.intern(sig, &Type{Kind: KindPointer, Elem: sub, Storage: storage})
}

// Function returns the interned Function{return,params} type.
func (in *Interner) Function(ret *Type, params []*Type) *Type {
	var sb strings.Builder
	sb.WriteString("@fn(")
	sb.WriteString(ret.sig)
	for _, p := range params {
		sb.WriteString(",")
		sb.WriteString(p.sig)
	}
	sb.WriteString(")")
	t := &Type{Kind: KindFunction, Return: ret, Params: append([]*Type(nil), params...)}
	return in.intern(sb.String(), t)
}

// Sampler returns the interned Sampler type.
func (in *Interner) Sampler() *Type {
	return in.intern("@sampler", &Type{Kind: KindSampler})
}

// Image returns the interned Image type.
func (in *Interner) Image(sampledType *Type, dim ImageDim, depth, arrayed, multisampled, sampled bool) *Type {
	sig := "@image(" + sampledType.sig + "," + strconv.Itoa(int(dim)) + "," +
		strconv.FormatBool(depth) + "," + strconv.FormatBool(arrayed) + "," +
		strconv.FormatBool(multisampled) + "," + strconv.FormatBool(sampled) + ")"
	return in.intern(sig, &Type{
		Kind: KindImage, Elem: sampledType, ImageDim: dim, Depth: depth,
		Arrayed: arrayed, Multisampled: multisampled, Sampled: sampled,
	})
}

// SampledImage returns the interned SampledImage{image} type.
func (in *Interner) SampledImage(image *Type) *Type {
	sig := "@sampled_image(" + image.sig + ")"
	return in.intern(sig, &Type{Kind: KindSampledImage, Elem: image})
}

// MarkLive recursively sets the Emit flag on t and every type it
// references, so only types reachable from a live declaration are
// serialized to SPIR-V.
func MarkLive(t *Type) {
	if t == nil || t.Emit {
		return
	}
	t.Emit = true
	switch t.Kind {
	case KindVector, KindMatrix, KindArray, KindRuntimeArray, KindPointer, KindSampledImage:
		MarkLive(t.Elem)
	case KindStruct:
		for _, f := range t.Fields {
			MarkLive(f.Type)
		}
	case KindFunction:
		MarkLive(t.Return)
		for _, p := range t.Params {
			MarkLive(p)
		}
	case KindImage:
		MarkLive(t.Elem)
	}
}
