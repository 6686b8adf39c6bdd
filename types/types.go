// Package types implements Dusk's type interner (component C1).
//
// Every structural type is canonicalized to a unique *Type keyed by a
// deterministic textual signature, mirroring the dedup strategy of a
// typical shader-IR type registry: build a provisional node, serialize
// it, and look the string up in a process-per-compilation map before
// installing anything new.
package types

import (
	"strconv"
	"strings"
)

// Layout selects the memory layout rules applied to a struct or array.
type Layout uint8

const (
	LayoutUnknown Layout = iota
	LayoutStd140
	LayoutStd430
)

func (l Layout) String() string {
	switch l {
	case LayoutStd140:
		return "std140"
	case LayoutStd430:
		return "std430"
	default:
		return "unknown"
	}
}

// StorageClass mirrors the SPIR-V storage classes Dusk exposes at the
// source level.
type StorageClass uint8

const (
	StorageFunction StorageClass = iota
	StorageParameter
	StorageInput
	StorageOutput
	StorageUniform
	StorageUniformConstant
	StorageStorage
	StoragePushConstant
	StorageWorkgroup
)

func (s StorageClass) String() string {
	switch s {
	case StorageFunction:
		return "function"
	case StorageParameter:
		return "parameter"
	case StorageInput:
		return "input"
	case StorageOutput:
		return "output"
	case StorageUniform:
		return "uniform"
	case StorageUniformConstant:
		return "uniform_constant"
	case StorageStorage:
		return "storage"
	case StoragePushConstant:
		return "push_constant"
	case StorageWorkgroup:
		return "workgroup"
	default:
		return "unknown"
	}
}

// Kind discriminates which variant a Type is, and so which of its
// fields are meaningful.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindMetaType // the meta-type of a type expression
	KindString
	KindUntypedInt
	KindUntypedFloat
	KindInt
	KindFloat
	KindVector
	KindMatrix
	KindArray
	KindRuntimeArray
	KindStruct
	KindPointer
	KindFunction
	KindSampler
	KindImage
	KindSampledImage
)

// ImageDim enumerates the dimensionality of an Image type.
type ImageDim uint8

const (
	Dim1D ImageDim = iota
	Dim2D
	Dim3D
	DimCube
)

// Field describes one member of a Struct type.
type Field struct {
	Name   string
	Type   *Type
	Offset uint32 // byte offset under the struct's layout
	// ReadOnly marks a storage-buffer field as non-writable (NonWritable).
	ReadOnly bool
}

// Type is an interned, structurally-unique type node. Two Types are
// equal iff they are the same pointer.
type Type struct {
	Kind Kind

	// Int / Float
	Bits   uint8
	Signed bool // Int only

	// Vector / Matrix element, Array/RuntimeArray/Pointer sub-type
	Elem *Type
	Len  uint8 // vector length (2..4) or matrix column count (2..4)

	// Matrix: Elem is the column Vector type, Len is column count.

	// Array
	Size   uint32 // element count, meaningful when Kind==KindArray
	Stride uint32 // byte stride between elements
	Layout Layout // layout used to compute Size/Stride/struct offsets

	// Struct
	Name       string
	Fields     []Field
	FieldIndex map[string]int
	IsBlock    bool
	ByteSize   uint32 // total struct size under Layout
	Align      uint32 // alignment under Layout

	// Pointer
	Storage StorageClass

	// Function
	Return *Type
	Params []*Type

	// Image
	ImageDim     ImageDim
	Depth        bool
	Arrayed      bool
	Multisampled bool
	Sampled      bool // true: sampled texture, false: storage image

	// Emit becomes true once the type is reachable from a live
	// declaration; only live types are serialized to SPIR-V.
	Emit bool

	sig string // memoized canonical signature
}

// Signature returns the memoized canonical textual signature used as
// the interning key.
func (t *Type) Signature() string { return t.sig }

// PrettyString renders a human-readable type name, e.g. for diagnostics.
func (t *Type) PrettyString() string {
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindMetaType:
		return "type"
	case KindString:
		return "string"
	case KindUntypedInt:
		return "<int>"
	case KindUntypedFloat:
		return "<float>"
	case KindInt:
		if t.Signed {
			return "int" + strconv.Itoa(int(t.Bits))
		}
		return "uint" + strconv.Itoa(int(t.Bits))
	case KindFloat:
		return "float" + strconv.Itoa(int(t.Bits))
	case KindVector:
		return t.Elem.PrettyString() + strconv.Itoa(int(t.Len))
	case KindMatrix:
		n := strconv.Itoa(int(t.Len))
		return t.Elem.Elem.PrettyString() + n + "x" + n
	case KindArray:
		return t.Elem.PrettyString() + "[" + strconv.Itoa(int(t.Size)) + "]"
	case KindRuntimeArray:
		return t.Elem.PrettyString() + "[]"
	case KindStruct:
		if t.Name != "" {
			return t.Name
		}
		return "struct"
	case KindPointer:
		return "ptr<" + t.Storage.String() + "," + t.Elem.PrettyString() + ">"
	case KindFunction:
		var sb strings.Builder
		sb.WriteString("fn(")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.PrettyString())
		}
		sb.WriteString(") ")
		sb.WriteString(t.Return.PrettyString())
		return sb.String()
	case KindSampler:
		return "sampler"
	case KindImage:
		return "image"
	case KindSampledImage:
		return "sampled_image"
	default:
		return "?"
	}
}

// IsNumericScalar reports whether t is Int or Float (not untyped).
func (t *Type) IsNumericScalar() bool {
	return t.Kind == KindInt || t.Kind == KindFloat
}

// IsScalar reports whether t is Bool, Int, or Float.
func (t *Type) IsScalar() bool {
	return t.Kind == KindBool || t.Kind == KindInt || t.Kind == KindFloat
}

// IsIntegral reports whether t is Int or UntypedInt.
func (t *Type) IsIntegral() bool {
	return t.Kind == KindInt || t.Kind == KindUntypedInt
}

// ScalarOf returns the underlying scalar type of a vector, matrix, or
// scalar input, mirroring the reference implementation's
// duskGetScalarType helper.
func ScalarOf(t *Type) *Type {
	switch t.Kind {
	case KindVector:
		return t.Elem
	case KindMatrix:
		return t.Elem.Elem
	default:
		return t
	}
}
