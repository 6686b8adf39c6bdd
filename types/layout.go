package types

// roundUp rounds size up to the next multiple of alignment. alignment
// of zero is treated as 1 (no rounding).
func roundUp(alignment, size uint32) uint32 {
	if alignment == 0 {
		return size
	}
	if size%alignment == 0 {
		return size
	}
	return size + (alignment - size%alignment)
}

// sizeOf and alignOf reproduce the reference compiler's
// duskTypeSizeOf/duskTypeAlignOf (original_source/dusk/dusk_ast_to_ir.c)
// exactly, including their mutual recursion and the std140-only
// 16-byte rounding rules for arrays and structs.

func sizeOf(t *Type, layout Layout) uint32 {
	switch t.Kind {
	case KindBool:
		return 1
	case KindInt:
		return uint32(t.Bits) / 8
	case KindFloat:
		return uint32(t.Bits) / 8
	case KindVector:
		return sizeOf(t.Elem, layout) * uint32(t.Len)
	case KindMatrix:
		// t.Elem is the column Vector type.
		return sizeOf(t.Elem, layout) * uint32(t.Len)
	case KindArray, KindRuntimeArray:
		elemSize := sizeOf(t.Elem, layout)
		elemAlign := alignOf(t.Elem, layout)
		if layout == LayoutStd140 {
			elemSize = roundUp(16, elemSize)
		}
		stride := roundUp(elemAlign, elemSize)
		if t.Kind == KindRuntimeArray {
			return stride
		}
		return stride * t.Size
	case KindStruct:
		structAlign := alignOf(t, layout)
		var size uint32
		for _, f := range t.Fields {
			fieldAlign := alignOf(f.Type, layout)
			size = roundUp(fieldAlign, size)
			size += sizeOf(f.Type, layout)
		}
		return roundUp(structAlign, size)
	default:
		return 0
	}
}

func alignOf(t *Type, layout Layout) uint32 {
	switch t.Kind {
	case KindBool:
		return 1
	case KindInt:
		return uint32(t.Bits) / 8
	case KindFloat:
		return uint32(t.Bits) / 8
	case KindVector:
		switch t.Len {
		case 1:
			return sizeOf(t.Elem, layout) * 1
		case 2:
			return sizeOf(t.Elem, layout) * 2
		default: // 3, 4
			return sizeOf(t.Elem, layout) * 4
		}
	case KindMatrix:
		return alignOf(t.Elem, layout)
	case KindArray, KindRuntimeArray:
		elemAlign := alignOf(t.Elem, layout)
		if layout == LayoutStd140 {
			return roundUp(16, elemAlign)
		}
		return elemAlign
	case KindStruct:
		var align uint32
		for _, f := range t.Fields {
			fa := alignOf(f.Type, t.Layout)
			if fa > align {
				align = fa
			}
		}
		if layout == LayoutStd140 {
			align = roundUp(16, align)
		}
		return align
	default:
		return 0
	}
}

// computeStructLayout fills ByteSize, Align, and every Field's Offset
// for a struct type, using its own Layout for member alignment (fields
// always pack under the struct's declared layout; the layout argument
// to sizeOf/alignOf elsewhere is only relevant for arrays-of-structs
// where the outer context can force std140 rounding).
func computeStructLayout(t *Type) {
	var offset uint32
	for i := range t.Fields {
		f := &t.Fields[i]
		align := alignOf(f.Type, t.Layout)
		offset = roundUp(align, offset)
		f.Offset = offset
		offset += sizeOf(f.Type, t.Layout)
	}
	t.Align = alignOf(t, t.Layout)
	t.ByteSize = roundUp(t.Align, offset)
}
