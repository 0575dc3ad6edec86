package typemap

import (
	"go/types"

	"typewriter/internal/common"
)

// Scalar is a primitive target type.
type Scalar int

const (
	ScalarAny Scalar = iota
	ScalarString
	ScalarInt
	ScalarFloat
	ScalarBool
)

// String returns the scalar keyword as accepted by ParseOverride.
func (s Scalar) String() string {
	switch s {
	case ScalarAny:
		return "any"
	case ScalarString:
		return "string"
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	case ScalarBool:
		return "bool"
	default:
		return common.UnknownStr
	}
}

// IsNumber reports whether the scalar is int or float.
func (s Scalar) IsNumber() bool {
	return s == ScalarInt || s == ScalarFloat
}

// ScalarOf classifies a Go basic kind. ok is false for kinds without a
// JSON representation (complex numbers, unsafe pointers, invalid).
func ScalarOf(k types.BasicKind) (s Scalar, ok bool) {
	switch k {
	case types.String, types.UntypedString:
		return ScalarString, true
	case types.Int, types.Int8, types.Int16, types.Int32, types.Int64,
		types.Uint, types.Uint8, types.Uint16, types.Uint32, types.Uint64, types.Uintptr,
		types.UntypedInt, types.UntypedRune:
		return ScalarInt, true
	case types.Float32, types.Float64, types.UntypedFloat:
		return ScalarFloat, true
	case types.Bool, types.UntypedBool:
		return ScalarBool, true
	default:
		return ScalarAny, false
	}
}
