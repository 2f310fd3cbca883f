package ir

import (
	"strconv"
	"strings"
)

// Type is a sealed interface for IR types.
// Implemented by *PathType, *ReferenceType, *PointerType, *ArrayType,
// *SliceType, *TupleType, *FunctionType, *GenericType and *UnitType.
type Type interface {
	typeNode()
}

// PathType names a type by path, e.g. i32, String, Vec<T>, std::fmt::Result.
type PathType struct {
	Name string `json:"name"` // segments joined with "::"
	Args []Type `json:"args,omitempty"`
}

// ReferenceType is &T or &mut T.
type ReferenceType struct {
	Mutable bool `json:"mutable"`
	Inner   Type `json:"inner"`
}

// PointerType is *const T or *mut T.
type PointerType struct {
	Mutable bool `json:"mutable"`
	Inner   Type `json:"inner"`
}

// ArrayType is [T; N]. Size is nil when N is not an integer literal.
type ArrayType struct {
	Inner Type   `json:"inner"`
	Size  *int64 `json:"size,omitempty"`
}

// SliceType is [T].
type SliceType struct {
	Inner Type `json:"inner"`
}

// TupleType has at least one element; () is UnitType.
type TupleType struct {
	Elements []Type `json:"elements"`
}

// FunctionType is fn(A, B) -> R. Return is nil for unit.
type FunctionType struct {
	Params []Type `json:"params"`
	Return Type   `json:"return,omitempty"`
}

// GenericType refers to a generic parameter in scope.
type GenericType struct {
	Name string `json:"name"`
}

// UnitType is () and the fallback for forms the IR does not model.
type UnitType struct{}

func (*PathType) typeNode()      {}
func (*ReferenceType) typeNode() {}
func (*PointerType) typeNode()   {}
func (*ArrayType) typeNode()     {}
func (*SliceType) typeNode()     {}
func (*TupleType) typeNode()     {}
func (*FunctionType) typeNode()  {}
func (*GenericType) typeNode()   {}
func (*UnitType) typeNode()      {}

// IsUnit reports whether t is absent or the unit type.
func IsUnit(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(*UnitType)
	return ok
}

// TypeString renders t in Rust surface syntax. Used for diagnostics and
// for impl block headers; emission has its own Mojo rendering.
func TypeString(t Type) string {
	var sb strings.Builder
	writeType(&sb, t)
	return sb.String()
}

func writeType(sb *strings.Builder, t Type) {
	switch t := t.(type) {
	case nil:
		sb.WriteString("()")
	case *PathType:
		sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			sb.WriteByte('<')
			writeTypeList(sb, t.Args)
			sb.WriteByte('>')
		}
	case *ReferenceType:
		sb.WriteByte('&')
		if t.Mutable {
			sb.WriteString("mut ")
		}
		writeType(sb, t.Inner)
	case *PointerType:
		if t.Mutable {
			sb.WriteString("*mut ")
		} else {
			sb.WriteString("*const ")
		}
		writeType(sb, t.Inner)
	case *ArrayType:
		sb.WriteByte('[')
		writeType(sb, t.Inner)
		sb.WriteString("; ")
		if t.Size != nil {
			sb.WriteString(strconv.FormatInt(*t.Size, 10))
		} else {
			sb.WriteByte('_')
		}
		sb.WriteByte(']')
	case *SliceType:
		sb.WriteByte('[')
		writeType(sb, t.Inner)
		sb.WriteByte(']')
	case *TupleType:
		sb.WriteByte('(')
		writeTypeList(sb, t.Elements)
		if len(t.Elements) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	case *FunctionType:
		sb.WriteString("fn(")
		writeTypeList(sb, t.Params)
		sb.WriteByte(')')
		if !IsUnit(t.Return) {
			sb.WriteString(" -> ")
			writeType(sb, t.Return)
		}
	case *GenericType:
		sb.WriteString(t.Name)
	case *UnitType:
		sb.WriteString("()")
	}
}

func writeTypeList(sb *strings.Builder, ts []Type) {
	for i, t := range ts {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeType(sb, t)
	}
}
