package merfish

import (
	"fmt"
	"strconv"
	"strings"
)

// ScalarType is the storage type of a single field element.
type ScalarType uint8

const (
	TypeInvalid ScalarType = iota
	TypeFloat32
	TypeFloat64
	TypeChar
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
)

type typeInfo struct {
	name  string
	cname string
	size  int
}

var typeTable = [...]typeInfo{
	TypeInvalid: {"invalid", "void", 0},
	TypeFloat32: {"float", "float", 4},
	TypeFloat64: {"double", "double", 8},
	TypeChar:    {"char", "char", 1},
	TypeInt8:    {"int8", "int8_t", 1},
	TypeInt16:   {"int16", "int16_t", 2},
	TypeInt32:   {"int32", "int32_t", 4},
	TypeInt64:   {"int64", "int64_t", 8},
	TypeUint8:   {"uint8", "uint8_t", 1},
	TypeUint16:  {"uint16", "uint16_t", 2},
	TypeUint32:  {"uint32", "uint32_t", 4},
	TypeUint64:  {"uint64", "uint64_t", 8},
}

var namedTypes = map[string]ScalarType{
	"single": TypeFloat32,
	"float":  TypeFloat32,
	"double": TypeFloat64,
	"char":   TypeChar,
	"byte":   TypeUint8,
}

// ParseScalarType resolves a layout type name. The set of names is closed:
// anything outside it fails with ErrUnknownType.
func ParseScalarType(name string) (ScalarType, error) {
	if t, ok := namedTypes[name]; ok {
		return t, nil
	}
	if i := strings.Index(name, "int"); i >= 0 {
		return parseIntType(name, i)
	}
	return TypeInvalid, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

func parseIntType(name string, at int) (ScalarType, error) {
	prefix, suffix := name[:at], name[at+len("int"):]
	width, err := strconv.Atoi(suffix)
	if err != nil || width <= 0 {
		return TypeInvalid, fmt.Errorf("%w: %q has no integer width", ErrUnknownType, name)
	}
	if width%8 != 0 {
		return TypeInvalid, fmt.Errorf("%w: %q width %d is not a multiple of 8", ErrUnknownType, name, width)
	}
	var signed bool
	switch prefix {
	case "":
		signed = true
	case "u":
	default:
		return TypeInvalid, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	switch width {
	case 8:
		return pick(signed, TypeInt8, TypeUint8), nil
	case 16:
		return pick(signed, TypeInt16, TypeUint16), nil
	case 32:
		return pick(signed, TypeInt32, TypeUint32), nil
	case 64:
		return pick(signed, TypeInt64, TypeUint64), nil
	}
	return TypeInvalid, fmt.Errorf("%w: %q width %d", ErrUnknownType, name, width)
}

func pick(signed bool, s, u ScalarType) ScalarType {
	if signed {
		return s
	}
	return u
}

// SizeOf returns the storage size in bytes of the named type.
func SizeOf(name string) (int, error) {
	t, err := ParseScalarType(name)
	if err != nil {
		return 0, err
	}
	return t.Size(), nil
}

// Size returns the storage size in bytes, or 0 for an invalid type.
func (t ScalarType) Size() int {
	if !t.Valid() {
		return 0
	}
	return typeTable[t].size
}

// Valid reports whether t is a registry member.
func (t ScalarType) Valid() bool {
	return t > TypeInvalid && int(t) < len(typeTable)
}

// String returns the canonical layout name. "single" is reported as "float".
func (t ScalarType) String() string {
	if int(t) >= len(typeTable) {
		return fmt.Sprintf("ScalarType(%d)", uint8(t))
	}
	return typeTable[t].name
}

// CName returns the C declaration type for t.
func (t ScalarType) CName() string {
	if int(t) >= len(typeTable) {
		return "void"
	}
	return typeTable[t].cname
}

func (t ScalarType) IsFloat() bool {
	return t == TypeFloat32 || t == TypeFloat64
}

func (t ScalarType) IsSigned() bool {
	switch t {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return true
	}
	return false
}
