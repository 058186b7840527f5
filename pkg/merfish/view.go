package merfish

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Column is a strided, read-only accessor for one field across all records.
// It borrows the File's backing bytes and is invalid once the File is closed.
// Index arguments out of range panic, like slice indexing.
type Column struct {
	field  Field
	offset int
	stride int
	n      int
	data   []byte
	order  binary.ByteOrder
}

// Field returns the column for the named field. It never copies record data.
func (f *File) Field(name string) (*Column, error) {
	if f == nil || f.data == nil {
		return nil, ErrClosed
	}
	layout := f.header.Layout
	fd, ok := layout.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	off, _ := layout.Offset(name)
	return &Column{
		field:  fd,
		offset: off,
		stride: layout.Size(),
		n:      f.count,
		data:   f.records,
		order:  f.order,
	}, nil
}

func (c *Column) Name() string     { return c.field.Name }
func (c *Column) Type() ScalarType { return c.field.Type }
func (c *Column) Descriptor() Field {
	return c.field
}

// Count returns the number of elements per record.
func (c *Column) Count() int { return c.field.Count }

// Len returns the number of records.
func (c *Column) Len() int { return c.n }

// Offset returns the byte offset of the field within a record.
func (c *Column) Offset() int { return c.offset }

// Stride returns the distance in bytes between consecutive records.
func (c *Column) Stride() int { return c.stride }

// Raw returns the bytes of the field in record i without copying.
// The slice must not be modified.
func (c *Column) Raw(i int) []byte {
	start := i*c.stride + c.offset
	end := start + c.field.Size()
	return c.data[start:end:end]
}

func (c *Column) elem(i, j int) []byte {
	if j < 0 || j >= c.field.Count {
		panic(fmt.Sprintf("merfish: element %d out of range [0,%d) for field %q", j, c.field.Count, c.field.Name))
	}
	size := c.field.Type.Size()
	return c.Raw(i)[j*size : (j+1)*size]
}

// Uint returns element j of record i converted to uint64.
func (c *Column) Uint(i, j int) uint64 {
	b := c.elem(i, j)
	switch t := c.field.Type; {
	case t.IsFloat():
		return uint64(decodeFloat(b, t, c.order))
	case t.IsSigned():
		return uint64(decodeInt(b, c.order))
	default:
		return decodeUint(b, c.order)
	}
}

// Int returns element j of record i converted to int64.
func (c *Column) Int(i, j int) int64 {
	b := c.elem(i, j)
	switch t := c.field.Type; {
	case t.IsFloat():
		return int64(decodeFloat(b, t, c.order))
	case t.IsSigned():
		return decodeInt(b, c.order)
	default:
		return int64(decodeUint(b, c.order))
	}
}

// Float returns element j of record i converted to float64.
func (c *Column) Float(i, j int) float64 {
	b := c.elem(i, j)
	switch t := c.field.Type; {
	case t.IsFloat():
		return decodeFloat(b, t, c.order)
	case t.IsSigned():
		return float64(decodeInt(b, c.order))
	default:
		return float64(decodeUint(b, c.order))
	}
}

// Float64s returns an independent copy of the column as float64, record
// major: element j of record i is at index i*Count()+j.
func (c *Column) Float64s() []float64 {
	out := make([]float64, c.n*c.field.Count)
	for i := 0; i < c.n; i++ {
		for j := 0; j < c.field.Count; j++ {
			out[i*c.field.Count+j] = c.Float(i, j)
		}
	}
	return out
}

// Scalar is the set of Go types a column can be materialised into.
type Scalar interface {
	float32 | float64 | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64
}

// Values returns an independent, mutable copy of the column in its native Go
// type, record major like Float64s. T must match the field's scalar type;
// char fields materialise as uint8 or int8.
func Values[T Scalar](c *Column) ([]T, error) {
	if !typeMatches[T](c.field.Type) {
		var zero T
		return nil, fmt.Errorf("%w: field %q is %v, requested %T", ErrTypeMismatch, c.field.Name, c.field.Type, zero)
	}
	t := c.field.Type
	out := make([]T, c.n*c.field.Count)
	for i := 0; i < c.n; i++ {
		for j := 0; j < c.field.Count; j++ {
			b := c.elem(i, j)
			var v T
			switch {
			case t.IsFloat():
				v = T(decodeFloat(b, t, c.order))
			case t.IsSigned():
				v = T(decodeInt(b, c.order))
			default:
				v = T(decodeUint(b, c.order))
			}
			out[i*c.field.Count+j] = v
		}
	}
	return out, nil
}

func typeMatches[T Scalar](t ScalarType) bool {
	var zero T
	switch any(zero).(type) {
	case float32:
		return t == TypeFloat32
	case float64:
		return t == TypeFloat64
	case int8:
		return t == TypeInt8 || t == TypeChar
	case int16:
		return t == TypeInt16
	case int32:
		return t == TypeInt32
	case int64:
		return t == TypeInt64
	case uint8:
		return t == TypeUint8 || t == TypeChar
	case uint16:
		return t == TypeUint16
	case uint32:
		return t == TypeUint32
	case uint64:
		return t == TypeUint64
	}
	return false
}

func decodeFloat(b []byte, t ScalarType, order binary.ByteOrder) float64 {
	if t == TypeFloat32 {
		return float64(math.Float32frombits(order.Uint32(b)))
	}
	return math.Float64frombits(order.Uint64(b))
}
