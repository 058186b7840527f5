package merfish

import (
	"fmt"
	"strconv"
	"strings"
)

// Field describes one named, possibly repeated scalar within a record.
type Field struct {
	Name  string
	Label string // descriptive text preceding the repeat count
	Count int
	Type  ScalarType
}

// Size returns the number of bytes the field occupies in a record.
func (f Field) Size() int {
	return f.Count * f.Type.Size()
}

// Layout is the ordered field list of a record. It is immutable once parsed.
type Layout struct {
	fields  []Field
	offsets []int
	index   map[string]int
	size    int
}

// ParseLayout parses the comma separated layout text stored in a file header.
// Every three tokens form one field: name, "<label> <count>", type name.
func ParseLayout(text string) (*Layout, error) {
	tokens := strings.Split(text, ",")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty layout", ErrMalformedLayout)
	}
	if len(tokens)%3 != 0 {
		return nil, fmt.Errorf("%w: %d tokens is not a multiple of 3", ErrMalformedLayout, len(tokens))
	}

	fields := make([]Field, 0, len(tokens)/3)
	for i := 0; i < len(tokens); i += 3 {
		f, err := parseField(tokens[i], tokens[i+1], tokens[i+2])
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i/3, err)
		}
		fields = append(fields, f)
	}
	return NewLayout(fields)
}

func parseField(name, repeat, typeName string) (Field, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Field{}, fmt.Errorf("%w: empty field name", ErrMalformedLayout)
	}

	parts := strings.Fields(repeat)
	if len(parts) == 0 {
		return Field{}, fmt.Errorf("%w: field %q has no repeat count", ErrMalformedLayout, name)
	}
	count, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || count < 1 {
		return Field{}, fmt.Errorf("%w: field %q repeat count %q is not a positive integer",
			ErrMalformedLayout, name, parts[len(parts)-1])
	}

	typ, err := ParseScalarType(strings.TrimSpace(typeName))
	if err != nil {
		return Field{}, fmt.Errorf("%w: field %q: %w", ErrMalformedLayout, name, err)
	}

	return Field{
		Name:  name,
		Label: strings.Join(parts[:len(parts)-1], " "),
		Count: count,
		Type:  typ,
	}, nil
}

// NewLayout validates fields and computes their offsets.
func NewLayout(fields []Field) (*Layout, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields", ErrMalformedLayout)
	}
	l := &Layout{
		fields:  make([]Field, len(fields)),
		offsets: make([]int, len(fields)),
		index:   make(map[string]int, len(fields)),
	}
	copy(l.fields, fields)

	off := 0
	for i, f := range l.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: field %d has no name", ErrMalformedLayout, i)
		}
		if f.Count < 1 {
			return nil, fmt.Errorf("%w: field %q repeat count %d", ErrMalformedLayout, f.Name, f.Count)
		}
		if !f.Type.Valid() {
			return nil, fmt.Errorf("%w: field %q: %w: %v", ErrMalformedLayout, f.Name, ErrUnknownType, f.Type)
		}
		if _, dup := l.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrMalformedLayout, f.Name)
		}
		l.index[f.Name] = i
		l.offsets[i] = off
		off += f.Size()
	}
	l.size = off
	return l, nil
}

// Size returns the byte size of one record.
func (l *Layout) Size() int {
	return l.size
}

// Len returns the number of fields.
func (l *Layout) Len() int {
	return len(l.fields)
}

// Fields returns a copy of the fields in on-disk order.
func (l *Layout) Fields() []Field {
	out := make([]Field, len(l.fields))
	copy(out, l.fields)
	return out
}

// Field looks up a field by name.
func (l *Layout) Field(name string) (Field, bool) {
	i, ok := l.index[name]
	if !ok {
		return Field{}, false
	}
	return l.fields[i], true
}

// Offset returns the byte offset of the named field within a record.
func (l *Layout) Offset(name string) (int, bool) {
	i, ok := l.index[name]
	if !ok {
		return 0, false
	}
	return l.offsets[i], true
}

// String renders the layout in header grammar.
func (l *Layout) String() string {
	var b strings.Builder
	for i, f := range l.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		label := f.Label
		if label == "" {
			label = "repeat"
		}
		fmt.Fprintf(&b, "%s,%s %d,%s", f.Name, label, f.Count, f.Type)
	}
	return b.String()
}
