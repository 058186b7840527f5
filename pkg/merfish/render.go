package merfish

import (
	"bytes"
	"fmt"
	"io"
)

// RenderStruct writes a packed C struct declaration matching the layout.
// The output is meant for generating headers consumed by native tools.
func (l *Layout) RenderStruct(w io.Writer, name string) error {
	if name == "" {
		name = "Record"
	}
	width := 0
	for _, f := range l.fields {
		width = max(width, len(f.Type.CName()))
	}

	var b bytes.Buffer
	b.WriteString("#pragma pack(push, 1)\n")
	fmt.Fprintf(&b, "struct %s\n{\n", name)
	for _, f := range l.fields {
		decl := f.Name
		if f.Count > 1 {
			decl = fmt.Sprintf("%s[%d]", f.Name, f.Count)
		}
		fmt.Fprintf(&b, "    %-*s %s;\n", width, f.Type.CName(), decl)
	}
	fmt.Fprintf(&b, "};   /* sizeof(%s) == %d */\n", name, l.size)
	b.WriteString("#pragma pack(pop)\n")

	_, err := w.Write(b.Bytes())
	return err
}

// StructString returns RenderStruct output as a string.
func (l *Layout) StructString(name string) string {
	var b bytes.Buffer
	_ = l.RenderStruct(&b, name)
	return b.String()
}
