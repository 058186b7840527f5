package merfish

import (
	"errors"
	"strings"
	"testing"
)

// merfishLayout is the layout written by the acquisition software in 2018.
const merfishLayout = "barcode,layout 1,uint64,barcode_id,layout 1,uint16,fov_id,layout 1,uint16," +
	"total_magnitude,layout 1,single,pixel_centroid,layout 2,uint16," +
	"weighted_pixel_centroid,layout 2,single,abs_position,layout 2,single," +
	"area,layout 1,uint16,pixel_trace_mean,layout 16,single,pixel_trace_std,layout 16,single," +
	"is_exact,layout 1,uint8,error_bit,layout 1,uint8,error_dir,layout 1,uint8," +
	"av_distance,layout 1,single,cellID,layout 1,uint32,inNucleus,layout 1,uint8," +
	"distNucleus,layout 1,double,distPeriphery,layout 1,double"

func TestParseLayoutRecordSize(t *testing.T) {
	t.Parallel()

	l, err := ParseLayout(merfishLayout)
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	if l.Len() != 18 {
		t.Fatalf("field count mismatch: got %d want 18", l.Len())
	}
	if l.Size() != 194 {
		t.Fatalf("record size mismatch: got %d want 194", l.Size())
	}

	// Independent brute-force summation over the raw tokens.
	tokens := strings.Split(merfishLayout, ",")
	want := 0
	for i := 0; i < len(tokens); i += 3 {
		parts := strings.Fields(tokens[i+1])
		n := 0
		for _, c := range parts[len(parts)-1] {
			n = n*10 + int(c-'0')
		}
		size, err := SizeOf(tokens[i+2])
		if err != nil {
			t.Fatalf("size of %q: %v", tokens[i+2], err)
		}
		want += n * size
	}
	if l.Size() != want {
		t.Fatalf("record size %d != brute force %d", l.Size(), want)
	}

	f, ok := l.Field("pixel_trace_mean")
	if !ok {
		t.Fatalf("missing pixel_trace_mean")
	}
	if f.Count != 16 || f.Type != TypeFloat32 || f.Label != "layout" {
		t.Fatalf("unexpected field: %+v", f)
	}
	off, ok := l.Offset("cellID")
	if !ok || off != 173 {
		t.Fatalf("cellID offset = %d, %v; want 173", off, ok)
	}
}

func TestParseLayoutTrimsTokens(t *testing.T) {
	t.Parallel()

	l, err := ParseLayout(xyidLayout)
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	fields := l.Fields()
	names := []string{"x", "y", "id"}
	for i, f := range fields {
		if f.Name != names[i] {
			t.Fatalf("field %d name = %q, want %q", i, f.Name, names[i])
		}
		if f.Count != 1 || f.Label != "repeat" {
			t.Fatalf("field %d: %+v", i, f)
		}
	}
	for name, want := range map[string]int{"x": 0, "y": 4, "id": 8} {
		if off, _ := l.Offset(name); off != want {
			t.Fatalf("offset of %s = %d, want %d", name, off, want)
		}
	}
	if l.Size() != 12 {
		t.Fatalf("record size = %d, want 12", l.Size())
	}
}

func TestParseLayoutErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		unknown bool
	}{
		{"empty", "", false},
		{"not multiple of three", "x, repeat 1, float, y", false},
		{"trailing comma", "x, repeat 1, float,", false},
		{"non numeric count", "x, repeat one, float", false},
		{"zero count", "x, repeat 0, float", false},
		{"negative count", "x, repeat -2, float", false},
		{"missing count", "x, , float", false},
		{"empty name", ", repeat 1, float", false},
		{"duplicate name", "x, repeat 1, float,x, repeat 1, float", false},
		{"unknown type", "x, repeat 1, quad", true},
	}
	for _, tt := range tests {
		_, err := ParseLayout(tt.text)
		if !errors.Is(err, ErrMalformedLayout) {
			t.Fatalf("%s: expected ErrMalformedLayout, got %v", tt.name, err)
		}
		if tt.unknown && !errors.Is(err, ErrUnknownType) {
			t.Fatalf("%s: expected ErrUnknownType, got %v", tt.name, err)
		}
	}
}

func TestLayoutFieldsIsCopy(t *testing.T) {
	t.Parallel()

	l, err := ParseLayout(xyidLayout)
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	fields := l.Fields()
	fields[0].Name = "mutated"
	if _, ok := l.Field("x"); !ok {
		t.Fatalf("layout changed through Fields() copy")
	}
}

func TestLayoutStringReparses(t *testing.T) {
	t.Parallel()

	l, err := ParseLayout(merfishLayout)
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	again, err := ParseLayout(l.String())
	if err != nil {
		t.Fatalf("reparse %q: %v", l.String(), err)
	}
	if again.Size() != l.Size() || again.Len() != l.Len() {
		t.Fatalf("reparse mismatch: size %d/%d fields %d/%d", again.Size(), l.Size(), again.Len(), l.Len())
	}
}

func TestRenderStruct(t *testing.T) {
	t.Parallel()

	l, err := ParseLayout("x, repeat 1, single,pos, repeat 2, uint16,id, repeat 1, uint32")
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	got := l.StructString("Spot")
	want := "#pragma pack(push, 1)\n" +
		"struct Spot\n{\n" +
		"    float    x;\n" +
		"    uint16_t pos[2];\n" +
		"    uint32_t id;\n" +
		"};   /* sizeof(Spot) == 12 */\n" +
		"#pragma pack(pop)\n"
	if got != want {
		t.Fatalf("struct mismatch:\n%s\nwant:\n%s", got, want)
	}

	if !strings.Contains(l.StructString(""), "struct Record\n") {
		t.Fatalf("empty name should default to Record")
	}
}
