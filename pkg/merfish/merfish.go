// Package merfish reads MERFISH binary record files.
//
// A file starts with a short fixed preamble followed by a textual description
// of the record layout. The rest of the file is a flat array of fixed-size
// records in that layout. The reader validates the file size against the
// layout and exposes the records through a read-only, memory-mapped view.
package merfish

// Format constants must never change.
const (
	// Version is the only supported header version.
	Version uint8 = 1

	// PreambleSize is the byte length of the fixed fields preceding the
	// layout text: version (1), corruption flag (1), entry count (4) and
	// layout length (4).
	PreambleSize = 10
)
