// Package loader decodes a vm.Program from the wire format an external
// compiler or on-disk artifact produces, and caches decodes by content hash
// so repeated loads of the same bytes skip re-parsing.
package loader

import "errors"

// ErrInvalidFormat is returned for a payload that fails magic, length, or
// structural checks — a truncated envelope, a bad magic, or a decoded
// program that fails vm.Program.Validate.
var ErrInvalidFormat = errors.New("loader: invalid program format")

// ErrUnsupportedVersion is returned when the envelope's version byte does
// not match any format this build knows how to decode.
var ErrUnsupportedVersion = errors.New("loader: unsupported format version")
