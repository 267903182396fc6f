// Package errs defines the sentinel errors returned by the chainpack codec.
//
// Every error the codec returns is errors.Is-comparable to one of the
// sentinels below. Callers that need context wrap a sentinel with
// fmt.Errorf("%w: ...", errs.ErrXxx, detail); the sentinel remains
// discoverable via errors.Is.
package errs

import "errors"

var (
	// ErrEOF indicates the byte source ended inside a value.
	ErrEOF = errors.New("chainpack: unexpected end of input")

	// ErrInvalidUTF8 indicates a STRING payload was not valid UTF-8.
	ErrInvalidUTF8 = errors.New("chainpack: invalid UTF-8 string")

	// ErrInvalidType indicates a tag byte outside the recognized alphabet,
	// or a value requested whose kind mismatches what is being read.
	ErrInvalidType = errors.New("chainpack: invalid type")

	// ErrInvalidDateTime indicates a decoded DateTime payload or timezone
	// quarter-hour count is out of a well-defined calendar range.
	ErrInvalidDateTime = errors.New("chainpack: invalid datetime")

	// ErrUnsupportedType indicates a host-requested operation this wire
	// format cannot represent, such as encoding math.MinInt64 or a decimal
	// exponent outside int8's range.
	ErrUnsupportedType = errors.New("chainpack: unsupported type")

	// ErrMaxDepthExceeded indicates a List/Map/IMap nested deeper than a
	// Decoder's configured depth limit, guarding against stack overflow
	// on a maliciously or accidentally deeply-nested container chain.
	ErrMaxDepthExceeded = errors.New("chainpack: max container depth exceeded")
)
