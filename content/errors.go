package content

import (
	"errors"
	"fmt"
)

// Container errors.
var (
	// ErrBadSignature is returned when data does not start with the container signature.
	ErrBadSignature = errors.New("content: bad container signature")

	// ErrUnknownPlatform is returned for a platform byte outside the known set.
	ErrUnknownPlatform = errors.New("content: unknown target platform")

	// ErrUnsupportedVersion is returned for container versions other than 4 and 5.
	ErrUnsupportedVersion = errors.New("content: unsupported container version")

	// ErrUnsupportedCompression is returned for LZX-compressed containers.
	ErrUnsupportedCompression = errors.New("content: unsupported compression")

	// ErrTruncated is returned when the container is shorter than its header claims.
	ErrTruncated = errors.New("content: truncated container")
)

// Reader errors.
var (
	// ErrUnsupportedFormat is returned for a surface format or element
	// encoding this package cannot represent.
	ErrUnsupportedFormat = errors.New("content: unsupported format")

	// ErrBadReaderIndex is returned when an object references a type reader
	// the stream did not declare.
	ErrBadReaderIndex = errors.New("content: type reader index out of range")

	// ErrNoReader is returned when no initialized reader handles a target type.
	ErrNoReader = errors.New("content: no reader for target type")

	// ErrNoManager is returned when an external reference is read without a manager.
	ErrNoManager = errors.New("content: external reference without a manager")

	// ErrMalformedTypeName is returned when a serialized type name cannot be parsed.
	ErrMalformedTypeName = errors.New("content: malformed type name")
)

// TypeResolutionError reports a type name that no naming convention could
// resolve to a registered reader.
type TypeResolutionError struct {
	// Original is the name as it appeared in the stream.
	Original string
	// LastTried is the final candidate name that was looked up.
	LastTried string
	// Err is a parse error, or nil when every candidate was simply unknown.
	Err error
}

func (e *TypeResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("content: cannot resolve type %q: %v", e.Original, e.Err)
	}
	return fmt.Sprintf("content: cannot resolve type %q (last tried %q)", e.Original, e.LastTried)
}

func (e *TypeResolutionError) Unwrap() error { return e.Err }
