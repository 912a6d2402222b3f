package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ValentinKolb/hKV/lib/node"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ICodec is the interface for all text codecs of a repository document.
// The document root is always a branch.
type ICodec interface {
	// Name returns the format name of the codec (e.g. "json")
	Name() string
	// Encode encodes a node tree into its text representation
	Encode(root *node.Node) ([]byte, error)
	// Decode decodes a text representation into a node tree.
	// Malformed input results in a *DecodeError, the returned node is nil in this case.
	Decode(b []byte) (*node.Node, error)
}

// Get returns the codec for the given format name (json, yaml, hcl)
func Get(format string) (ICodec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "hcl":
		return NewHCLCodec(), nil
	default:
		return nil, fmt.Errorf("invalid format %s", format)
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// ErrCode classifies a DecodeError.
type ErrCode uint8

const (
	ErrCodeMalformed   ErrCode = iota // 0: input is not valid for the format
	ErrCodeUnsupported                // 1: input is valid but cannot be a document root (e.g. a scalar)
)

func (c ErrCode) String() string {
	switch c {
	case ErrCodeMalformed:
		return "Malformed"
	case ErrCodeUnsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// DecodeError is returned when a document cannot be decoded.
type DecodeError struct {
	Format string  // The codec format
	Code   ErrCode // The error code
	Err    error   // The underlying parser error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("DecodeError (%s, code %s): %v", e.Format, e.Code, e.Err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrRootNotMapping is wrapped by a DecodeError when the document root is a scalar.
var ErrRootNotMapping = errors.New("document root must be a mapping or a list")

// ErrEmptyDocument is wrapped by a DecodeError when the input holds no document at all.
var ErrEmptyDocument = errors.New("empty document")

func newDecodeError(format string, code ErrCode, err error) *DecodeError {
	return &DecodeError{
		Format: format,
		Code:   code,
		Err:    err,
	}
}

// IsDecodeError reports whether err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}
