package recordkit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/recordkit/i18n"
)

// Issue codes.
const (
	CodeInvalidType          = "invalid_type"
	CodeRequired             = "required"
	CodeUnknownKey           = "unknown_key"
	CodeTooSmall             = "too_small"
	CodeTooBig               = "too_big"
	CodeInvalidFormat        = "invalid_format"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeNotFound             = "not_found"
	CodeParseError           = "parse_error"
	CodeDuplicateKey         = "duplicate_key"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrMissingFields matches Issues carrying at least one CodeRequired entry.
	ErrMissingFields = errors.New("recordkit: missing required fields")
	// ErrUnsupportedFields matches Issues carrying at least one CodeUnknownKey entry.
	ErrUnsupportedFields = errors.New("recordkit: unsupported fields")
	// ErrCoercion matches Issues carrying a value-shape failure.
	ErrCoercion = errors.New("recordkit: coercion failed")
	// ErrIllegalDefinition is wrapped by every *DefinitionError.
	ErrIllegalDefinition = errors.New("recordkit: illegal descriptor definition")
	// ErrReadOnly is returned when a declared field is rebound.
	ErrReadOnly = errors.New("recordkit: field is read-only")
	// ErrNotFound is returned by registry lookups that miss.
	ErrNotFound = errors.New("recordkit: not found")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /experiments/baseline/repetitions).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: expected shape, offending value, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42}).
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if n := len(iss); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is maps issue codes onto the package sentinels and falls back to causes.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		switch target {
		case ErrMissingFields:
			if it.Code == CodeRequired {
				return true
			}
		case ErrUnsupportedFields:
			if it.Code == CodeUnknownKey {
				return true
			}
		case ErrCoercion:
			if it.Code != CodeRequired && it.Code != CodeUnknownKey {
				return true
			}
		}
		if it.Cause != nil && errors.Is(it.Cause, target) {
			return true
		}
	}
	return false
}

// ByCode returns the subset of issues with the given code.
func (iss Issues) ByCode(code string) Issues {
	var out Issues
	for _, it := range iss {
		if it.Code == code {
			out = append(out, it)
		}
	}
	return out
}

// Missing lists the paths (without the leading slash) of every missing
// required field.
func (iss Issues) Missing() []string { return iss.ByCode(CodeRequired).fields() }

// Unsupported lists the paths (without the leading slash) of every
// unsupported key.
func (iss Issues) Unsupported() []string { return iss.ByCode(CodeUnknownKey).fields() }

func (iss Issues) fields() []string {
	if len(iss) == 0 {
		return nil
	}
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, strings.TrimPrefix(it.Path, "/"))
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Invalid returns a single root-level issue with a translated message.
// expected names the accepted shape and lands in the message and Hint.
func Invalid(code, expected string, got any) Issues {
	it := Issue{Path: "/", Code: code, Message: i18n.T(code, map[string]string{"expected": expected})}
	if expected != "" {
		it.Hint = "expected " + expected
	}
	if got != nil {
		it.Params = map[string]any{"got": got}
	}
	return Issues{it}
}

// IssuesFromErr converts an error into Issues rooted at path. Non-Issues
// errors become a single CodeParseError entry carrying the error as Cause.
func IssuesFromErr(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if child, ok := AsIssues(err); ok {
		return Rebase(path, child)
	}
	return Issues{{Path: path, Code: CodeParseError, Message: err.Error(), Cause: err}}
}

// Rebase prefixes every issue path with base.
func Rebase(base string, child Issues) Issues {
	if base == "" || base == "/" {
		return child
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// Pointer renders one JSON Pointer segment (RFC 6901 escaping).
func Pointer(seg any) string {
	s := fmt.Sprint(seg)
	return "/" + strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// DefinitionError reports a descriptor or schema type declared against
// something that cannot serve it. It is a programming error, raised while
// building types and never during construction.
type DefinitionError struct {
	Type   string
	Field  string
	Reason string
	Cause  error
}

func (e *DefinitionError) Error() string {
	b := &strings.Builder{}
	b.WriteString("recordkit: illegal definition")
	if e.Type != "" {
		fmt.Fprintf(b, " of type %q", e.Type)
	}
	if e.Field != "" {
		fmt.Fprintf(b, " field %q", e.Field)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Cause != nil {
		fmt.Fprintf(b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *DefinitionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrIllegalDefinition, e.Cause}
	}
	return []error{ErrIllegalDefinition}
}
