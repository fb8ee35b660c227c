package lineage

import (
	"errors"
	"fmt"

	"github.com/fulmenhq/lineage/internal/doc"
)

// Kind classifies why a move request was rejected.
type Kind int

const (
	KindUnknown Kind = iota
	InvalidArguments
	NotFound
	UnknownType
	SameLineage
	UnconfiguredParentType
	CircularHierarchy
	PrimaryContactMustMoveWithPlace
	MalformedDocument
)

var kindNames = map[Kind]string{
	KindUnknown:                     "Unknown",
	InvalidArguments:                "InvalidArguments",
	NotFound:                        "NotFound",
	UnknownType:                     "UnknownType",
	SameLineage:                     "SameLineage",
	UnconfiguredParentType:          "UnconfiguredParentType",
	CircularHierarchy:               "CircularHierarchy",
	PrimaryContactMustMoveWithPlace: "PrimaryContactMustMoveWithPlace",
	MalformedDocument:               "MalformedDocument",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the error returned for every rejected move request.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is.
var (
	ErrInvalidArguments                = &Error{Kind: InvalidArguments}
	ErrNotFound                        = &Error{Kind: NotFound}
	ErrUnknownType                     = &Error{Kind: UnknownType}
	ErrSameLineage                     = &Error{Kind: SameLineage}
	ErrUnconfiguredParentType          = &Error{Kind: UnconfiguredParentType}
	ErrCircularHierarchy               = &Error{Kind: CircularHierarchy}
	ErrPrimaryContactMustMoveWithPlace = &Error{Kind: PrimaryContactMustMoveWithPlace}
	ErrMalformedDocument               = &Error{Kind: MalformedDocument}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err, looking through wrapping. Malformed lineage
// fields surfaced by the document layer count as MalformedDocument.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, doc.ErrMalformed) {
		return MalformedDocument
	}
	return KindUnknown
}
