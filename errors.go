package pgcraft

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for the build pipeline. Every typed error
// below anchors to one of these, so callers can match either the
// concrete type or the sentinel with errors.Is.
var (
	// ErrMissingField is returned when a control file lacks a mandatory key.
	ErrMissingField = errors.New("pgcraft: missing control file field")

	// ErrMalformedType is returned when a type expression cannot be parsed.
	ErrMalformedType = errors.New("pgcraft: malformed type expression")

	// ErrInvalidAggregate is returned when an aggregate descriptor is
	// internally inconsistent.
	ErrInvalidAggregate = errors.New("pgcraft: invalid aggregate descriptor")

	// ErrDuplicateIdentity is returned when two graph entities share an identity.
	ErrDuplicateIdentity = errors.New("pgcraft: duplicate entity identity")

	// ErrCycle is returned when the entity graph cannot be linearized.
	ErrCycle = errors.New("pgcraft: cyclic dependency")
)

// MissingFieldError reports a mandatory key absent from a control file.
type MissingFieldError struct {
	field string
}

// Error returns the error string.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("pgcraft: missing field in control file, add `%s`", e.field)
}

// Is reports whether the target error matches MissingFieldError.
func (e *MissingFieldError) Is(err error) bool {
	return err == ErrMissingField
}

// Field returns the name of the absent key.
func (e *MissingFieldError) Field() string {
	return e.field
}

// NewMissingFieldError returns a new MissingFieldError for the given key.
func NewMissingFieldError(field string) *MissingFieldError {
	return &MissingFieldError{field: field}
}

// IsMissingField returns true if the error is a MissingFieldError.
func IsMissingField(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingFieldError
	return errors.As(err, &e) || errors.Is(err, ErrMissingField)
}

// MalformedTypeError reports a type expression the shape classifier
// could not parse. Offset is the byte position of the offending element
// within the original expression.
type MalformedTypeError struct {
	expr   string
	offset int
	reason string
}

// Error returns the error string.
func (e *MalformedTypeError) Error() string {
	return fmt.Sprintf("pgcraft: malformed type expression %q at offset %d: %s", e.expr, e.offset, e.reason)
}

// Is reports whether the target error matches MalformedTypeError.
func (e *MalformedTypeError) Is(err error) bool {
	return err == ErrMalformedType
}

// Expr returns the offending expression text.
func (e *MalformedTypeError) Expr() string {
	return e.expr
}

// Offset returns the byte offset of the offending element.
func (e *MalformedTypeError) Offset() int {
	return e.offset
}

// NewMalformedTypeError returns a new MalformedTypeError for the given span.
func NewMalformedTypeError(expr string, offset int, reason string) *MalformedTypeError {
	return &MalformedTypeError{expr: expr, offset: offset, reason: reason}
}

// IsMalformedType returns true if the error is a MalformedTypeError.
func IsMalformedType(err error) bool {
	if err == nil {
		return false
	}
	var e *MalformedTypeError
	return errors.As(err, &e) || errors.Is(err, ErrMalformedType)
}

// InvalidAggregateError reports an inconsistent aggregate descriptor,
// such as a moving initial condition without a moving state type.
type InvalidAggregateError struct {
	name   string
	reason string
}

// Error returns the error string.
func (e *InvalidAggregateError) Error() string {
	return fmt.Sprintf("pgcraft: invalid aggregate %q: %s", e.name, e.reason)
}

// Is reports whether the target error matches InvalidAggregateError.
func (e *InvalidAggregateError) Is(err error) bool {
	return err == ErrInvalidAggregate
}

// Name returns the aggregate name.
func (e *InvalidAggregateError) Name() string {
	return e.name
}

// NewInvalidAggregateError returns a new InvalidAggregateError.
func NewInvalidAggregateError(name, reason string) *InvalidAggregateError {
	return &InvalidAggregateError{name: name, reason: reason}
}

// IsInvalidAggregate returns true if the error is an InvalidAggregateError.
func IsInvalidAggregate(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidAggregateError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidAggregate)
}

// DuplicateIdentityError reports a graph insertion whose identity is
// already taken. The first-inserted entity is left untouched.
type DuplicateIdentityError struct {
	identity string
}

// Error returns the error string.
func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("pgcraft: duplicate entity identity %q", e.identity)
}

// Is reports whether the target error matches DuplicateIdentityError.
func (e *DuplicateIdentityError) Is(err error) bool {
	return err == ErrDuplicateIdentity
}

// Identity returns the colliding identity.
func (e *DuplicateIdentityError) Identity() string {
	return e.identity
}

// NewDuplicateIdentityError returns a new DuplicateIdentityError.
func NewDuplicateIdentityError(identity string) *DuplicateIdentityError {
	return &DuplicateIdentityError{identity: identity}
}

// IsDuplicateIdentity returns true if the error is a DuplicateIdentityError.
func IsDuplicateIdentity(err error) bool {
	if err == nil {
		return false
	}
	var e *DuplicateIdentityError
	return errors.As(err, &e) || errors.Is(err, ErrDuplicateIdentity)
}

// CycleError reports a dependency cycle found during linearization.
// Identities holds the participating entities in walk order, with the
// entry point repeated at the end.
type CycleError struct {
	identities []string
}

// Error returns the error string.
func (e *CycleError) Error() string {
	return fmt.Sprintf("pgcraft: cyclic dependency: %s", strings.Join(e.identities, " -> "))
}

// Is reports whether the target error matches CycleError.
func (e *CycleError) Is(err error) bool {
	return err == ErrCycle
}

// Identities returns the entities participating in the cycle.
func (e *CycleError) Identities() []string {
	return e.identities
}

// NewCycleError returns a new CycleError over the given identities.
func NewCycleError(identities []string) *CycleError {
	return &CycleError{identities: identities}
}

// IsCycle returns true if the error is a CycleError.
func IsCycle(err error) bool {
	if err == nil {
		return false
	}
	var e *CycleError
	return errors.As(err, &e) || errors.Is(err, ErrCycle)
}
