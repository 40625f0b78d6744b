package rbac

import (
	"strconv"

	"github.com/pkg/errors"
)

// Kind classifies failures of the administrative operations.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate here.
	KindUnknown Kind = iota
	// KindUnknownModule means the module is not in the registry. Not retryable.
	KindUnknownModule
	// KindAmbiguousRegeneration means a destructive regeneration was requested
	// without explicit confirmation.
	KindAmbiguousRegeneration
	// KindStorageFailure means the storage layer failed. The whole operation
	// was rolled back and is safe to retry.
	KindStorageFailure
	// KindRoleNotFound means the named role does not exist.
	KindRoleNotFound
	// KindImmutableRole means the operation would remove grants from the omnipotent role.
	KindImmutableRole
	// KindRegisteredModule means a module still in the registry was asked to be pruned.
	KindRegisteredModule
)

var (
	// ErrUnknownModule matches errors of KindUnknownModule.
	ErrUnknownModule = errors.New("unknown module")
	// ErrAmbiguousRegeneration matches errors of KindAmbiguousRegeneration.
	ErrAmbiguousRegeneration = errors.New("forced regeneration needs explicit confirmation")
	// ErrStorageFailure matches errors of KindStorageFailure.
	ErrStorageFailure = errors.New("storage failure")
	// ErrRoleNotFound matches errors of KindRoleNotFound.
	ErrRoleNotFound = errors.New("role not found")
	// ErrImmutableRole matches errors of KindImmutableRole.
	ErrImmutableRole = errors.New("grants of the omnipotent role cannot be removed")
	// ErrRegisteredModule matches errors of KindRegisteredModule.
	ErrRegisteredModule = errors.New("module is still in the registry")
)

var sentinels = map[Kind]error{
	KindUnknownModule:         ErrUnknownModule,
	KindAmbiguousRegeneration: ErrAmbiguousRegeneration,
	KindStorageFailure:        ErrStorageFailure,
	KindRoleNotFound:          ErrRoleNotFound,
	KindImmutableRole:         ErrImmutableRole,
	KindRegisteredModule:      ErrRegisteredModule,
}

// String returns the message of the matching sentinel.
func (k Kind) String() string {
	if s, ok := sentinels[k]; ok {
		return s.Error()
	}

	return "unknown error"
}

// Error is a classified failure. Subject names the module or role it refers to.
type Error struct {
	Kind    Kind
	Subject string
	Err     error
}

// NewError creates a classified error.
func NewError(kind Kind, subject string, err error) *Error {
	return &Error{Kind: kind, Subject: subject, Err: err}
}

// Error implements error.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Subject != "" {
		msg += " " + strconv.Quote(e.Subject)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind, so errors.Is(err, ErrStorageFailure) works.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// Retryable reports whether repeating the whole operation may succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindStorageFailure
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// StorageFailure classifies a storage error. Already classified errors pass through.
func StorageFailure(subject string, err error, msg string) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	return NewError(KindStorageFailure, subject, errors.Wrap(err, msg))
}
