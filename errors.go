package fwdeploy

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrDiscovery     = errors.New("discovery error")
	ErrCopyCommand   = errors.New("copy command error")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	// KindConfiguration covers a missing build context, malformed input
	// variables, roots from more than one source directory and unreadable
	// settings files.
	KindConfiguration ErrorKind = "configuration"
	// KindDiscovery covers failures of the inspection command.
	KindDiscovery ErrorKind = "discovery"
	// KindCopyCommand covers a failing copy command.
	KindCopyCommand ErrorKind = "copy_command"
)

// Error wraps an underlying error with operation context and a kind.
// Every Error aborts the run.
type Error struct {
	Op       string
	Kind     ErrorKind
	Artifact string // Optional: artifact being processed
	Path     string // Optional: relevant file path
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := e.Op
	if e.Artifact != "" {
		base += fmt.Sprintf(" %s", e.Artifact)
	}
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case KindConfiguration:
		return target == ErrConfiguration
	case KindDiscovery:
		return target == ErrDiscovery
	case KindCopyCommand:
		return target == ErrCopyCommand
	}
	return false
}

// IsKind helps callers classify errors.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// ConfigurationError returns an Error of kind KindConfiguration.
func ConfigurationError(format string, args ...any) error {
	return &Error{
		Op:   "configuration",
		Kind: KindConfiguration,
		Err:  fmt.Errorf(format, args...),
	}
}

// DiscoveryError returns an Error of kind KindDiscovery for the given artifact.
func DiscoveryError(artifact, binary string, err error) error {
	return &Error{
		Op:       "discovering dependencies of",
		Kind:     KindDiscovery,
		Artifact: artifact,
		Path:     binary,
		Err:      err,
	}
}

// CopyCommandError returns an Error of kind KindCopyCommand.
// The command's exit status stays reachable through errors.As on
// *exec.ExitError; the process itself exits with 1.
func CopyCommandError(command string, err error) error {
	return &Error{
		Op:   "running " + command,
		Kind: KindCopyCommand,
		Err:  err,
	}
}
