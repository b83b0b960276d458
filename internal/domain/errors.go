package domain

import "fmt"

// NotFoundError is returned by ReadOption when the option has no native
// value. The engine treats it as "unset", not as a failure.
type NotFoundError struct {
	EntityID string
	Option   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("option %q has no value on entity %q", e.Option, e.EntityID)
}

// UnknownOptionError reports a declared option name absent from the domain's
// vocabulary. Unrecognized names are an error, never silently ignored.
type UnknownOptionError struct {
	Domain string
	Option string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("domain %q has no option named %q", e.Domain, e.Option)
}

// UnknownDomainError reports a domain name with no registered binding.
type UnknownDomainError struct {
	Name string
}

func (e *UnknownDomainError) Error() string {
	return fmt.Sprintf("no domain registered under %q", e.Name)
}

// ReadError wraps a provider failure while inspecting current state.
type ReadError struct {
	Domain   string
	EntityID string
	Option   string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s/%s option %q: %v", e.Domain, e.EntityID, e.Option, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps a provider failure while applying a mutation.
type WriteError struct {
	Domain   string
	EntityID string
	Option   string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s/%s option %q: %v", e.Domain, e.EntityID, e.Option, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// CreateError wraps a provider failure while creating an entity.
type CreateError struct {
	Domain   string
	EntityID string
	Err      error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create %s/%s: %v", e.Domain, e.EntityID, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// RemoveError wraps a provider failure while removing an entity.
type RemoveError struct {
	Domain   string
	EntityID string
	Err      error
}

func (e *RemoveError) Error() string {
	return fmt.Sprintf("remove %s/%s: %v", e.Domain, e.EntityID, e.Err)
}

func (e *RemoveError) Unwrap() error { return e.Err }
