// Package cerrors provides the protocol-error type shared by the seat and
// xdgshell packages. Grounded on api/pkg/scheduler/errors.go's sentinel +
// wrapped-struct pattern.
package cerrors

import "fmt"

// Code identifies which wl_display/xdg_wm_base protocol error a
// ProtocolError corresponds to on the wire.
type Code int

const (
	// CodeInvalidObject: an operation referenced an object in a way the
	// protocol forbids (e.g. creating a popup without a parent).
	CodeInvalidObject Code = iota
	// CodeInvalidSerial: ack_configure referenced an unknown serial.
	CodeInvalidSerial
	// CodeRoleConflict: a surface already carries an incompatible role.
	CodeRoleConflict
	// CodeDefunctRoleObject: an operation targeted a role object whose
	// surface has already been destroyed or whose role was revoked.
	CodeDefunctRoleObject
)

// ProtocolError is returned by seat and xdgshell operations that must
// terminate the client connection per the Wayland protocol's error model
// (spec §7 kind 4). Callers are expected to turn this into a
// wl_display.error event and disconnect the offending client.
type ProtocolError struct {
	Code    Code
	Object  string
	Message string
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error on %s: %s: %s", e.Object, e.Message, e.Err)
	}
	return fmt.Sprintf("protocol error on %s: %s", e.Object, e.Message)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// NewRoleConflict reports that object already carries a role incompatible
// with the one being assigned.
func NewRoleConflict(object, existingRole string) *ProtocolError {
	return &ProtocolError{
		Code:    CodeRoleConflict,
		Object:  object,
		Message: fmt.Sprintf("surface already has role %q", existingRole),
	}
}

// NewInvalidSerial reports an ack_configure (or similar) call referencing a
// serial the tracker never issued.
func NewInvalidSerial(object string, serial uint32) *ProtocolError {
	return &ProtocolError{
		Code:    CodeInvalidSerial,
		Object:  object,
		Message: fmt.Sprintf("unknown serial %d", serial),
	}
}

// NewDefunctRoleObject reports an operation against a role object that no
// longer has a live backing surface.
func NewDefunctRoleObject(object string) *ProtocolError {
	return &ProtocolError{
		Code:    CodeDefunctRoleObject,
		Object:  object,
		Message: "role object is defunct",
	}
}

// NewInvalidObject wraps an arbitrary invalid-object violation.
func NewInvalidObject(object, message string) *ProtocolError {
	return &ProtocolError{Code: CodeInvalidObject, Object: object, Message: message}
}
