package console

import "errors"

// Command errors. The console prints each as "** <message> **".
var (
	ErrClassMissing = errors.New("class name missing")
	ErrClassUnknown = errors.New("class doesn't exist")
	ErrIDMissing    = errors.New("instance id missing")
	ErrNoInstance   = errors.New("no instance found")
	ErrAttrMissing  = errors.New("attribute name missing")
	ErrValueMissing = errors.New("value missing")
	ErrReadOnly     = errors.New("attribute is read-only")
	ErrInvalidValue = errors.New("invalid value")
)

// ErrUnknownSyntax is returned for lines that name no command.
var ErrUnknownSyntax = errors.New("unknown syntax")
