package command

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds, matched with errors.Is
var (
	ErrArity            = errors.New("wrong number of arguments")
	ErrMalformedNumber  = errors.New("malformed number")
	ErrInvalidEnum      = errors.New("invalid enumerated value")
	ErrOutOfRange       = errors.New("value out of range")
	ErrUnknownDirective = errors.New("unknown directive")
	ErrNodeNotFound     = errors.New("node not found")
	ErrInvalidCriteria  = errors.New("invalid criteria")
)

// ArityError reports a token count the directive does not accept
type ArityError struct {
	Directive string
	Want      int
	AtLeast   bool
	Got       int
}

func (e *ArityError) Error() string {
	qualifier := ""
	if e.AtLeast {
		qualifier = "at least "
	}
	noun := "arguments"
	if e.Want == 1 {
		noun = "argument"
	}
	return fmt.Sprintf("invalid %s command (expected %s%d %s, got %d)", e.Directive, qualifier, e.Want, noun, e.Got)
}

func (e *ArityError) Is(target error) bool { return target == ErrArity }

// MalformedNumberError reports a token that is not entirely a finite number
type MalformedNumberError struct {
	Param string
	Token string
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("invalid %s %q (not a number)", e.Param, e.Token)
}

func (e *MalformedNumberError) Is(target error) bool { return target == ErrMalformedNumber }

// InvalidEnumError reports a label outside the fixed set
type InvalidEnumError struct {
	Param string
	Token string
	Valid []string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid %s %q, expected one of: %s", e.Param, e.Token, strings.Join(e.Valid, ", "))
}

func (e *InvalidEnumError) Is(target error) bool { return target == ErrInvalidEnum }

// OutOfRangeError reports a number outside the parameter's closed interval
type OutOfRangeError struct {
	Param string
	Token string
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("invalid %s %s (must be between %g and %g)", e.Param, e.Token, e.Min, e.Max)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// ScriptError locates a failing directive inside a script
type ScriptError struct {
	Line int
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }
