package clvm

import (
	"errors"
	"fmt"
)

// Program errors.
var (
	ErrDecode          = errors.New("clvm: decode error")
	ErrRaise           = errors.New("clvm: program raised")
	ErrCostExceeded    = errors.New("clvm: cost exceeded")
	ErrTooDeep         = errors.New("clvm: evaluation too deep")
	ErrUnknownOperator = errors.New("clvm: unknown operator")
	ErrPathIntoAtom    = errors.New("clvm: path into atom")
	ErrBadOperand      = errors.New("clvm: bad operand")
)

// EvalError describes a failed operator application.
type EvalError struct {
	Op   string // operator keyword
	Args *Node  // evaluated arguments, if known
	Err  error
}

func (e *EvalError) Error() string {
	if e.Args != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Args, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }
