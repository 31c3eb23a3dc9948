package ast

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperand indicates a constructor was given a missing node or a
	// node of the wrong class (e.g. a statement where an expression is required).
	ErrInvalidOperand = errors.New("invalid operand")

	// ErrUnsupportedNode indicates an operation was applied to a variant that
	// does not support it.
	ErrUnsupportedNode = errors.New("unsupported node")

	// ErrInvalidConstant indicates a constant of a datatype the operation
	// cannot use, such as the truth value of void.
	ErrInvalidConstant = errors.New("invalid constant")
)

func unsupported(op string, n Node) error {
	return fmt.Errorf("%s on %s: %w", op, Kind(n), ErrUnsupportedNode)
}

func invalid(field, want string, n Node) error {
	if isNil(n) {
		return fmt.Errorf("%s is missing: %w", field, ErrInvalidOperand)
	}
	return fmt.Errorf("%s is not %s (got %s): %w", field, want, Kind(n), ErrInvalidOperand)
}
