package eval

import (
	"errors"

	"github.com/raymyers/ralph-step/pkg/ast"
)

var (
	// ErrUndeclaredIdentifier indicates a read, assignment or increment of a
	// name that is not in scope.
	ErrUndeclaredIdentifier = errors.New("undeclared identifier")

	// ErrAlreadyDeclared indicates a declaration of a name that is already in scope.
	ErrAlreadyDeclared = errors.New("already declared")

	// ErrUnsupportedFunction indicates a call of anything but printf.
	ErrUnsupportedFunction = errors.New("unsupported function")

	// ErrMissingLabel indicates a jump whose target is not in the program.
	ErrMissingLabel = errors.New("missing label")

	// ErrTerminated is returned when stepping a state that has no current statement.
	ErrTerminated = errors.New("program has terminated")

	// ErrStepLimit is returned by Run when the program is still running after
	// the allowed number of steps.
	ErrStepLimit = errors.New("step limit reached")

	// ErrInvalidConstant indicates a constant the operation cannot use, such as void.
	ErrInvalidConstant = ast.ErrInvalidConstant
)
