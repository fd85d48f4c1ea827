package param

import "errors"

var (
	// ErrNotFound indicates a child id or selection that does not exist.
	ErrNotFound = errors.New("param: not found")

	// ErrDuplicateID indicates two siblings sharing one id.
	ErrDuplicateID = errors.New("param: duplicate id")

	// ErrIDMismatch indicates a replacement child whose id differs from its slot.
	ErrIDMismatch = errors.New("param: id mismatch")

	// ErrInvalidSize indicates a broadcast size that is not a non-negative integer.
	ErrInvalidSize = errors.New("param: invalid broadcast size")

	// ErrNotNumeric indicates a perturbed transform that did not yield a number.
	ErrNotNumeric = errors.New("param: value is not numeric")

	// ErrInvalidPerturbation indicates a perturbation spec that does not fit its target.
	ErrInvalidPerturbation = errors.New("param: invalid perturbation")

	// ErrMissingID indicates a construction call with neither id nor name.
	ErrMissingID = errors.New("param: missing id")

	// ErrInvalidArgument indicates a construction or update argument of the wrong type.
	ErrInvalidArgument = errors.New("param: invalid argument")
)
