package errors

// Precondition violations raised by the statistics routines. All of them
// are validation errors: they abort the call before any computation runs.
var (
	ErrInvalidWindow     = NewValidationError(CodeInvalidWindow, "window length must be greater than 1")
	ErrInvalidHalfLife   = NewValidationError(CodeInvalidHalfLife, "half-life must be greater than 1")
	ErrSeriesTooShort    = NewValidationError(CodeSeriesTooShort, "series is too short")
	ErrNegativeInitSigma = NewValidationError(CodeNegativeInitSigma, "initial sigma must be non-negative")
	ErrInvalidBins       = NewValidationError(CodeInvalidBins, "bin count must be at least 2")
	ErrInvalidTolerance  = NewValidationError(CodeInvalidTolerance, "tolerance must be non-negative")
	ErrNonIncreasingGrid = NewValidationError(CodeNonIncreasingGrid, "grid points must be strictly increasing")
	ErrLengthMismatch    = NewValidationError(CodeLengthMismatch, "input series lengths do not match")
	ErrZeroModulus       = NewValidationError(CodeZeroModulus, "modulus must be non-zero")
)
