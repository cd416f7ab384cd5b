package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidSignal        ErrorCode = 102
	ErrCodeInvalidExecutionMode ErrorCode = 103
	ErrCodeInvalidTimeframe     ErrorCode = 104

	// Data errors (200-299)
	ErrCodeDataNotFound     ErrorCode = 200
	ErrCodeDataParseFailed  ErrorCode = 201
	ErrCodeDataInvalid      ErrorCode = 202
	ErrCodeDataWriteFailed  ErrorCode = 203
	ErrCodeMissingDataField ErrorCode = 204

	// Strategy errors (400-499)
	ErrCodeStrategyNotLoaded   ErrorCode = 400
	ErrCodeStrategyConfigError ErrorCode = 401
	ErrCodeStrategyFailed      ErrorCode = 402

	// Trading errors (500-599)
	ErrCodeOppositePosition ErrorCode = 500

	// Backtest errors (600-699)
	ErrCodeBacktestNotInitialized ErrorCode = 600
	ErrCodeBacktestNoCandles      ErrorCode = 601
	ErrCodeBacktestNoSignals      ErrorCode = 602
	ErrCodeBacktestNoResultsDir   ErrorCode = 603
	ErrCodeBacktestNotRun         ErrorCode = 604
)
