// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Codes are grouped by the stage that raises them: ingestion
// (EMPTY_DATASET, MISSING_FIELD, DUPLICATE_ID, MALFORMED_SOURCE,
// UNSUPPORTED_FORMAT), configuration (UNKNOWN_VARIABLE, UNKNOWN_ATTRIBUTE,
// INVALID_ENUM, INVALID_NUMERIC_PARAMETER) and evaluation (OUT_OF_RANGE).
//
// Example usage:
//
//	err := errors.NewWithContext(
//	    errors.ErrCodeDuplicateID,
//	    "duplicate unit id",
//	    map[string]any{
//	        "id":    "E1",
//	        "index": 3,
//	    },
//	)
//
//	if errors.IsCode(err, errors.ErrCodeDuplicateID) {
//	    // reject the source
//	}
package errors
