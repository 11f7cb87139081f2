// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

// Ingestion errors are raised while turning a source into a Group.
const (
	// ErrCodeEmptyDataset indicates the source contained no records.
	ErrCodeEmptyDataset ErrorCode = "EMPTY_DATASET"
	// ErrCodeMissingField indicates a record lacks a required field (id or name).
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeDuplicateID indicates two records share the same id.
	ErrCodeDuplicateID ErrorCode = "DUPLICATE_ID"
	// ErrCodeMalformedSource indicates the source could not be decoded into records.
	ErrCodeMalformedSource ErrorCode = "MALFORMED_SOURCE"
	// ErrCodeUnsupportedFormat indicates no converter is registered for the format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
)

// Configuration errors are raised while validating a configuration payload.
const (
	// ErrCodeUnknownVariable indicates a variable has no ingested Group.
	ErrCodeUnknownVariable ErrorCode = "UNKNOWN_VARIABLE"
	// ErrCodeUnknownAttribute indicates an objective or constraint names an undeclared attribute.
	ErrCodeUnknownAttribute ErrorCode = "UNKNOWN_ATTRIBUTE"
	// ErrCodeInvalidEnum indicates an unrecognized direction or operator.
	ErrCodeInvalidEnum ErrorCode = "INVALID_ENUM"
	// ErrCodeInvalidNumericParameter indicates a numeric parameter outside its allowed range.
	ErrCodeInvalidNumericParameter ErrorCode = "INVALID_NUMERIC_PARAMETER"
)

// Evaluation errors are raised while evaluating decision vectors.
const (
	// ErrCodeOutOfRange indicates a decision index outside the variable bounds.
	ErrCodeOutOfRange ErrorCode = "OUT_OF_RANGE"
)

const (
	// ErrCodeNotFound indicates a requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeTimeout indicates an operation exceeded its time limit.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeInvalidRequest indicates malformed or invalid input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeRateLimitExceeded indicates the client exceeded an enforced request limit.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeMethodNotAllowed indicates the HTTP method is not allowed for the resource.
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	// ErrCodeUnavailable indicates a service or resource is temporarily unavailable.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// Category groups error codes by the stage that produces them.
type Category string

const (
	CategoryIngestion     Category = "ingestion"
	CategoryConfiguration Category = "configuration"
	CategoryEvaluation    Category = "evaluation"
	CategoryGeneral       Category = "general"
)

// Category returns the pipeline stage the code belongs to.
func (c ErrorCode) Category() Category {
	switch c {
	case ErrCodeEmptyDataset, ErrCodeMissingField, ErrCodeDuplicateID,
		ErrCodeMalformedSource, ErrCodeUnsupportedFormat:
		return CategoryIngestion
	case ErrCodeUnknownVariable, ErrCodeUnknownAttribute, ErrCodeInvalidEnum,
		ErrCodeInvalidNumericParameter:
		return CategoryConfiguration
	case ErrCodeOutOfRange:
		return CategoryEvaluation
	default:
		return CategoryGeneral
	}
}

// StructuredError provides structured error information for better observability.
// It includes an error code for programmatic handling, a human-readable message,
// the underlying cause, and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// CodeOf returns the code of the outermost StructuredError in the chain,
// or an empty code when the chain has none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsCode reports whether any StructuredError in the chain carries code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var se *StructuredError
		if !stderrors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Cause
	}
	return false
}
