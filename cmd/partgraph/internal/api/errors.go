// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package api

import (
	"bytes"
	"errors"
	"fmt"
)

// Sentinel errors for service failures.
//
// Commands branch on these with errors.Is; ServiceError carries the
// human-facing detail and unwraps to the matching sentinel.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized: the access token is missing or expired")
	ErrForbidden    = errors.New("forbidden: the tenant does not permit this operation")
	ErrParse        = errors.New("failed to parse the service response")
	ErrUnsupported  = errors.New("unsupported response from the service")
	ErrConnection   = errors.New("cannot reach the service")
	ErrCancelled    = errors.New("request cancelled")
)

// ServiceErrorType categorizes remote service failures for programmatic handling.
type ServiceErrorType int

const (
	// ServiceErrorNotFound indicates the requested resource does not exist.
	ServiceErrorNotFound ServiceErrorType = iota

	// ServiceErrorUnauthorized indicates the bearer token was rejected.
	ServiceErrorUnauthorized

	// ServiceErrorForbidden indicates the token lacks permission.
	ServiceErrorForbidden

	// ServiceErrorParse indicates the response body could not be decoded.
	ServiceErrorParse

	// ServiceErrorUnsupported indicates an unexpected status code.
	ServiceErrorUnsupported

	// ServiceErrorConnection indicates the service is not reachable.
	ServiceErrorConnection

	// ServiceErrorCancelled indicates the operation was cancelled.
	ServiceErrorCancelled
)

// String returns the error type as a string for logging.
func (t ServiceErrorType) String() string {
	switch t {
	case ServiceErrorNotFound:
		return "NOT_FOUND"
	case ServiceErrorUnauthorized:
		return "UNAUTHORIZED"
	case ServiceErrorForbidden:
		return "FORBIDDEN"
	case ServiceErrorParse:
		return "PARSE_FAILED"
	case ServiceErrorUnsupported:
		return "UNSUPPORTED"
	case ServiceErrorConnection:
		return "CONNECTION_FAILED"
	case ServiceErrorCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// sentinel maps the type to its package-level sentinel.
func (t ServiceErrorType) sentinel() error {
	switch t {
	case ServiceErrorNotFound:
		return ErrNotFound
	case ServiceErrorUnauthorized:
		return ErrUnauthorized
	case ServiceErrorForbidden:
		return ErrForbidden
	case ServiceErrorParse:
		return ErrParse
	case ServiceErrorUnsupported:
		return ErrUnsupported
	case ServiceErrorConnection:
		return ErrConnection
	case ServiceErrorCancelled:
		return ErrCancelled
	default:
		return nil
	}
}

// ServiceError provides structured error information for service operations.
type ServiceError struct {
	// Type categorizes the error for programmatic handling.
	Type ServiceErrorType

	// Resource names the resource involved (model uuid, folder name).
	Resource string

	// Message is a human-readable error description.
	Message string

	// Detail provides technical information for debugging.
	Detail string

	// Remediation suggests how to fix the issue.
	Remediation string
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel matching the error type.
//
// Enables errors.Is() branching without losing the structured detail.
func (e *ServiceError) Unwrap() error {
	return e.Type.sentinel()
}

// FullError returns a detailed error message including remediation.
func (e *ServiceError) FullError() string {
	var buf bytes.Buffer
	buf.WriteString(e.Message)
	if e.Resource != "" {
		buf.WriteString(fmt.Sprintf(" (resource: %s)", e.Resource))
	}
	if e.Detail != "" {
		buf.WriteString("\n\nDetails: ")
		buf.WriteString(e.Detail)
	}
	if e.Remediation != "" {
		buf.WriteString("\n\nTo fix:\n")
		buf.WriteString(e.Remediation)
	}
	return buf.String()
}
