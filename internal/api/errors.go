package api

import (
	"errors"
	"fmt"
)

// ValidationError reports a request rejected before it reached the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// ErrNoFile is returned by uploads invoked without a selected file.
var ErrNoFile = &ValidationError{Field: "file", Message: "no file selected"}

// AuthenticationError reports a failed login. Callers show a single generic
// message for every cause; Status is kept for the event log only.
type AuthenticationError struct {
	Status int
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %v", e.Err)
	}
	return fmt.Sprintf("authentication failed: status %d", e.Status)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// UploadError reports a failed analysis submission.
type UploadError struct {
	Status int
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload failed: %v", e.Err)
	}
	return fmt.Sprintf("upload failed: status %d", e.Status)
}

func (e *UploadError) Unwrap() error { return e.Err }

// FetchError reports a failed roster fetch.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch analyses: %v", e.Err)
	}
	return fmt.Sprintf("fetch analyses: status %d", e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DeleteError reports a failed job deletion.
type DeleteError struct {
	JobID  string
	Status int
	Err    error
}

func (e *DeleteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delete analysis %s: %v", e.JobID, e.Err)
	}
	return fmt.Sprintf("delete analysis %s: status %d", e.JobID, e.Status)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// AccountError reports a failed registration or identity lookup. Detail is
// the backend's explanation, such as "Email already registered".
type AccountError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *AccountError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

func (e *AccountError) Unwrap() error { return e.Err }

// TimeoutError reports a request that exceeded the configured bound.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: request timed out", e.Op)
}

// StatusOf extracts the HTTP status carried by any of the client errors,
// or 0 when the failure happened before a response arrived.
func StatusOf(err error) int {
	var (
		authErr   *AuthenticationError
		uploadErr *UploadError
		fetchErr  *FetchError
		deleteErr *DeleteError
		acctErr   *AccountError
	)
	switch {
	case errors.As(err, &authErr):
		return authErr.Status
	case errors.As(err, &uploadErr):
		return uploadErr.Status
	case errors.As(err, &fetchErr):
		return fetchErr.Status
	case errors.As(err, &deleteErr):
		return deleteErr.Status
	case errors.As(err, &acctErr):
		return acctErr.Status
	}
	return 0
}

// IsTimeout reports whether err was caused by the request bound expiring.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
