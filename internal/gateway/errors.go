package gateway

import "fmt"

// AuthError is an authentication failure: invalid credentials, duplicate
// registration, expired session. Reason is human-readable.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "auth: " + e.Reason }

// ForbiddenError means the gateway recognized the identity but refused the
// operation for lack of privilege. Distinct from AuthError so "not signed in"
// and "insufficient privilege" stay distinguishable by type.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return "forbidden: " + e.Reason }

// DataError is a failed query or mutation: network, validation or server
// failure. Status is the HTTP status, 0 when the request never completed.
type DataError struct {
	Status  int
	Message string
}

func (e *DataError) Error() string {
	if e.Status == 0 {
		return "gateway: " + e.Message
	}
	return fmt.Sprintf("gateway: status %d: %s", e.Status, e.Message)
}

// NotFoundError means a single-row read matched nothing.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}
