// Package errors provides structured client errors with localized alert text.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Validation errors, raised before any network call.
	CodeEmailInvalid        Code = "EMAIL_INVALID"
	CodePasswordTooShort    Code = "PASSWORD_TOO_SHORT"
	CodeNameRequired        Code = "NAME_REQUIRED"
	CodeMessageEmpty        Code = "MESSAGE_EMPTY"
	CodeMessageTooLong      Code = "MESSAGE_TOO_LONG"
	CodeRoomRequired        Code = "ROOM_REQUIRED"
	CodeActivityTitleEmpty  Code = "ACTIVITY_TITLE_EMPTY"
	CodeActivityTitleLong   Code = "ACTIVITY_TITLE_TOO_LONG"
	CodeActivityStatus      Code = "ACTIVITY_INVALID_STATUS"
	CodeActivityPriority    Code = "ACTIVITY_INVALID_PRIORITY"
	CodeActivityExpiredDate Code = "ACTIVITY_EXPIRATION_IN_PAST"
	CodeFamilyRequired      Code = "FAMILY_REQUIRED"

	// Connectivity errors.
	CodeNoConnectivity Code = "NO_CONNECTIVITY"
	CodeNetwork        Code = "NETWORK_FAILURE"

	// Server errors mapped from HTTP status.
	CodeBadRequest       Code = "BAD_REQUEST"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeServerError      Code = "SERVER_ERROR"
	CodeUnexpectedStatus Code = "UNEXPECTED_STATUS"

	// Session errors. These demote the session to logged out and are not
	// shown as alerts.
	CodeTokenInvalid     Code = "TOKEN_INVALID"
	CodeTokenExpired     Code = "TOKEN_EXPIRED"
	CodeNotAuthenticated Code = "NOT_AUTHENTICATED"

	// Chat socket errors.
	CodeSocketError Code = "SOCKET_ERROR"
	CodeSendFailed  Code = "SEND_FAILED"
)

// Category groups codes by how the client reacts to them.
type Category string

const (
	CategoryValidation   Category = "validation"
	CategoryConnectivity Category = "connectivity"
	CategoryServer       Category = "server"
	CategoryAuth         Category = "auth"
	CategorySocket       Category = "socket"
	CategoryUnknown      Category = "unknown"
)

// Category maps a code to its handling category.
func (c Code) Category() Category {
	switch c {
	case CodeEmailInvalid,
		CodePasswordTooShort,
		CodeNameRequired,
		CodeMessageEmpty,
		CodeMessageTooLong,
		CodeRoomRequired,
		CodeActivityTitleEmpty,
		CodeActivityTitleLong,
		CodeActivityStatus,
		CodeActivityPriority,
		CodeActivityExpiredDate,
		CodeFamilyRequired:
		return CategoryValidation

	case CodeNoConnectivity,
		CodeNetwork:
		return CategoryConnectivity

	case CodeBadRequest,
		CodeUnauthorized,
		CodeForbidden,
		CodeNotFound,
		CodeServerError,
		CodeUnexpectedStatus:
		return CategoryServer

	case CodeTokenInvalid,
		CodeTokenExpired,
		CodeNotAuthenticated:
		return CategoryAuth

	case CodeSocketError,
		CodeSendFailed:
		return CategorySocket

	default:
		return CategoryUnknown
	}
}

// Silent reports whether errors with this code stay out of user alerts.
func (c Code) Silent() bool {
	return c == CodeTokenInvalid || c == CodeTokenExpired
}

// CodeForStatus maps an HTTP status to its server error code. Any status
// outside the known set maps to CodeUnexpectedStatus.
func CodeForStatus(status int) Code {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusInternalServerError:
		return CodeServerError
	default:
		return CodeUnexpectedStatus
	}
}
