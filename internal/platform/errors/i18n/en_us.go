package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown             = "UNKNOWN"
	CodeEmailInvalid        = "EMAIL_INVALID"
	CodePasswordTooShort    = "PASSWORD_TOO_SHORT"
	CodeNameRequired        = "NAME_REQUIRED"
	CodeMessageEmpty        = "MESSAGE_EMPTY"
	CodeMessageTooLong      = "MESSAGE_TOO_LONG"
	CodeRoomRequired        = "ROOM_REQUIRED"
	CodeActivityTitleEmpty  = "ACTIVITY_TITLE_EMPTY"
	CodeActivityTitleLong   = "ACTIVITY_TITLE_TOO_LONG"
	CodeActivityStatus      = "ACTIVITY_INVALID_STATUS"
	CodeActivityPriority    = "ACTIVITY_INVALID_PRIORITY"
	CodeActivityExpiredDate = "ACTIVITY_EXPIRATION_IN_PAST"
	CodeFamilyRequired      = "FAMILY_REQUIRED"
	CodeNoConnectivity      = "NO_CONNECTIVITY"
	CodeNetwork             = "NETWORK_FAILURE"
	CodeBadRequest          = "BAD_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeServerError         = "SERVER_ERROR"
	CodeUnexpectedStatus    = "UNEXPECTED_STATUS"
	CodeTokenInvalid        = "TOKEN_INVALID"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeNotAuthenticated    = "NOT_AUTHENTICATED"
	CodeSocketError         = "SOCKET_ERROR"
	CodeSendFailed          = "SEND_FAILED"
)

var enUS = map[Code]string{
	CodeUnknown:             "Something went wrong. Please try again.",
	CodeEmailInvalid:        "Enter a valid email address.",
	CodePasswordTooShort:    "Password must be at least {{.Min}} characters.",
	CodeNameRequired:        "Name is required.",
	CodeMessageEmpty:        "Message cannot be empty.",
	CodeMessageTooLong:      "Message must be at most {{.Max}} characters.",
	CodeRoomRequired:        "Choose a family chat first.",
	CodeActivityTitleEmpty:  "Activity title is required.",
	CodeActivityTitleLong:   "Activity title must be at most {{.Max}} characters.",
	CodeActivityStatus:      "Unknown activity status {{.Value}}.",
	CodeActivityPriority:    "Unknown activity priority {{.Value}}.",
	CodeActivityExpiredDate: "Expiration date must be in the future.",
	CodeFamilyRequired:      "Choose a family first.",
	CodeNoConnectivity:      "No internet connection. Check your network and try again.",
	CodeNetwork:             "Could not reach the server. Please try again.",
	CodeBadRequest:          "The request was invalid: {{.Detail}}",
	CodeUnauthorized:        "Your email or password is incorrect, or your session has ended.",
	CodeForbidden:           "You do not have permission to do that.",
	CodeNotFound:            "We could not find what you were looking for.",
	CodeServerError:         "The server had a problem. Please try again later.",
	CodeUnexpectedStatus:    "Unexpected server response ({{.Status}}).",
	CodeTokenInvalid:        "Your session is invalid. Please sign in again.",
	CodeTokenExpired:        "Your session expired. Please sign in again.",
	CodeNotAuthenticated:    "Please sign in first.",
	CodeSocketError:         "Chat connection lost. It will reconnect when you send a message.",
	CodeSendFailed:          "Your message could not be sent.",
}
