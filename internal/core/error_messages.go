package core

// error_messages.go maps technical errors to user-facing messages with a code that
// can be quoted in support requests.
//
// # Parse Errors (PARSE001-PARSE099)
//
// Matched by identity (errors.Is), so wrapping never hides them:
//
//	PARSE001 - No header: no line starts with the field delimiter
//	           Action: Check that the export is a GENESIS "datencsv" table
//
//	PARSE002 - No data: the header block is not followed by any data line
//	           Action: The export is empty; widen the requested time range
//
//	PARSE003 - Too many header rows skipped
//	           Action: Lower skip_header_rows below the number of header rows
//
//	PARSE004 - Empty header block
//	           Action: Check that the export contains column headers
//
//	PARSE005 - Malformed row: a data line has the wrong number of fields
//	           Action: The export is damaged; download it again
//
//	PARSE006 - Invalid options: the parse configuration is inconsistent
//	           Action: Check delimiter, decimal separator and encoding settings
//
// # Input Errors (INPUT001-INPUT099)
//
//	INPUT001 - Input too large
//	           Action: Request a smaller table or raise PARSER_MAX_INPUT_BYTES
//	           Patterns: "input too large"
//
//	INPUT002 - Empty input
//	           Action: Send the export text in the request body
//	           Patterns: "empty input"
//
// # Database Errors (DB001-DB099)
//
//	DB004 - Connection refused       Patterns: "connection refused"
//	DB005 - Connection reset         Patterns: "connection reset"
//	DB006 - Timeout                  Patterns: "timeout"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled       Patterns: "context canceled"
//	REQ002 - Request timeout         Patterns: "context deadline exceeded"
//	REQ003 - System busy             Patterns: "too many concurrent parses"
//	REQ004 - Invalid parameter       Patterns: "invalid parameter"
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Table not found         Patterns: "table not found"
//	TBL002 - Storage disabled        Patterns: "store disabled"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited           Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application logs for the
// technical error.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorIdentity maps a sentinel error to its user message.
type errorIdentity struct {
	target error
	msg    UserMessage
}

// parseErrorMessages are checked first, in order, with errors.Is.
var parseErrorMessages = []errorIdentity{
	{
		target: ErrNoHeaderFound,
		msg: UserMessage{
			Message: "No header rows were found in the export",
			Action:  "Check that the export is a GENESIS \"datencsv\" table",
			Code:    "PARSE001",
		},
	},
	{
		target: ErrNoDataFound,
		msg: UserMessage{
			Message: "The export contains headers but no data rows",
			Action:  "The table is empty; widen the requested time range",
			Code:    "PARSE002",
		},
	},
	{
		target: ErrTooManyHeaderRowsSkipped,
		msg: UserMessage{
			Message: "More header rows were skipped than the export contains",
			Action:  "Lower skip_header_rows below the number of header rows",
			Code:    "PARSE003",
		},
	},
	{
		target: ErrEmptyHeaderBlock,
		msg: UserMessage{
			Message: "The header block is empty",
			Action:  "Check that the export contains column headers",
			Code:    "PARSE004",
		},
	},
	{
		target: ErrMalformedRow,
		msg: UserMessage{
			Message: "A data row has the wrong number of fields",
			Action:  "The export is damaged; download it again",
			Code:    "PARSE005",
		},
	},
	{
		target: ErrInvalidOptions,
		msg: UserMessage{
			Message: "The parse options are invalid",
			Action:  "Check delimiter, decimal separator and encoding settings",
			Code:    "PARSE006",
		},
	},
	{
		target: ErrInputTooLarge,
		msg: UserMessage{
			Message: "The export exceeds the maximum input size",
			Action:  "Request a smaller table or raise PARSER_MAX_INPUT_BYTES",
			Code:    "INPUT001",
		},
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages
// for errors that come from outside this package. The first match wins, so
// specific patterns precede general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "empty input",
		msg: UserMessage{
			Message: "No export text was provided",
			Action:  "Send the export text in the request body",
			Code:    "INPUT002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller table or try again later",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller table or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "too many concurrent parses",
		msg: UserMessage{
			Message: "The service is busy",
			Action:  "Please wait a moment and try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "invalid parameter",
		msg: UserMessage{
			Message: "A request parameter is invalid",
			Action:  "Check the query parameters of the request",
			Code:    "REQ004",
		},
	},
	{
		pattern: "table not found",
		msg: UserMessage{
			Message: "The requested table does not exist",
			Action:  "Verify the table id is correct",
			Code:    "TBL001",
		},
	},
	{
		pattern: "store disabled",
		msg: UserMessage{
			Message: "Table storage is not configured",
			Action:  "Set DATABASE_URL to enable stored tables",
			Code:    "TBL002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Parse
// errors are matched by identity, everything else by pattern.
//
// Example:
//
//	_, err := core.Parse(text, core.DefaultOptions())
//	msg := core.MapError(err)
//	// msg.Code == "PARSE005" for a malformed row
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, ei := range parseErrorMessages {
		if errors.Is(err, ei.target) {
			return ei.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err and keeps the original for logging via Unwrap.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
