package core

// error_messages.go maps technical errors to user-friendly hints.
//
// Each hint carries a code that users can quote when asking for help.
// Codes are grouped by category:
//
//	DB001-DB099    database connection and statement failures
//	FILE001-FILE099 upload and parsing problems
//	VAL001-VAL099  name and value validation
//	UPL001-UPL099  batch processing limits and timeouts
//	RATE001        request throttling
//	ERR000         fallback when nothing matches
//
// Patterns are matched case-insensitively with strings.Contains. The first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Database connection (DB001-DB005)
	// =========================================================================
	{
		pattern: "password authentication failed",
		msg: UserMessage{
			Message: "The database rejected the credentials",
			Action:  "Check the user name and password",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check that PostgreSQL is running and the host is correct",
			Code:    "DB002",
		},
	},
	{
		pattern: "no such host",
		msg: UserMessage{
			Message: "Database host could not be resolved",
			Action:  "Check the host name for typos",
			Code:    "DB003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Connection to the database timed out",
			Action:  "Check the host and any firewall between you and the server",
			Code:    "DB004",
		},
	},

	// =========================================================================
	// Statement failures (DB010-DB019)
	// Ordered before DB005 because both contain "does not exist".
	// =========================================================================
	{
		pattern: "of relation",
		msg: UserMessage{
			Message: "The file's columns do not match the existing table",
			Action:  "Rename the file to load into a new table, or align its headers with the table",
			Code:    "DB010",
		},
	},
	{
		pattern: "specified more than once",
		msg: UserMessage{
			Message: "Two columns have the same name",
			Action:  "Make the column headers unique",
			Code:    "DB011",
		},
	},
	{
		pattern: "invalid input syntax",
		msg: UserMessage{
			Message: "A value does not match the existing column type",
			Action:  "Check the file against the table's column types",
			Code:    "DB012",
		},
	},
	{
		pattern: "out of range",
		msg: UserMessage{
			Message: "A value is too large for its column",
			Action:  "Check numeric and date values for outliers",
			Code:    "DB013",
		},
	},
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "The database does not exist",
			Action:  "Check the database name or create it first",
			Code:    "DB005",
		},
	},

	// =========================================================================
	// File errors (FILE001-FILE005)
	// =========================================================================
	{
		pattern: "invalid file type",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Upload a .csv, .xlsx or .xls file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "file is empty",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a file with a header row and at least one data row",
			Code:    "FILE002",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "Upload exceeds the maximum size limit (100MB)",
			Action:  "Split the files across several uploads",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no files selected",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select at least one file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "parse",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Check that the file is a valid CSV or Excel workbook",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Validation (VAL001)
	// =========================================================================
	{
		pattern: "identifier is empty",
		msg: UserMessage{
			Message: "A table or column name has no usable characters",
			Action:  "Use letters, digits or underscores in file names and headers",
			Code:    "VAL001",
		},
	},

	// =========================================================================
	// Batch processing (UPL001-UPL003)
	// =========================================================================
	{
		pattern: "too many concurrent",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "not connected",
		msg: UserMessage{
			Message: "No database connection in this session",
			Action:  "Connect to a database first",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading fewer or smaller files",
			Code:    "UPL003",
		},
	},

	// =========================================================================
	// Rate limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the server logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
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

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
