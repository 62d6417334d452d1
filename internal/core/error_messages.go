package core

// error_messages.go maps technical errors to coded messages users can quote
// to support.
//
// # Error Codes Reference
//
// # Lab Config Errors (CFG001-CFG099)
//
//	CFG001 - No lab config: The workbook did not match a known laboratory
//	         Action: Pick the laboratory explicitly, or check the column headers
//	         Patterns: "lab config not found"
//
// # Conversion Errors (DATE001, SCH001)
//
//	DATE001 - Missing date column: A sheet has no column to group samples by date
//	          Action: Add a date column (for example EventDate) to the sheet
//	          Patterns: "missing date column"
//
//	DEPTH001 - Default depth: A soil sample had no depth and was given a default
//	           Patterns: "depth inference"
//
//	UNIT001 - Unit kept: A result unit could not be converted
//	          Patterns: "unit conversion"
//
//	SCH001 - Invalid result: Rows for one date could not form a valid lab event
//	         Action: Review the listed fields for that sheet and date
//	         Patterns: "could not construct a valid modusresult"
//
// # Workbook Errors (WB001-WB099)
//
//	WB001 - Unreadable workbook: The file is not a readable spreadsheet
//	        Action: Upload an .xlsx or .csv export from the lab
//	        Patterns: "unreadable workbook"
//
//	WB002 - Unsupported file type: Only .xlsx and .csv files are accepted
//	        Action: Save the file as .xlsx or .csv
//	        Patterns: "unsupported file type"
//
//	WB003 - Empty workbook: The workbook has no data sheets
//	        Action: Upload a workbook with at least one sheet of samples
//	        Patterns: "empty workbook"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Action: Split the workbook into smaller files
//	          Patterns: "file too large", "request body too large"
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a lab report to convert
//	          Patterns: "no file provided"
//
// # Conversion Session Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many conversions in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent conversions"
//
//	UPL003 - Result expired: The conversion result was not found
//	         Action: Convert the file again
//	         Patterns: "result not found"
//
//	UPL004 - Request cancelled: Request was cancelled
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout: Request timed out
//	         Patterns: "context deadline exceeded"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate event: This event was already stored
//	        Patterns: "duplicate key"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
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

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Order matters.
var errorPatterns = []errorPattern{
	// Conversion
	{
		pattern: "lab config not found",
		msg: UserMessage{
			Message: "The workbook did not match a known laboratory",
			Action:  "Pick the laboratory explicitly, or check the column headers",
			Code:    "CFG001",
		},
	},
	{
		pattern: "missing date column",
		msg: UserMessage{
			Message: "A sheet has no column to group samples by date",
			Action:  "Add a date column (for example EventDate) to the sheet",
			Code:    "DATE001",
		},
	},
	{
		pattern: "could not construct a valid modusresult",
		msg: UserMessage{
			Message: "Rows for one date could not form a valid lab event",
			Action:  "Review the listed fields for that sheet and date",
			Code:    "SCH001",
		},
	},
	{
		pattern: "depth inference",
		msg: UserMessage{
			Message: "A soil sample had no depth and was given a default",
			Action:  "Add depth columns if the default depth is wrong",
			Code:    "DEPTH001",
		},
	},
	{
		pattern: "unit conversion",
		msg: UserMessage{
			Message: "A result unit could not be converted and was kept as reported",
			Action:  "Check the unit written in the column header or UNITS row",
			Code:    "UNIT001",
		},
	},

	// Workbook
	{
		pattern: "unreadable workbook",
		msg: UserMessage{
			Message: "The file is not a readable spreadsheet",
			Action:  "Upload an .xlsx or .csv export from the lab",
			Code:    "WB001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "Only .xlsx and .csv files are accepted",
			Action:  "Save the file as .xlsx or .csv",
			Code:    "WB002",
		},
	},
	{
		pattern: "empty workbook",
		msg: UserMessage{
			Message: "The workbook has no data sheets",
			Action:  "Upload a workbook with at least one sheet of samples",
			Code:    "WB003",
		},
	},

	// File
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the workbook into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the workbook into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a lab report to convert",
			Code:    "FILE004",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Send a JSON body with a headers list",
			Code:    "REQ001",
		},
	},
	{
		pattern: "unknown export format",
		msg: UserMessage{
			Message: "That export format is not supported",
			Action:  "Use format=csv or format=xlsx",
			Code:    "REQ002",
		},
	},

	// Session
	{
		pattern: "too many concurrent conversions",
		msg: UserMessage{
			Message: "Too many conversions in progress",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "result not found",
		msg: UserMessage{
			Message: "The conversion result was not found",
			Action:  "Convert the file again",
			Code:    "UPL003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},

	// Database
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "This event was already stored",
			Action:  "No action needed",
			Code:    "DB001",
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
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Unknown
// errors map to ERR000; nil maps to the zero UserMessage.
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

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// Issue is a sheet or group failure, or a warning, as reported to clients.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Issues maps errs for display, keeping the technical text as Detail.
func Issues(errs []error) []Issue {
	out := make([]Issue, 0, len(errs))
	for _, err := range errs {
		msg := MapError(err)
		out = append(out, Issue{Code: msg.Code, Message: msg.Message, Detail: err.Error()})
	}
	return out
}
