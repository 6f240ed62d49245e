package core

// error_messages.go maps technical errors to messages an import user can act on.
//
// Every message carries a code that support staff can look up:
//
//	FILE001-FILE099  reading the uploaded file
//	FMT001-FMT099    file content and encoding
//	MAP001-MAP099    column to field mapping
//	IMP001-IMP099    import run scheduling
//	DB001-DB099      catalog database
//	ERR000           anything else; check the server log
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns precede general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File
	{"file too large", UserMessage{"The file exceeds the maximum import size", "Split the file into smaller parts", "FILE001"}},
	{"empty file", UserMessage{"The file is empty", "Choose a file that contains a header and at least one article", "FILE002"}},
	{"no file provided", UserMessage{"No file was selected", "Choose a CSV or JSON file to import", "FILE003"}},
	{"file unreadable", UserMessage{"The file could not be read", "Check that the file is accessible and try again", "FILE004"}},

	// Content
	{"invalid file format", UserMessage{"The file content could not be read as articles", "JSON files must contain an array of objects", "FMT001"}},
	{"unknown encoding", UserMessage{"The selected character encoding is not supported", "Use utf-8, utf-16le, utf-16be, windows-1252 or iso-8859-1", "FMT002"}},

	// Mapping
	{"invalid field mapping", UserMessage{"The column assignment is not valid", "Assign each column to a known field or leave it unassigned", "MAP001"}},

	// Scheduling
	{"too many imports", UserMessage{"Another import is currently running", "Please wait a moment and try again", "IMP001"}},
	{"context canceled", UserMessage{"The import was cancelled", "Start the import again when ready", "IMP002"}},
	{"context deadline exceeded", UserMessage{"The import took too long", "Try a smaller file or try again later", "IMP003"}},

	// Database
	{"duplicate key", UserMessage{"An article or supplier with this id already exists", "Run the import again; ids are regenerated", "DB001"}},
	{"violates unique", UserMessage{"A duplicate value was found", "Check the file for repeated entries", "DB001"}},
	{"foreign key", UserMessage{"An article references a supplier that does not exist", "Run the import again", "DB002"}},
	{"connection refused", UserMessage{"Unable to connect to the catalog database", "Please try again in a few moments", "DB003"}},
	{"connection reset", UserMessage{"The database connection was interrupted", "Please try again", "DB004"}},
	{"timeout", UserMessage{"The database did not respond in time", "Please try again later", "DB005"}},
	{"deadlock", UserMessage{"The database was busy with conflicting operations", "Please try again", "DB006"}},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	msg := MapError(fmt.Errorf("parse: %w", ErrFileTooLarge))
//	// msg.Code == "FILE001"
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

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
