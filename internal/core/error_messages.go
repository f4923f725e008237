package core

// error_messages.go maps technical errors to messages users can act on.
//
// Every message carries a code that users can quote to support:
//
//	CSV001-CSV004  malformed file (no header, ragged rows, quoting, bad header)
//	VAL001-VAL006  row validation
//	REF001         category or location could not be created
//	DB001-DB006    store constraint and connectivity failures
//	IMP001-IMP003  import run limits and cancellation
//	ERR000         anything else; check the logs for the technical error

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

// sentinelMessages is checked first, with errors.Is, so wrapped errors map
// regardless of their text.
var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{ErrNoHeader, UserMessage{
		Message: "The file has no header row",
		Action:  "Start from the import template and keep its first line",
		Code:    "CSV001",
	}},
	{ErrFieldCount, UserMessage{
		Message: "A row has a different number of columns than the header",
		Action:  "Check the reported line for extra or missing commas",
		Code:    "CSV002",
	}},
	{ErrMalformedQuote, UserMessage{
		Message: "The file contains a badly quoted value",
		Action:  "Make sure every quoted value ends with a closing quote",
		Code:    "CSV003",
	}},
	{ErrInvalidHeader, UserMessage{
		Message: "The header row does not match the import template",
		Action:  "Use the column names from the import template",
		Code:    "CSV004",
	}},
	{ErrStoreUnavailable, UserMessage{
		Message: "Inventory storage is unavailable",
		Action:  "Rows imported so far were kept. Try the remaining rows again later",
		Code:    "DB004",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "Too many imports are running",
		Action:  "Please wait a moment and try again",
		Code:    "IMP001",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "The file is larger than the import limit",
		Action:  "Split the file into smaller files",
		Code:    "IMP002",
	}},
	{context.Canceled, UserMessage{
		Message: "The import was cancelled",
		Action:  "Rows imported before cancelling were kept",
		Code:    "IMP003",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB006",
	}},
}

// errorPatterns maps technical error text (case-insensitive substring) to
// user messages. The first match wins, so specific patterns go first.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	// Row validation
	{"required", UserMessage{
		Message: "A required value is empty",
		Action:  "Fill in name, condition, category_name and location_name, and quantity for consumables",
		Code:    "VAL001",
	}},
	{"unknown condition", UserMessage{
		Message: "Condition is not recognised",
		Action:  "Use one of: new, good, fair, poor, damaged, retired",
		Code:    "VAL002",
	}},
	{"whole number", UserMessage{
		Message: "Quantity must be a whole number",
		Action:  "Remove decimals and text from quantity columns",
		Code:    "VAL003",
	}},
	{"invalid number", UserMessage{
		Message: "Invalid price format",
		Action:  "Use a plain number such as 199.99",
		Code:    "VAL004",
	}},
	{"invalid date", UserMessage{
		Message: "Invalid date format",
		Action:  "Use YYYY-MM-DD",
		Code:    "VAL005",
	}},
	{"true or false", UserMessage{
		Message: "is_consumable must be true or false",
		Action:  "Use true, false, or leave it blank",
		Code:    "VAL006",
	}},
	{"must not be negative", UserMessage{
		Message: "Quantities and prices cannot be negative",
		Action:  "Correct the negative value",
		Code:    "VAL003",
	}},

	// Store constraints
	{"duplicate key", UserMessage{
		Message: "A record with this name already exists",
		Action:  "Check for duplicate entries in your CSV",
		Code:    "DB001",
	}},
	{"unique constraint", UserMessage{
		Message: "A record with this name already exists",
		Action:  "Check for duplicate entries in your CSV",
		Code:    "DB001",
	}},
	{"foreign key", UserMessage{
		Message: "Referenced record does not exist",
		Action:  "Please try the import again",
		Code:    "DB002",
	}},

	// Store connectivity
	{"connection refused", UserMessage{
		Message: "Unable to connect to inventory storage",
		Action:  "Please try again in a few moments",
		Code:    "DB003",
	}},
	{"connection reset", UserMessage{
		Message: "Storage connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB006",
	}},
}

// defaultMessage is returned when nothing matches (ERR000). Support staff
// should check the logs for the technical error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(&ParseError{Line: 1, Err: ErrNoHeader})
//	// msg.Code == "CSV001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	var refErr *ReferenceCreationError
	if errors.As(err, &refErr) {
		return UserMessage{
			Message: fmt.Sprintf("Could not create %s %q", refErr.Kind, refErr.Name),
			Action:  "Check the name, or create it manually and import again",
			Code:    "REF001",
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

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
