package errs

// messages.go maps classified (and some raw) errors to user-facing messages
// with codes the operator can quote to support.
//
// Codes:
//
//	AUTH001  - token rejected by the access gate
//	AUTH002  - remote storage denied the request mid-session
//	VAL001   - record validation failed (message carries detail)
//	INPUT001 - workbook could not be read
//	NF001    - requested file or session not found
//	CONF001  - conflicting or duplicate state
//	IO001    - remote operation failed
//	IO002    - remote endpoint unreachable
//	IO003    - remote operation timed out
//	PUB001   - export published to storage but the endpoint transfer failed
//	RATE001  - API rate limit hit
//	ERR000   - unclassified fallback; check server logs
import "strings"

// UserMessage is the operator-facing rendering of a failure.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

var kindMessages = map[Kind]UserMessage{
	KindAuth: {
		Message: "Access token was rejected",
		Action:  "Check the SAS token and open a new session",
		Code:    "AUTH001",
	},
	KindInput: {
		Message: "The workbook could not be read",
		Action:  "Confirm the file is a PIG template saved as .xlsx",
		Code:    "INPUT001",
	},
	KindNotFound: {
		Message: "The requested file was not found",
		Action:  "Refresh the listing and try again",
		Code:    "NF001",
	},
	KindConflict: {
		Message: "The request conflicts with existing data",
		Action:  "Reload the current data and retry",
		Code:    "CONF001",
	},
	KindRemoteIO: {
		Message: "A remote operation failed",
		Action:  "Try again; if it keeps failing check connectivity and credentials",
		Code:    "IO001",
	},
	KindPartialPublish: {
		Message: "The export was saved to storage but the endpoint transfer failed",
		Action:  "Run the publish again; the endpoint copy is stale until it succeeds",
		Code:    "PUB001",
	},
}

// rawPatterns classify errors that bubble up from the SDKs unclassified.
// Matched case-insensitively with strings.Contains; first match wins, so
// specific patterns come before general ones.
var rawPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"authorizationfailure", UserMessage{
		Message: "Remote storage denied the request",
		Action:  "The SAS token may have expired; open a new session",
		Code:    "AUTH002",
	}},
	{"status code 403", UserMessage{
		Message: "Remote storage denied the request",
		Action:  "The SAS token may have expired; open a new session",
		Code:    "AUTH002",
	}},
	{"blobnotfound", UserMessage{
		Message: "The requested file was not found in storage",
		Action:  "Refresh the listing and try again",
		Code:    "NF001",
	}},
	{"status code 404", UserMessage{
		Message: "The requested file was not found in storage",
		Action:  "Refresh the listing and try again",
		Code:    "NF001",
	}},
	{"connection refused", UserMessage{
		Message: "A remote endpoint is unreachable",
		Action:  "Check connectivity and try again in a few moments",
		Code:    "IO002",
	}},
	{"no such host", UserMessage{
		Message: "A remote endpoint is unreachable",
		Action:  "Check the configured host names",
		Code:    "IO002",
	}},
	{"deadline exceeded", UserMessage{
		Message: "A remote operation timed out",
		Action:  "Try again; large files can take a while",
		Code:    "IO003",
	}},
	{"timeout", UserMessage{
		Message: "A remote operation timed out",
		Action:  "Try again; large files can take a while",
		Code:    "IO003",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Try again or check the server logs",
	Code:    "ERR000",
}

// MapError renders an error for the operator. Classified errors map by
// kind; validation errors keep their own wording because the message is the
// point. Unclassified errors fall back to pattern matching, then ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	switch KindOf(err) {
	case KindValidation:
		return UserMessage{Message: leafMessage(err), Code: "VAL001"}
	case KindUnknown:
		// fall through to pattern matching
	default:
		if msg, ok := kindMessages[KindOf(err)]; ok {
			return msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, p := range rawPatterns {
		if strings.Contains(errStr, p.pattern) {
			return p.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action" for plain-text
// surfaces such as the CLI.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	out := msg.Message + " (Code: " + msg.Code + ")"
	if msg.Action != "" {
		out += ". " + msg.Action
	}
	return out
}

// leafMessage strips classification wrappers so user-authored messages
// (validation verdicts) come through without the op prefixes.
func leafMessage(err error) string {
	for {
		e, ok := err.(*Error)
		if !ok || e.Err == nil {
			return err.Error()
		}
		err = e.Err
	}
}
