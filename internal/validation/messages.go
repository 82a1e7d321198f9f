package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// MsgMaxAttachments is the fixed message for an over-long attachment list.
const MsgMaxAttachments = "Maximum 3 attachments"

var indexRE = regexp.MustCompile(`\[\d+\]`)

// messages maps "<field>.<tag>" to a user-facing message. Field paths with
// list indexes are looked up without them ("attachments.url.url").
var messages = map[string]string{
	"full_name.required":        "Full name is required",
	"full_name.min":             "Full name must be at least 2 characters",
	"full_name.personname":      "Full name may only contain letters, spaces, hyphens and apostrophes",
	"email.required":            "Email is required",
	"email.email":               "Invalid email address",
	"subject.required":          "Subject is required",
	"message.required":          "Message is required",
	"message.min":               "Message must be at least 10 characters",
	"message.max":               "Message must be at most 2000 characters",
	"attachments.max":           MsgMaxAttachments,
	"attachments.url.required":  "Attachment URL is required",
	"attachments.url.url":       "Invalid attachment URL",
	"attachments.name.required": "Attachment name is required",
	"id.required":               "ID is required",
	"ids.required":              "Select at least one request",
	"ids.min":                   "Select at least one request",
	"ids.max":                   "Too many requests selected",
	"ids.required_item":         "ID is required",
	"status.required":           "Status is required",
	"status.oneof":              "Invalid status",
}

func message(field string, fe validator.FieldError) string {
	key := indexRE.ReplaceAllString(field, "")
	// Element-level failures on a []string (ids[3]) share one message.
	if key != field && key == "ids" && fe.Tag() == "required" {
		key = "ids.required_item"
	} else {
		key = key + "." + fe.Tag()
	}
	if msg, ok := messages[key]; ok {
		return msg
	}
	if fe.Param() != "" {
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	}
	return "failed " + fe.Tag()
}
