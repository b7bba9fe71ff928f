// Package proto defines the delimiter-joined wire protocol spoken over
// each websocket connection. Every message is a single text line of the
// form "command" or "command|payload"; the payload is either an opaque
// string or a JSON-encoded value depending on the command.
package proto

import (
	"encoding/json"
	"strings"
)

// Delim separates the command name from its payload. It is excluded
// from sanitized nicknames and never appears unescaped inside JSON
// payloads.
const Delim = "|"

// Commands accepted from clients.
const (
	CmdStartPresentation    = "start_presentation"
	CmdSlideChanged         = "slide_changed"
	CmdLockFollowInstructor = "lock_follow_instructor"
	CmdLockStudentNav       = "lock_student_nav"
	CmdSyncToInstructor     = "sync_to_instructor"
	CmdFinishPresentation   = "finish_presentation"
)

// Commands pushed to clients. lock_student_nav and finish_presentation
// are shared with the inbound set.
const (
	CmdPanelContent     = "panel_content"
	CmdNicklist         = "nicklist"
	CmdLoadPresentation = "load_presentation"
	CmdInstructorState  = "instructor_state"
)

// Encode joins a command with an optional payload.
func Encode(cmd string, payload ...string) string {
	if len(payload) == 0 {
		return cmd
	}
	return cmd + Delim + strings.Join(payload, Delim)
}

// Decode splits an inbound line into command name and payload. The
// split happens once, so an opaque payload may itself contain the
// delimiter.
func Decode(line string) (cmd, payload string) {
	parts := strings.SplitN(line, Delim, 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// LoadPresentation is the payload of the load_presentation command.
type LoadPresentation struct {
	Source           string `json:"source"`
	FollowInstructor bool   `json:"follow_instructor"`
	LockStudentNav   bool   `json:"lock_student_nav"`
}

// EncodeLoadPresentation builds a complete load_presentation line.
func EncodeLoadPresentation(p LoadPresentation) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return Encode(CmdLoadPresentation, string(data)), nil
}

// EncodeBool renders a JSON boolean payload.
func EncodeBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// DecodeBool parses a JSON boolean payload.
func DecodeBool(payload string) (bool, error) {
	var v bool
	err := json.Unmarshal([]byte(payload), &v)
	return v, err
}
