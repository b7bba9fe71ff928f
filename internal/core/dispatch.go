package core

import (
	"github.com/rs/zerolog"

	"github.com/podium-live/podium-server/internal/proto"
)

// handlerFunc processes one inbound command on behalf of the sending
// client. Role checks live in the session operations themselves.
type handlerFunc func(r *Router, c *Client, payload string)

// handlers is the closed command table, built once. Absence of a match
// falls through to an ignore-and-log branch in Dispatch.
var handlers = map[string]handlerFunc{
	proto.CmdStartPresentation:    (*Router).startPresentation,
	proto.CmdSlideChanged:         (*Router).slideChanged,
	proto.CmdLockFollowInstructor: (*Router).lockFollowInstructor,
	proto.CmdLockStudentNav:       (*Router).lockStudentNav,
	proto.CmdSyncToInstructor:     (*Router).syncToInstructor,
	proto.CmdFinishPresentation:   (*Router).finishPresentation,
}

// Router parses inbound protocol lines and dispatches them to the room.
type Router struct {
	session *Session
	log     *zerolog.Logger
}

// NewRouter binds a router to the room.
func NewRouter(session *Session, logger *zerolog.Logger) *Router {
	return &Router{session: session, log: logger}
}

// Dispatch routes one raw inbound line. An unrecognized command is
// logged and dropped; the connection stays open.
func (r *Router) Dispatch(c *Client, line string) {
	cmd, payload := proto.Decode(line)
	h, ok := handlers[cmd]
	if !ok {
		r.log.Warn().Str("nick", c.Nick).Str("command", cmd).Msg("unknown command")
		return
	}
	h(r, c, payload)
}

func (r *Router) startPresentation(c *Client, _ string) {
	r.session.StartPresentation(c.Nick)
}

func (r *Router) slideChanged(c *Client, payload string) {
	r.session.SetInstructorState(c.Nick, payload)
}

func (r *Router) lockFollowInstructor(c *Client, payload string) {
	follow, err := proto.DecodeBool(payload)
	if err != nil {
		r.log.Warn().Str("nick", c.Nick).Str("payload", payload).Msg("bad lock_follow_instructor payload")
		return
	}
	r.session.SetFollowInstructor(c.Nick, follow)
}

func (r *Router) lockStudentNav(c *Client, payload string) {
	lock, err := proto.DecodeBool(payload)
	if err != nil {
		r.log.Warn().Str("nick", c.Nick).Str("payload", payload).Msg("bad lock_student_nav payload")
		return
	}
	r.session.SetLockStudentNav(c.Nick, lock)
}

func (r *Router) syncToInstructor(c *Client, _ string) {
	r.session.SyncToInstructor(c.Nick)
}

func (r *Router) finishPresentation(c *Client, _ string) {
	r.session.FinishPresentation(c.Nick)
}
