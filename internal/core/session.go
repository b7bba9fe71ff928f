package core

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/podium-live/podium-server/internal/proto"
	"github.com/podium-live/podium-server/internal/store"
)

// Phase is the presentation state machine. It starts Idle, moves to
// Running only when the instructor starts the presentation, and back
// to Idle only when the instructor finishes it.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
)

// Renderer produces the markup fragments the room pushes to clients.
type Renderer interface {
	Nicklist(nicks []string) string
}

// Journal records room activity. A nil journal disables recording;
// journal errors are logged and never affect the room.
type Journal interface {
	RecordEvent(ctx context.Context, ev store.Event) error
}

// Session is the single room: client registry, role assignment,
// presentation state and policy flags. Every mutation and every
// broadcast runs under one mutex, so events are processed strictly one
// at a time and each broadcast operates on a snapshot of the registry
// taken at call time.
type Session struct {
	mu sync.Mutex

	clients map[string]*Client
	order   []string // registry insertion order

	phase            Phase
	followInstructor bool
	lockStudentNav   bool
	latestState      string

	source  string
	render  Renderer
	journal Journal
	log     *zerolog.Logger
}

// NewSession constructs the room. source is the presentation content
// URL carried by the load_presentation command.
func NewSession(source string, render Renderer, journal Journal, logger *zerolog.Logger) *Session {
	return &Session{
		clients:          make(map[string]*Client),
		phase:            PhaseIdle,
		followInstructor: true,
		lockStudentNav:   true,
		source:           source,
		render:           render,
		journal:          journal,
		log:              logger,
	}
}

// Register assigns a unique nickname and a role to a new connection,
// inserts it into the registry and broadcasts the updated roster to
// everyone, the new client included. The first client to register into
// an empty room becomes the instructor; if the instructor later leaves,
// nobody is promoted and the room stays without one until it empties.
func (s *Session) Register(requested string, conn Conn) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[string]struct{}, len(s.clients))
	for nick := range s.clients {
		taken[nick] = struct{}{}
	}
	nick := AllocateNick(requested, taken)

	role := RoleParticipant
	if len(s.clients) == 0 {
		role = RoleInstructor
	}

	c := &Client{Nick: nick, Role: role, Conn: conn}
	s.clients[nick] = c
	s.order = append(s.order, nick)

	s.log.Info().Str("nick", nick).Str("role", string(role)).Msg("client registered")
	s.record(store.EventJoined, nick, string(role))
	s.broadcastNicklistLocked()
	return c
}

// Unregister removes a client by nickname: closes its handle, drops it
// from the registry and broadcasts the updated roster to the rest. An
// unknown nickname is logged and ignored.
func (s *Session) Unregister(nick string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[nick]; !ok {
		s.log.Warn().Str("nick", nick).Msg("unregister: unknown nick")
		return
	}
	s.log.Info().Str("nick", nick).Msg("client removed")
	s.removeLocked(nick)
}

// StartPresentation moves the room to Running and broadcasts the
// load_presentation command to every client. Ignored unless the
// requester is the instructor.
func (s *Session) StartPresentation(requester string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isInstructorLocked(requester) {
		return
	}

	s.phase = PhaseRunning
	msg, err := s.loadPresentationLineLocked()
	if err != nil {
		s.log.Error().Err(err).Msg("encode load_presentation")
		return
	}
	s.record(store.EventStarted, requester, "")
	s.sendAllLocked(msg)
}

// SendStartTo catches up a single connection with the current
// load_presentation command. No-op while the room is Idle.
func (s *Session) SendStartTo(conn Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseRunning {
		return
	}
	msg, err := s.loadPresentationLineLocked()
	if err != nil {
		s.log.Error().Err(err).Msg("encode load_presentation")
		return
	}
	if err := sendOne(conn, msg); err != nil {
		s.log.Debug().Err(err).Msg("late-join catch-up write failed")
	}
}

// FinishPresentation moves the room back to Idle, tells every client
// the presentation is over and resets both policy flags to their
// defaults. Ignored unless the requester is the instructor.
func (s *Session) FinishPresentation(requester string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isInstructorLocked(requester) {
		return
	}

	s.phase = PhaseIdle
	s.record(store.EventFinished, requester, "")
	s.sendAllLocked(proto.Encode(proto.CmdFinishPresentation))
	s.followInstructor = true
	s.lockStudentNav = true
}

// SetInstructorState stores the latest presentation state verbatim and,
// while follow-instructor is on, mirrors it to all participants.
// Ignored unless the requester is the instructor.
func (s *Session) SetInstructorState(requester, state string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isInstructorLocked(requester) {
		return
	}

	s.latestState = state
	s.record(store.EventSlide, requester, state)
	if s.followInstructor {
		s.revealStateLocked(state)
	}
}

// SetFollowInstructor toggles the follow-instructor policy. The flag is
// not echoed to clients. Ignored unless the requester is the instructor.
func (s *Session) SetFollowInstructor(requester string, follow bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isInstructorLocked(requester) {
		return
	}
	s.followInstructor = follow
}

// SetLockStudentNav toggles the student navigation lock and broadcasts
// the new value to all participants. Ignored unless the requester is
// the instructor.
func (s *Session) SetLockStudentNav(requester string, lock bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isInstructorLocked(requester) {
		return
	}
	s.lockStudentNav = lock
	s.sendParticipantsLocked(proto.Encode(proto.CmdLockStudentNav, proto.EncodeBool(lock)))
}

// SyncToInstructor is asymmetric: requested by the instructor it
// re-broadcasts the latest state to all participants; requested by a
// participant it answers that participant alone.
func (s *Session) SyncToInstructor(requester string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[requester]
	if !ok {
		s.log.Warn().Str("nick", requester).Msg("sync: unknown nick")
		return
	}

	msg := proto.Encode(proto.CmdInstructorState, s.latestState)
	if c.Role == RoleInstructor {
		s.sendParticipantsLocked(msg)
		return
	}
	if err := sendOne(c.Conn, msg); err != nil {
		s.reapLocked([]*Client{c})
	}
}

// LockStudentNav reports the current navigation lock flag.
func (s *Session) LockStudentNav() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockStudentNav
}

// Snapshot is a point-in-time view of the room for the status API.
type Snapshot struct {
	Phase            Phase    `json:"phase"`
	Nicks            []string `json:"nicks"`
	FollowInstructor bool     `json:"follow_instructor"`
	LockStudentNav   bool     `json:"lock_student_nav"`
}

// View returns the current room snapshot.
func (s *Session) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Phase:            s.phase,
		Nicks:            append([]string(nil), s.order...),
		FollowInstructor: s.followInstructor,
		LockStudentNav:   s.lockStudentNav,
	}
}

func (s *Session) isInstructorLocked(nick string) bool {
	c, ok := s.clients[nick]
	if !ok || c.Role != RoleInstructor {
		// Quiet authorization failure: the sender gets no response.
		s.log.Debug().Str("nick", nick).Msg("instructor-only command ignored")
		return false
	}
	return true
}

func (s *Session) loadPresentationLineLocked() (string, error) {
	return proto.EncodeLoadPresentation(proto.LoadPresentation{
		Source:           s.source,
		FollowInstructor: s.followInstructor,
		LockStudentNav:   s.lockStudentNav,
	})
}

func (s *Session) revealStateLocked(state string) {
	s.sendParticipantsLocked(proto.Encode(proto.CmdInstructorState, state))
}

func (s *Session) broadcastNicklistLocked() {
	nicks := append([]string(nil), s.order...)
	s.sendAllLocked(proto.Encode(proto.CmdNicklist, s.render.Nicklist(nicks)))
}

func (s *Session) snapshotLocked() []*Client {
	out := make([]*Client, 0, len(s.order))
	for _, nick := range s.order {
		out = append(out, s.clients[nick])
	}
	return out
}

func (s *Session) sendAllLocked(msg string) {
	s.reapLocked(sendAll(s.snapshotLocked(), msg))
}

func (s *Session) sendParticipantsLocked(msg string) {
	s.reapLocked(sendToParticipants(s.snapshotLocked(), msg))
}

// reapLocked feeds clients whose transport failed mid-broadcast into
// the same cleanup path as an explicit close.
func (s *Session) reapLocked(dead []*Client) {
	for _, c := range dead {
		if _, ok := s.clients[c.Nick]; !ok {
			continue
		}
		s.log.Warn().Str("nick", c.Nick).Msg("write failed, dropping client")
		s.removeLocked(c.Nick)
	}
}

// removeLocked closes the handle, removes the nick from the registry
// and broadcasts the updated roster, in that order. The roster
// broadcast may itself discover further dead peers; the recursion
// terminates because each removal shrinks the registry.
func (s *Session) removeLocked(nick string) {
	c, ok := s.clients[nick]
	if !ok {
		return
	}
	_ = c.Conn.Close()
	delete(s.clients, nick)
	for i, n := range s.order {
		if n == nick {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.record(store.EventLeft, nick, "")
	s.broadcastNicklistLocked()
}

func (s *Session) record(kind store.EventKind, nick, detail string) {
	if s.journal == nil {
		return
	}
	ev := store.Event{Nick: nick, Kind: kind, Detail: detail}
	if err := s.journal.RecordEvent(context.Background(), ev); err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Msg("journal write failed")
	}
}
