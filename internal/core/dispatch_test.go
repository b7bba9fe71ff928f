package core

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/podium-live/podium-server/internal/proto"
)

func newTestRouter(s *Session) *Router {
	nop := zerolog.Nop()
	return NewRouter(s, &nop)
}

func TestDispatchUnknownCommandIsIgnored(t *testing.T) {
	s := newTestSession()
	r := newTestRouter(s)

	annConn := &fakeConn{}
	ann := s.Register("Ann", annConn)
	annConn.reset()

	r.Dispatch(ann, "warp_to_slide|12")
	r.Dispatch(ann, "")

	if len(annConn.msgs) != 0 {
		t.Fatalf("unknown command produced output: %v", annConn.msgs)
	}
	if got := s.View().Phase; got != PhaseIdle {
		t.Fatalf("unknown command mutated state: %s", got)
	}
}

func TestDispatchBadBoolPayloadIsDropped(t *testing.T) {
	s := newTestSession()
	r := newTestRouter(s)

	ann := s.Register("Ann", &fakeConn{})

	r.Dispatch(ann, proto.CmdLockStudentNav+"|not-json")
	if !s.LockStudentNav() {
		t.Fatal("malformed payload changed the lock flag")
	}
}

func TestDispatchQuietAuthorizationFailure(t *testing.T) {
	s := newTestSession()
	r := newTestRouter(s)

	s.Register("Ann", &fakeConn{})
	bobConn := &fakeConn{}
	bob := s.Register("Bob", bobConn)
	bobConn.reset()

	for _, line := range []string{
		proto.CmdStartPresentation,
		proto.CmdFinishPresentation,
		proto.CmdSlideChanged + "|5",
		proto.CmdLockFollowInstructor + "|false",
		proto.CmdLockStudentNav + "|false",
	} {
		r.Dispatch(bob, line)
	}

	view := s.View()
	if view.Phase != PhaseIdle || !view.FollowInstructor || !view.LockStudentNav {
		t.Fatalf("participant commands mutated state: %+v", view)
	}
	if len(bobConn.msgs) != 0 {
		t.Fatalf("participant received a response to rejected commands: %v", bobConn.msgs)
	}
}

// The end-to-end flow: Ann drives, Bob follows, Bob re-syncs.
func TestDispatchSlideFlow(t *testing.T) {
	s := newTestSession()
	r := newTestRouter(s)

	annConn := &fakeConn{}
	ann := s.Register("Ann", annConn)
	if ann.Role != RoleInstructor {
		t.Fatalf("Ann role = %s", ann.Role)
	}

	bobConn := &fakeConn{}
	bob := s.Register("Bob", bobConn)
	if bob.Role != RoleParticipant {
		t.Fatalf("Bob role = %s", bob.Role)
	}

	// Both saw a roster containing Ann and Bob.
	wantRoster := proto.Encode(proto.CmdNicklist, "Ann,Bob")
	if annConn.lastMsg(t) != wantRoster || bobConn.lastMsg(t) != wantRoster {
		t.Fatalf("rosters: ann=%q bob=%q", annConn.lastMsg(t), bobConn.lastMsg(t))
	}

	annConn.reset()
	bobConn.reset()

	r.Dispatch(ann, "slide_changed|3")

	wantState := proto.Encode(proto.CmdInstructorState, "3")
	if got := bobConn.lastMsg(t); got != wantState {
		t.Fatalf("Bob got %q, want %q", got, wantState)
	}
	if annConn.countPrefix(proto.CmdInstructorState) != 0 {
		t.Fatalf("Ann received her own state: %v", annConn.msgs)
	}

	bobConn.reset()
	r.Dispatch(bob, "sync_to_instructor")

	if got := bobConn.lastMsg(t); got != wantState {
		t.Fatalf("Bob sync got %q, want %q", got, wantState)
	}
	if len(annConn.msgs) != 0 {
		t.Fatalf("Ann received something from Bob's sync: %v", annConn.msgs)
	}
}

func TestDispatchOpaqueStateMayContainDelimiter(t *testing.T) {
	s := newTestSession()
	r := newTestRouter(s)

	ann := s.Register("Ann", &fakeConn{})
	bobConn := &fakeConn{}
	s.Register("Bob", bobConn)
	bobConn.reset()

	r.Dispatch(ann, "slide_changed|2|vertical")

	want := proto.Encode(proto.CmdInstructorState, "2|vertical")
	if got := bobConn.lastMsg(t); got != want {
		t.Fatalf("state with delimiter = %q, want %q", got, want)
	}
}
