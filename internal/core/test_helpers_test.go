package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// fakeConn records everything sent to it and can be flipped into a
// failing state to simulate a dead peer.
type fakeConn struct {
	msgs   []string
	fail   bool
	closed bool
}

func (f *fakeConn) Send(msg string) error {
	if f.fail {
		return errors.New("peer gone")
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func (f *fakeConn) reset() {
	f.msgs = nil
}

func (f *fakeConn) lastMsg(t *testing.T) string {
	t.Helper()
	if len(f.msgs) == 0 {
		t.Fatalf("expected at least one message")
	}
	return f.msgs[len(f.msgs)-1]
}

func (f *fakeConn) countPrefix(prefix string) int {
	n := 0
	for _, m := range f.msgs {
		if strings.HasPrefix(m, prefix) {
			n++
		}
	}
	return n
}

// rosterRenderer joins nicks with commas; enough to assert order and
// membership without dragging templates into core tests.
type rosterRenderer struct{}

func (rosterRenderer) Nicklist(nicks []string) string {
	return strings.Join(nicks, ",")
}

func newTestSession() *Session {
	nop := zerolog.Nop()
	return NewSession("/static/presentations/pres1/index.html", rosterRenderer{}, nil, &nop)
}
