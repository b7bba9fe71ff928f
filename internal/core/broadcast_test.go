package core

import "testing"

func TestSendAllDeliversToSnapshotOnly(t *testing.T) {
	a := &fakeConn{}
	b := &fakeConn{}
	snapshot := []*Client{
		{Nick: "a", Role: RoleInstructor, Conn: a},
		{Nick: "b", Role: RoleParticipant, Conn: b},
	}

	// A client that shows up after the snapshot was taken.
	late := &fakeConn{}

	if dead := sendAll(snapshot, "hello"); dead != nil {
		t.Fatalf("unexpected dead clients: %v", dead)
	}
	if len(a.msgs) != 1 || len(b.msgs) != 1 {
		t.Fatalf("snapshot delivery: a=%v b=%v", a.msgs, b.msgs)
	}
	if len(late.msgs) != 0 {
		t.Fatalf("late client received from an older snapshot: %v", late.msgs)
	}
}

func TestSendAllPreservesOrder(t *testing.T) {
	var order []string
	mk := func(nick string) *Client {
		return &Client{Nick: nick, Conn: recordOrderConn{nick: nick, order: &order}}
	}
	snapshot := []*Client{mk("first"), mk("second"), mk("third")}

	sendAll(snapshot, "x")
	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Fatalf("delivery order = %v", order)
	}
}

func TestSendToParticipantsSkipsInstructor(t *testing.T) {
	inst := &fakeConn{}
	part := &fakeConn{}
	snapshot := []*Client{
		{Nick: "a", Role: RoleInstructor, Conn: inst},
		{Nick: "b", Role: RoleParticipant, Conn: part},
	}

	sendToParticipants(snapshot, "hello")
	if len(inst.msgs) != 0 {
		t.Fatalf("instructor received participant broadcast: %v", inst.msgs)
	}
	if len(part.msgs) != 1 {
		t.Fatalf("participant delivery: %v", part.msgs)
	}
}

func TestSendAllCollectsDeadPeers(t *testing.T) {
	ok := &fakeConn{}
	gone := &fakeConn{fail: true}
	snapshot := []*Client{
		{Nick: "ok", Conn: ok},
		{Nick: "gone", Conn: gone},
	}

	dead := sendAll(snapshot, "hello")
	if len(dead) != 1 || dead[0].Nick != "gone" {
		t.Fatalf("dead = %v", dead)
	}
	if len(ok.msgs) != 1 {
		t.Fatal("healthy peer missed the broadcast")
	}
}

type recordOrderConn struct {
	nick  string
	order *[]string
}

func (r recordOrderConn) Send(string) error {
	*r.order = append(*r.order, r.nick)
	return nil
}

func (r recordOrderConn) Close() error { return nil }
