package core

// Fan-out primitives over a registry snapshot. All sends are fire and
// forget: a rejected write marks the client dead and is returned to
// the caller, never propagated as an error.

// sendAll writes msg to every handle in the snapshot, in registry
// insertion order.
func sendAll(snapshot []*Client, msg string) []*Client {
	var dead []*Client
	for _, c := range snapshot {
		if err := c.Conn.Send(msg); err != nil {
			dead = append(dead, c)
		}
	}
	return dead
}

// sendToParticipants is sendAll filtered to participant-role clients.
func sendToParticipants(snapshot []*Client, msg string) []*Client {
	var dead []*Client
	for _, c := range snapshot {
		if c.Role != RoleParticipant {
			continue
		}
		if err := c.Conn.Send(msg); err != nil {
			dead = append(dead, c)
		}
	}
	return dead
}

// sendOne writes msg to a single handle.
func sendOne(conn Conn, msg string) error {
	return conn.Send(msg)
}
