package core

// Conn is the minimal transport capability the core needs for one
// connected peer. The transport layer owns the real connection; the
// room only borrows it.
type Conn interface {
	// Send queues one outbound protocol line. It must not block; a
	// non-nil error means the peer is gone.
	Send(msg string) error
	// Close releases the transport. Safe to call more than once.
	Close() error
}

// Client is one registered connection as seen by the room. Nick and
// Role are fixed for the lifetime of the connection.
type Client struct {
	Nick string
	Role Role
	Conn Conn
}
