package core

// Role distinguishes the one connection driving the presentation from
// everyone following it.
type Role string

const (
	RoleInstructor  Role = "instructor"
	RoleParticipant Role = "participant"
)
