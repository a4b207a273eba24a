package auth

// Destination is the screen the navigation layer must show for a state,
// regardless of what the user asked for.
type Destination string

const (
	DestLogin           Destination = "login"
	DestCompleteProfile Destination = "complete_profile"
	DestShell           Destination = "shell"
)

// Route maps auth state to a forced destination. While authenticating the
// login screen stays up (it renders its own progress state).
func Route(s State) Destination {
	switch s {
	case StateProfileComplete:
		return DestShell
	case StateProfileIncomplete:
		return DestCompleteProfile
	default:
		return DestLogin
	}
}
