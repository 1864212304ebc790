package knowledgebox

// Command represents a discrete application operation with its specific
// configuration. Commands are produced by Parse and executed through the
// matching method on [App].
type Command interface {
	// Name returns the command identifier used for routing to the
	// appropriate handler.
	Name() string
}

// RunCommand starts the HTTP server. All configuration comes from the
// application [Config]; run-specific options can be added here as needed.
type RunCommand struct{}

func (c *RunCommand) Name() string {
	return "run"
}

// TokenCommand mints a signed JWT for the given identity and prints it to
// stdout. Intended for development and for driving the API from scripts
// without going through the token endpoints.
type TokenCommand struct {
	// UserID becomes the token's sub and user_id claims.
	UserID string
	// Email becomes the token's email claim.
	Email string
}

func (c *TokenCommand) Name() string {
	return "token"
}
