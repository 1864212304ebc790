package knowledgebox

import (
	"context"
	"fmt"
)

// Main is the entry point for the knowledgebox application. It parses the
// command line arguments, builds the application, and executes the chosen
// command. Tests can call it directly without building the binary; the
// context enables graceful shutdown.
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *RunCommand:
		if err := app.Run(ctx, c); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case *TokenCommand:
		token, expiresAt, err := app.IssueToken(c.UserID, c.Email)
		if err != nil {
			return fmt.Errorf("token generation failed: %w", err)
		}
		fmt.Printf("%s\n", token)
		fmt.Printf("# user=%s expires=%s\n", c.UserID, expiresAt.Format("2006-01-02T15:04:05Z07:00"))
	default:
		return fmt.Errorf("unknown command: %s", cmd.Name())
	}

	return nil
}
