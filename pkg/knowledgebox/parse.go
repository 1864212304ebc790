package knowledgebox

import (
	"flag"
	"fmt"
)

// Parse parses command line arguments and returns the command to execute,
// the application configuration, and any error that occurred. Flags
// override values loaded from the optional -config file, which in turn
// override environment variables and built-in defaults.
func Parse(args []string) (Command, *Config, error) {
	flagSet := flag.NewFlagSet("knowledgebox", flag.ContinueOnError)

	var (
		configPath = flagSet.String("config", "", "Path to YAML config file")
		port       = flagSet.String("port", "", "Server port")
		anonymous  = flagSet.Bool("anonymous", false, "Disable authentication; all records are owned by \"anonymous\"")
		readOnly   = flagSet.Bool("read-only", false, "Start in read-only maintenance mode")
		jwtSecret  = flagSet.String("jwt-secret", "", "HMAC secret for JWT signing and verification")
		jwtIssuer  = flagSet.String("jwt-issuer", "", "Expected JWT issuer (validation skipped when empty)")
		expiry     = flagSet.Int("expiry-minutes", 0, "Lifetime of issued test tokens in minutes")
		logPath    = flagSet.String("log-file", "", "Append logs to this file instead of stdout")
		tokenUser  = flagSet.String("token-user", "test-user-123", "User ID claim for the token command")
		tokenEmail = flagSet.String("token-email", "test@example.com", "Email claim for the token command")
	)

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}

	remainingArgs := flagSet.Args()
	if len(remainingArgs) == 0 {
		return nil, nil, fmt.Errorf(`subcommand required

Usage: knowledgebox [flags] <command>

Commands:
  run       Start the knowledge box API server
  token     Print a signed test JWT and exit

Examples:
  knowledgebox run                             # Authenticated mode on :8080
  knowledgebox -anonymous run                  # No auth, single "anonymous" owner
  knowledgebox -port=8090 run
  knowledgebox -config=knowledgebox.yaml run
  knowledgebox -read-only run                  # Reject writes during maintenance
  knowledgebox -token-user=alice token         # Mint a JWT for user "alice"`)
	}

	config := &Config{}
	if *configPath != "" {
		loaded, err := LoadConfigFile(*configPath)
		if err != nil {
			return nil, nil, err
		}
		config = loaded
	}

	// Flags override file values.
	if *port != "" {
		config.ServerPort = *port
	}
	if *anonymous {
		config.Anonymous = true
	}
	if *readOnly {
		config.ReadOnly = true
	}
	if *jwtSecret != "" {
		config.JWTSecret = *jwtSecret
	}
	if *jwtIssuer != "" {
		config.JWTIssuer = *jwtIssuer
	}
	if *expiry > 0 {
		config.ExpiryMinutes = *expiry
	}
	if *logPath != "" {
		config.LogPath = *logPath
	}
	config.ApplyDefaults()

	var cmd Command
	switch remainingArgs[0] {
	case "run":
		cmd = &RunCommand{}
	case "token":
		cmd = &TokenCommand{
			UserID: *tokenUser,
			Email:  *tokenEmail,
		}
	default:
		return nil, nil, fmt.Errorf("unknown command: %s\n\nValid commands: run, token", remainingArgs[0])
	}

	return cmd, config, nil
}
