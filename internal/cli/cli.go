// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - command parsing and usage text for propmatch.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdRegister
	CmdLogout
	CmdStatus
	CmdRefresh
	CmdHistory
	CmdAccount
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name used in JSON output and logs.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLogin:
		return "login"
	case CmdRegister:
		return "register"
	case CmdLogout:
		return "logout"
	case CmdStatus:
		return "status"
	case CmdRefresh:
		return "refresh"
	case CmdHistory:
		return "history"
	case CmdAccount:
		return "account"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	NoColor bool

	// Subcommand is the first positional argument after the command.
	Subcommand string

	// Raw holds the command's own arguments, subcommand included.
	Raw []string

	// Unknown is set when the command word was not recognised.
	Unknown string
}

// Parser returns an ArgParser over the command's own arguments.
func (a Args) Parser() *ArgParser {
	return NewArgParser(a.Raw, boolFlags...)
}

// boolFlags never consume the following argument.
var boolFlags = []string{"password-stdin", "json", "confirm", "yes", "y", "force", "help", "h"}

const usageText = `propmatch - property search account client

Usage:
  propmatch                          Start the terminal UI (default)
  propmatch login                    Sign in with email and password
    --email EMAIL                    Email address (prompted if omitted)
    --password-stdin                 Read the password from stdin
  propmatch login google             Sign in with a Google identity
    --google-id ID --email EMAIL     Identity returned by Google sign-in
    --first-name NAME --last-name NAME
  propmatch register                 Create an account
  propmatch logout                   Sign out and clear stored credentials
  propmatch status, whoami           Show the signed-in user and session
  propmatch refresh                  Re-fetch the profile from the server

History Commands:
  propmatch history list             Recent searches, newest first
    --limit N                        Show at most N entries
  propmatch history latest           The most recent completed search
  propmatch history find <address>   Look up a previous search by address
  propmatch history clear --confirm  Delete the search history
  propmatch history stats            Search session statistics

Account Commands:
  propmatch account usage            Feature usage this billing period
  propmatch account update           Change profile fields
    --first-name, --last-name, --phone, --email
  propmatch account password         Change your password
  propmatch account cancel --confirm Cancel the paid plan

Config Commands:
  propmatch config show              Print the effective configuration
  propmatch config path              Print the config file location
  propmatch config init              Write a default config file
  propmatch config get <key>         Print one value
  propmatch config set <key> <value> Change one value
  propmatch config keys              List every key

Global Flags:
  --json                             Machine-readable output
  -q, --quiet                        Less output
  -v, --verbose                      Log debug output to stderr
  --no-color                         Disable colors

Environment:
  NEXT_PUBLIC_API_URL                Backend for the development environment
  NEXT_PUBLIC_PRODUCTION_API_URL     Backend for production
  NEXT_PUBLIC_DEBUG_MODE             Log every request line
  PROPMATCH_HOME                     Replaces ~/.propmatch
  PROPMATCH_SESSION_TIMEOUT          Inactivity limit, e.g. 30m

Version: %s
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version and build details.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "propmatch version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs splits global flags from the command and its arguments.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	parsed.Raw = remaining[1:]
	for _, arg := range parsed.Raw {
		if !strings.HasPrefix(arg, "-") {
			parsed.Subcommand = strings.ToLower(arg)
			break
		}
	}

	switch cmd {
	case "tui":
		return CmdTUI, parsed
	case "login", "signin":
		return CmdLogin, parsed
	case "register", "signup":
		return CmdRegister, parsed
	case "logout", "signout":
		return CmdLogout, parsed
	case "status", "whoami", "s":
		return CmdStatus, parsed
	case "refresh":
		return CmdRefresh, parsed
	case "history", "searches":
		return CmdHistory, parsed
	case "account", "profile":
		return CmdAccount, parsed
	case "config":
		return CmdConfig, parsed
	case "version", "--version":
		return CmdVersion, parsed
	case "help", "-h", "--help":
		return CmdHelp, parsed
	default:
		parsed.Unknown = cmd
		return CmdHelp, parsed
	}
}

func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var parsed Args
	for _, arg := range argv {
		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--no-color":
			parsed.NoColor = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, parsed
}
