package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command. It stores a session token issued by
// the server; whoami checks it.
type LoginCmd struct {
	token string
	in    io.Reader
}

// SetToken sets the token flag (for testing).
func (c *LoginCmd) SetToken(token string) {
	c.token = token
}

// SetInput sets the token source used when --token is not given. Defaults to os.Stdin.
func (c *LoginCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Store a session token" }
func (c *LoginCmd) Usage() string     { return "taskdeck login [--token <token>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.token, "token", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	token := strings.TrimSpace(c.token)
	if token == "" {
		in := c.in
		if in == nil {
			in = os.Stdin
			fmt.Fprint(errOut, "Session token: ")
		}
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			fmt.Fprintf(errOut, "error: failed to read token: %v\n", err)
			return exitcode.AuthError
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		fmt.Fprintln(errOut, "error: token required")
		return exitcode.AuthError
	}

	if err := cfg.SaveToken(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
