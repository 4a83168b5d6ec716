// Package credentials resolves the console secret, prompting for it when it
// was not supplied.
package credentials

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

const prompt = "Enter your key/password: "

var ErrNoSecret = errors.New("no secret provided")

// ResolveSecret returns secret if it is set. Otherwise it reads one from in
// without echo, which requires in to be a terminal.
func ResolveSecret(secret string, in *os.File, out io.Writer) (string, error) {
	if secret != "" {
		return secret, nil
	}

	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.WithHint(ErrNoSecret, "pass --key, set PCC_SECRET, or run from an interactive terminal")
	}

	fmt.Fprint(out, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", errors.Wrap(err, "read secret")
	}

	s := strings.TrimRight(string(b), "\r\n")
	if s == "" {
		return "", errors.WithHint(ErrNoSecret, "the secret cannot be empty")
	}
	return s, nil
}
