package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	tacplus "github.com/tacplus/tacplus-go"
)

func asciiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ascii",
		Short: "Run a multi-turn ASCII login, prompting on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			sessCtx, err := sessionContext()
			if err != nil {
				return err
			}

			sess, closer, err := newSession(context.Background())
			if err != nil {
				return err
			}
			defer closer()

			resp, err := sess.AuthenticateASCII(context.Background(), sessCtx, stdinPrompter)
			if err != nil {
				return fmt.Errorf("ascii authenticate: %w", err)
			}

			printAuthResponse(resp)
			return nil
		},
	}

	return cmd
}

// stdinPrompter satisfies tacplus.ASCIIPrompter by printing the
// server's message and reading one line from stdin, turning off echo
// on the terminal when the server asked for it.
func stdinPrompter(serverMessage string, noEcho bool) ([]byte, error) {
	fmt.Fprint(os.Stdout, serverMessage)

	if noEcho && term.IsTerminal(int(os.Stdin.Fd())) {
		line, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stdout)
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		return line, nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && len(line) == 0 {
		return nil, fmt.Errorf("read line: %w", err)
	}
	return []byte(trimNewline(line)), nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

var _ tacplus.ASCIIPrompter = stdinPrompter
