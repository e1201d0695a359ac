// Command tacacs-login is a one-shot TACACS+ client: each invocation
// opens a session, runs exactly one exchange (pap, chap, ascii,
// authorize, or account), prints the outcome, and exits.
package main

import (
	"github.com/tacplus/tacplus-go/cmd/tacacs-login/commands"
)

func main() {
	commands.Execute()
}
