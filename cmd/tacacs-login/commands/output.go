package commands

import (
	"fmt"

	tacplus "github.com/tacplus/tacplus-go"
	"github.com/tacplus/tacplus-go/wire"
)

func printAuthResponse(resp tacplus.AuthResponse) {
	status := "FAIL"
	if resp.Status == tacplus.AuthStatusPass {
		status = "PASS"
	}
	fmt.Printf("status: %s\n", status)
	if resp.ServerMessage != "" {
		fmt.Printf("server_message: %s\n", resp.ServerMessage)
	}
}

func printAuthzResponse(resp tacplus.AuthzResponse) {
	status := "FAIL"
	if resp.Status == tacplus.AuthzStatusPass {
		status = "PASS"
	}
	fmt.Printf("status: %s\n", status)
	if resp.ServerMessage != "" {
		fmt.Printf("server_message: %s\n", resp.ServerMessage)
	}
	for _, a := range resp.Arguments {
		delim := "*"
		if a.Required() {
			delim = "="
		}
		fmt.Printf("arg: %s%s%s\n", a.Name().String(), delim, a.Value().String())
	}
}

func printAccountingResponse(resp tacplus.AccountingResponse) {
	if resp.ServerMessage != "" {
		fmt.Printf("server_message: %s\n", resp.ServerMessage)
	} else {
		fmt.Println("ok")
	}
}

// parseArguments turns repeated "name=value" / "name*value" flag
// strings into wire.Arguments, per RFC 8907 section 6.1 delimiters.
func parseArguments(raw []string) ([]wire.Argument, error) {
	args := make([]wire.Argument, 0, len(raw))
	for _, r := range raw {
		name, value, required, err := splitArgument(r)
		if err != nil {
			return nil, err
		}
		nameField, err := wire.NewTextField(name)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", r, err)
		}
		valueField, err := wire.NewTextField(value)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", r, err)
		}
		arg, err := wire.NewArgument(nameField, valueField, required)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", r, err)
		}
		args = append(args, arg)
	}
	return args, nil
}

func splitArgument(raw string) (name, value string, required bool, err error) {
	for i, c := range raw {
		switch c {
		case '=':
			return raw[:i], raw[i+1:], true, nil
		case '*':
			return raw[:i], raw[i+1:], false, nil
		}
	}
	return "", "", false, fmt.Errorf("%w: missing '=' or '*' delimiter", errMalformedArgument)
}
