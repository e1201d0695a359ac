package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacplus/tacplus-go/wire"
)

func authorizeCmd() *cobra.Command {
	var rawArgs []string

	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Run a single authorization exchange",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			sessCtx, err := sessionContext()
			if err != nil {
				return err
			}
			args, err := parseArguments(rawArgs)
			if err != nil {
				return err
			}

			sess, closer, err := newSession(context.Background())
			if err != nil {
				return err
			}
			defer closer()

			resp, err := sess.Authorize(context.Background(), sessCtx, wire.AuthenticationMethodTacacsPlus, args)
			if err != nil {
				return fmt.Errorf("authorize: %w", err)
			}

			printAuthzResponse(resp)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, `an argument as "name=value" (required) or "name*value" (optional); may be repeated`)
	return cmd
}
