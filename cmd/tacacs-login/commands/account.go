package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacplus/tacplus-go/wire"
)

// accountCmd runs one full accounting task lifecycle (start, an
// optional update, then stop) as a single invocation, since each
// subcommand process only lives for the duration of one exchange.
func accountCmd() *cobra.Command {
	var rawArgs []string
	var withUpdate bool

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Run an accounting start/update/stop task lifecycle",
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

			task, startResp, err := sess.StartTask(context.Background(), sessCtx, wire.AuthenticationMethodTacacsPlus, args)
			if err != nil {
				return fmt.Errorf("accounting start: %w", err)
			}
			printAccountingResponse(startResp)

			if withUpdate {
				updateResp, err := task.Update(context.Background(), nil)
				if err != nil {
					return fmt.Errorf("accounting update: %w", err)
				}
				printAccountingResponse(updateResp)
			}

			stopResp, err := task.Stop(context.Background(), nil)
			if err != nil {
				return fmt.Errorf("accounting stop: %w", err)
			}
			printAccountingResponse(stopResp)

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, `an argument as "name=value" (required) or "name*value" (optional); may be repeated`)
	cmd.Flags().BoolVar(&withUpdate, "with-update", false, "send a watchdog update between start and stop")
	return cmd
}
