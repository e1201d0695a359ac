package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func papCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "pap",
		Short: "Run a PAP authentication exchange",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if password == "" {
				return errPasswordRequired
			}

			sessCtx, err := sessionContext()
			if err != nil {
				return err
			}

			sess, closer, err := newSession(context.Background())
			if err != nil {
				return err
			}
			defer closer()

			resp, err := sess.AuthenticatePAP(context.Background(), sessCtx, password)
			if err != nil {
				return fmt.Errorf("pap authenticate: %w", err)
			}

			printAuthResponse(resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "cleartext password (required)")
	return cmd
}
