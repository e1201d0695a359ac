package commands

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func chapCmd() *cobra.Command {
	var (
		secret      string
		challengeHex string
		pppID       uint8
	)

	cmd := &cobra.Command{
		Use:   "chap",
		Short: "Run a CHAP authentication exchange",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if secret == "" {
				return errors.New("--secret flag is required")
			}
			if challengeHex == "" {
				return errChallengeRequired
			}
			challenge, err := hex.DecodeString(challengeHex)
			if err != nil {
				return fmt.Errorf("decode --challenge: %w", err)
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

			resp, err := sess.AuthenticateCHAP(context.Background(), sessCtx, pppID, challenge, secret)
			if err != nil {
				return fmt.Errorf("chap authenticate: %w", err)
			}

			printAuthResponse(resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "CHAP secret/password (required)")
	cmd.Flags().StringVar(&challengeHex, "challenge", "", "hex-encoded CHAP challenge bytes (required)")
	cmd.Flags().Uint8Var(&pppID, "ppp-id", 1, "CHAP PPP identifier byte")

	return cmd
}
