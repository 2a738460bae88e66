package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sqluploader/internal/core"
)

var errCheckFailed = errors.New("connection check failed")

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   "Test the database connection",
		Example: `  sqlupload check --host db.internal -U loader -d analytics`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.conn.ConnectTimeout+time.Second)
			defer cancel()

			check := core.CheckConnection(ctx, a.conn, a.connect)
			out := cmd.OutOrStdout()
			if check.OK {
				_, _ = fmt.Fprintf(out, "%s (%s)\n", check.Message, a.conn)
				return nil
			}

			_, _ = fmt.Fprintf(out, "Connection failed: %s\n", check.Message)
			if check.Hint.Action != "" {
				_, _ = fmt.Fprintf(out, "  %s (Code: %s)\n", check.Hint.Action, check.Hint.Code)
			}
			return errCheckFailed
		},
	}
}
