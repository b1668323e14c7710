package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/opticode/internal/client"
	"github.com/bryanwahyu/opticode/internal/domain/analysis"
)

func newUploadCommand() *cobra.Command {
	var (
		server, apiKey string
		timeout        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a source file and print the text the server read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := analysis.ValidateUploadName(filepath.Base(path)); err != nil {
				return usageError(err)
			}
			f, err := os.Open(path)
			if err != nil {
				return usageError(err)
			}
			defer f.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			code, err := client.New(server, apiKey, timeout).Upload(ctx, filepath.Base(path), f)
			if err != nil {
				return runtimeError(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), code)
			return nil
		},
	}
	addServerFlags(cmd, &server, &apiKey, &timeout)
	return cmd
}
