package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/opticode/internal/client"
	"github.com/bryanwahyu/opticode/internal/domain/analysis"
	"github.com/bryanwahyu/opticode/internal/session"
)

const defaultServer = "http://localhost:8080"

type analyzeOptions struct {
	server  string
	apiKey  string
	code    string
	pdf     string
	title   string
	width   int
	timeout time.Duration
}

func newAnalyzeCommand() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a source file, --code, or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args)
		},
	}
	addServerFlags(cmd, &opts.server, &opts.apiKey, &opts.timeout)
	cmd.Flags().StringVar(&opts.code, "code", "", "Code to analyze instead of a file")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "Also export the report to this PDF path")
	cmd.Flags().StringVar(&opts.title, "title", "", "Report title (default from server config)")
	cmd.Flags().IntVar(&opts.width, "width", 100, "Wrap width for terminal output")
	return cmd
}

func addServerFlags(cmd *cobra.Command, server, apiKey *string, timeout *time.Duration) {
	cmd.Flags().StringVar(server, "server", envOr("OPTICODE_SERVER", defaultServer), "OptiCode server URL")
	cmd.Flags().StringVar(apiKey, "api-key", os.Getenv("OPTICODE_API_KEY"), "API key sent as a bearer token")
	cmd.Flags().DurationVar(timeout, "timeout", 3*time.Minute, "HTTP timeout")
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions, args []string) error {
	code, err := readCode(cmd.InOrStdin(), opts.code, args)
	if err != nil {
		return usageError(err)
	}

	state := session.New()
	state.SetCode(code)

	api := client.New(opts.server, opts.apiKey, opts.timeout)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	err = state.Analyze(ctx, api)
	switch {
	case errors.Is(err, analysis.ErrEmptyInput):
		return usageError(errors.New("please paste or upload some code first"))
	case err != nil:
		errColor.Fprintln(cmd.ErrOrStderr(), state.View().Display())
		return runtimeError(err)
	}

	printResult(out, state.View(), opts.width)

	if opts.pdf == "" {
		return nil
	}
	res, err := state.Exportable()
	if err != nil {
		return runtimeError(err)
	}
	rep, err := api.Report(ctx, res, opts.title)
	if err != nil {
		return runtimeError(fmt.Errorf("export: %w", err))
	}
	if err := os.WriteFile(opts.pdf, rep.Data, 0o644); err != nil {
		return runtimeError(err)
	}
	fmt.Fprintf(out, "\nReport written to %s\n", opts.pdf)
	if rep.URL != "" {
		fmt.Fprintf(out, "Archived at %s\n", rep.URL)
	}
	return nil
}

// readCode picks the input: --code, then the file argument, then stdin.
func readCode(stdin io.Reader, inline string, args []string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if len(args) == 1 && args[0] != "-" {
		return readSourceFile(args[0])
	}
	data, err := io.ReadAll(io.LimitReader(stdin, analysis.MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	if len(data) > analysis.MaxUploadBytes {
		return "", fmt.Errorf("input exceeds %d bytes", analysis.MaxUploadBytes)
	}
	return string(data), nil
}

func readSourceFile(path string) (string, error) {
	if err := analysis.ValidateUploadName(filepath.Base(path)); err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > analysis.MaxUploadBytes {
		return "", fmt.Errorf("%s exceeds %d bytes", path, analysis.MaxUploadBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
