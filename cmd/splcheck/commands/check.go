package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/panyam/splcheck/checker"
	"github.com/panyam/splcheck/loader"
	"github.com/spf13/cobra"
)

type checkFlags struct {
	maxErrors int
	parallel  int
	format    string
	strict    bool
}

func newCheckCmd(opts *Options) *cobra.Command {
	flags := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check <file_or_dir...>",
		Short: "Checks SPL files for illegal expressions",
		Long: `The check command parses each SPL file, builds its symbol table and
reports every SPL_ILLEGAL_EXPRESSION violation.  Directories are expanded
to the .spl files they directly contain.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, flags, args)
		},
	}
	cmd.Flags().IntVar(&flags.maxErrors, "max-errors", -1, "Maximum number of diagnostics to report, 0 => no limit (default from config)")
	cmd.Flags().IntVarP(&flags.parallel, "parallel", "p", -1, "Number of files checked concurrently (default from config)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Also check for loop bounds and assignments")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *Options, flags *checkFlags, args []string) error {
	if flags.format != "text" && flags.format != "json" {
		return fmt.Errorf("unknown format %q, expected text or json", flags.format)
	}
	cfg := opts.Config
	if flags.maxErrors >= 0 {
		cfg.MaxErrors = flags.maxErrors
	}
	if flags.parallel >= 0 {
		cfg.Parallelism = flags.parallel
	}

	types, err := cfg.TypeSystem()
	if err != nil {
		return err
	}
	fs := loader.NewLocalFS("")
	paths, err := expandPaths(fs, args)
	if err != nil {
		return err
	}

	l := loader.NewLoader(fs, types)
	l.Parallelism = cfg.Parallelism
	l.MaxErrors = cfg.MaxErrors
	l.Logger = opts.Logger
	if flags.strict || cfg.Strict {
		l.ForRule = checker.StrictForRule
		l.AssignmentRule = checker.StrictAssignmentRule(types)
	}

	sink := &checker.Collector{Limit: cfg.MaxErrors}
	results, err := l.CheckFiles(cmd.Context(), paths, sink)
	if err != nil {
		return err
	}

	loadErrors := &loader.ErrorCollector{}
	for _, r := range results {
		if r.Err != nil {
			loadErrors.AddErrors(r.Err)
		}
	}

	out := cmd.OutOrStdout()
	diagnostics := sink.Sorted()
	if flags.format == "json" {
		if err := writeJSON(out, diagnostics, loadErrors.Errors); err != nil {
			return err
		}
	} else {
		writeText(out, diagnostics, sink.Dropped())
		if loadErrors.HasErrors() {
			fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("Failed to load:"))
			loadErrors.PrintErrors(cmd.ErrOrStderr())
		}
		if len(diagnostics) == 0 && !loadErrors.HasErrors() {
			fmt.Fprintf(out, "%s %d file(s) checked, no problems found\n", color.GreenString("OK"), len(paths))
		}
	}

	if problems := len(diagnostics) + sink.Dropped() + len(loadErrors.Errors); problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	return nil
}

// expandPaths replaces directories with the .spl files inside them.
func expandPaths(fs loader.FileSystem, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := fs.ListFiles(arg)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if strings.EqualFold(filepath.Ext(f), ".spl") {
				paths = append(paths, f)
			}
		}
	}
	return paths, nil
}

func writeText(out io.Writer, diagnostics []checker.Diagnostic, dropped int) {
	location := color.New(color.Bold).SprintFunc()
	code := color.New(color.FgRed, color.Bold).SprintFunc()
	for _, d := range diagnostics {
		fmt.Fprintf(out, "%s: %s %s\n", location(fmt.Sprintf("%s:%s", d.File, d.Pos.LineColStr())), code(d.Code), d.Message)
	}
	if dropped > 0 {
		fmt.Fprintf(out, "%s\n", color.YellowString("... %d more diagnostics not shown", dropped))
	}
}

type jsonReport struct {
	Diagnostics []checker.Diagnostic `json:"diagnostics"`
	Errors      []string             `json:"errors"`
}

func writeJSON(out io.Writer, diagnostics []checker.Diagnostic, errs []error) error {
	report := jsonReport{Diagnostics: diagnostics, Errors: []string{}}
	if report.Diagnostics == nil {
		report.Diagnostics = []checker.Diagnostic{}
	}
	for _, err := range errs {
		report.Errors = append(report.Errors, err.Error())
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
