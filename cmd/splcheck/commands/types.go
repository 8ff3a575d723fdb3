package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	gfn "github.com/panyam/goutils/fn"
	"github.com/panyam/splcheck/decl"
	"github.com/spf13/cobra"
)

func newTypesCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Lists known types, widenings and predefined functions",
		Long: `The types command prints the type registry the checker runs with,
including any types and widenings added by the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := opts.Config.TypeSystem()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			heading := color.New(color.Bold).SprintFunc()

			fmt.Fprintln(out, heading("Types:"))
			fmt.Fprintf(out, "  %s\n", strings.Join(gfn.Map(ts.Types(), func(t *decl.Type) string { return t.Name }), ", "))

			fmt.Fprintln(out, heading("Widenings:"))
			for _, w := range ts.Widenings() {
				fmt.Fprintf(out, "  %s\n", w)
			}

			fmt.Fprintln(out, heading("Functions:"))
			for _, f := range ts.Functions() {
				fmt.Fprintf(out, "  %s\n", f)
			}
			return nil
		},
	}
}
