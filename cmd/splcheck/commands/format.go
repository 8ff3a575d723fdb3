package commands

import (
	"fmt"

	"github.com/panyam/splcheck/decl"
	"github.com/panyam/splcheck/loader"
	"github.com/spf13/cobra"
)

func newFormatCmd(opts *Options) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "format <file...>",
		Short: "Pretty prints SPL files",
		Long: `The format command parses each file and prints it back in canonical
layout.  With --write the files are rewritten in place.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := loader.NewLocalFS("")
			l := loader.NewLoader(fs, decl.NewTypeSystem())
			l.Logger = opts.Logger
			for _, path := range args {
				file, err := l.ParseFile(path)
				if err != nil {
					return err
				}
				formatted := decl.Format(file)
				if write {
					if err := fs.WriteFile(path, []byte(formatted)); err != nil {
						return fmt.Errorf("writing %s: %w", path, err)
					}
					opts.Logger.Info("formatted", "file", path)
					continue
				}
				fmt.Fprint(cmd.OutOrStdout(), formatted)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write result back to the source file")
	return cmd
}
