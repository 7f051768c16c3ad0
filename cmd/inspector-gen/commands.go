package main

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"inspector-options/internal/gen"
)

func newGenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gen",
		Short: "Generate options table code",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			units, err := a.compile()
			if err != nil {
				return err
			}

			written := 0

			for _, u := range units {
				files, err := a.generate(u)
				if err != nil {
					return err
				}

				if err := gen.WriteFiles(a.fs, files, u.dir); err != nil {
					return err
				}

				for _, f := range files {
					a.log.Debug("wrote", "file", f.Filename, "dir", u.dir)
				}

				written += len(files)
			}

			a.log.Info("generated options tables", "files", written)

			return nil
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate directives and verify generated code is current",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			units, err := a.compile()
			if err != nil {
				return err
			}

			var stale []string

			for _, u := range units {
				files, err := a.generate(u)
				if err != nil {
					return err
				}

				names, err := gen.Stale(a.fs, files, u.dir)
				if err != nil {
					return err
				}

				for _, n := range names {
					stale = append(stale, u.dir+"/"+n)
				}
			}

			if len(stale) > 0 {
				return fmt.Errorf("generated code is out of date, run inspector-gen gen: %s", strings.Join(stale, ", "))
			}

			a.log.Info("options tables are up to date", "inputs", len(units))

			return nil
		},
	}
}

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Dump the compiled plans",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			units, err := a.compile()
			if err != nil {
				return err
			}

			dump := spew.ConfigState{
				Indent:                  "  ",
				DisablePointerAddresses: true,
				DisableCapacities:       true,
				DisableMethods:          true,
				SortKeys:                true,
			}

			for _, u := range units {
				fmt.Fprintf(a.out, "# %s\n", u.source)
				dump.Fdump(a.out, u.plan)
			}

			return nil
		},
	}
}
