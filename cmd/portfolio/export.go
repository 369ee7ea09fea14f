package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	portfolio "github.com/goliatone/go-portfolio"
)

type exportOptions struct {
	out    string
	noBody bool
}

func newExportCommand(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the project listing as static JSON files",
		Long: `Write projects.json, featured.json, tags.json and one projects/<slug>.json
per project. Documents written by an earlier export whose project no longer
exists are removed; other files in the output directory are left untouched.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := root.module()
			if err != nil {
				return err
			}
			return runExport(cmd, module, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory, overrides export.output_dir")
	cmd.Flags().BoolVar(&opts.noBody, "no-body", false, "omit rendered HTML from projects.json and featured.json")
	return cmd
}

func runExport(cmd *cobra.Command, module *portfolio.Module, opts *exportOptions) error {
	cfg := module.Config()
	result, err := module.Export(cmd.Context(), portfolio.ExportCommand{
		OutputDir:   strings.TrimSpace(opts.out),
		IncludeBody: cfg.HTTP.IncludeBody && !opts.noBody,
		Indent:      cfg.Export.Indent,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("exported "+result.OutputDir))
	fmt.Fprintf(out, "  projects: %d  featured: %d  tags: %d\n", result.Projects, result.Featured, result.Tags)
	if len(result.Removed) > 0 {
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("  removed %d stale file(s)", len(result.Removed))))
	}
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("  %d file(s) in %s", len(result.Files), result.Duration.Round(time.Millisecond))))
	return nil
}
