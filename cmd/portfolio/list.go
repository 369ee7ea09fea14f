package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	portfolio "github.com/goliatone/go-portfolio"
)

type listOptions struct {
	tag      string
	featured bool
	json     bool
}

func newListCommand(root *rootOptions) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := root.module()
			if err != nil {
				return err
			}
			return runList(cmd, module, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.tag, "tag", "t", "", "only projects carrying this tag (case-insensitive)")
	cmd.Flags().BoolVarP(&opts.featured, "featured", "f", false, "only featured projects")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the listing as JSON")
	return cmd
}

func runList(cmd *cobra.Command, module *portfolio.Module, opts *listOptions) error {
	ctx := cmd.Context()
	repo := module.Projects()

	var (
		records []*portfolio.ProjectRecord
		err     error
	)
	switch {
	case opts.tag != "":
		records, err = repo.ListByTag(ctx, opts.tag)
		if err == nil && opts.featured {
			records = portfolio.FilterFeatured(records)
		}
	case opts.featured:
		records, err = repo.ListFeatured(ctx)
	default:
		records, err = repo.ListAll(ctx)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		payload := make([]*portfolio.ProjectRecord, 0, len(records))
		for _, record := range records {
			payload = append(payload, record.WithoutBody())
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("no projects found"))
		return nil
	}

	tbl := newTable("DATE", "SLUG", "TITLE", "TAGS", "")
	for _, record := range records {
		mark := ""
		if record.Featured {
			mark = titleStyle.Render("★")
		}
		tbl.addRow(record.Date, record.Slug, record.Title, strings.Join(record.Tags, ", "), mark)
	}
	fmt.Fprint(out, tbl.render())
	return nil
}
