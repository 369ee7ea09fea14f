package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	portfolio "github.com/goliatone/go-portfolio"
)

const showWordWrap = 80

type showOptions struct {
	html bool
}

func newShowCommand(root *rootOptions) *cobra.Command {
	opts := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Print a single project",
		Long: `show prints the project stored under <slug>. Markdown is rendered for the
terminal unless --html is given, in which case the rendered HTML body is printed.
A missing or unreadable project exits with status 1 and the reason.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := root.module()
			if err != nil {
				return err
			}
			return runShow(cmd, module, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.html, "html", false, "print the rendered HTML body")
	return cmd
}

func runShow(cmd *cobra.Command, module *portfolio.Module, slug string, opts *showOptions) error {
	record, err := module.Projects().Lookup(cmd.Context(), slug)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.html {
		fmt.Fprint(out, record.BodyHTML)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(showWordWrap),
	)
	if err != nil {
		return fmt.Errorf("show: terminal renderer: %w", err)
	}
	rendered, err := renderer.Render(projectMarkdown(record))
	if err != nil {
		return fmt.Errorf("show: render %s: %w", record.Slug, err)
	}
	fmt.Fprint(out, rendered)
	return nil
}

// projectMarkdown assembles a terminal view of the record: heading,
// metadata lines and the original body.
func projectMarkdown(record *portfolio.ProjectRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", record.Title)
	if record.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", record.Description)
	}
	meta := []string{}
	if record.Date != "" {
		meta = append(meta, "**Date:** "+record.Date)
	}
	if len(record.Tags) > 0 {
		meta = append(meta, "**Tags:** "+strings.Join(record.Tags, ", "))
	}
	if record.GitHub != "" {
		meta = append(meta, "**GitHub:** "+record.GitHub)
	}
	if record.Live != "" {
		meta = append(meta, "**Live:** "+record.Live)
	}
	if record.Featured {
		meta = append(meta, "**Featured**")
	}
	for _, line := range meta {
		fmt.Fprintf(&sb, "- %s\n", line)
	}
	if len(meta) > 0 {
		sb.WriteString("\n---\n\n")
	}
	sb.WriteString(record.Body)
	return sb.String()
}
