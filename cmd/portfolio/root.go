package main

import (
	"strings"

	"github.com/spf13/cobra"

	portfolio "github.com/goliatone/go-portfolio"
)

type rootOptions struct {
	configPath string
	contentDir string
	cfg        portfolio.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Serve and export Markdown-backed project listings",
		Long: `portfolio reads project descriptions written as Markdown files with YAML
front matter and exposes them as a JSON API, a static export or terminal output.

Configuration is read from portfolio.yaml (or --config) and PORTFOLIO_*
environment variables, for example PORTFOLIO_CONTENT_DIR.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := portfolio.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if dir := strings.TrimSpace(opts.contentDir); dir != "" {
				cfg.Content.Dir = dir
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default is ./portfolio.yaml when present)")
	cmd.PersistentFlags().StringVar(&opts.contentDir, "content", "", "content directory, overrides content.dir")

	cmd.AddCommand(
		newServeCommand(opts),
		newListCommand(opts),
		newShowCommand(opts),
		newExportCommand(opts),
	)
	return cmd
}

// module builds the runtime from the loaded configuration.
func (o *rootOptions) module(mutate ...func(*portfolio.Config)) (*portfolio.Module, error) {
	cfg := o.cfg
	for _, fn := range mutate {
		fn(&cfg)
	}
	return portfolio.New(cfg)
}
