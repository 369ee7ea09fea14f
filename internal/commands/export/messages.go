package exportcmd

import (
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const exportProjectsMessageType = "portfolio.export.projects"

// ResultCallback receives the outcome of an export. It is invoked
// synchronously from the handler.
type ResultCallback func(Result)

// Result summarises the files written by an export.
type Result struct {
	OutputDir string
	Projects  int
	Featured  int
	Tags      int
	Files     []string
	Removed   []string
	Duration  time.Duration
}

// ExportProjectsCommand writes the project listing, featured subset, tag
// counts and one document per project as JSON files under OutputDir.
type ExportProjectsCommand struct {
	OutputDir      string         `json:"output_dir"`
	IncludeBody    bool           `json:"include_body"`
	Indent         bool           `json:"indent"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (ExportProjectsCommand) Type() string { return exportProjectsMessageType }

// Validate ensures an output directory is supplied and is not the
// filesystem root.
func (m ExportProjectsCommand) Validate() error {
	errs := validation.Errors{}
	dir := strings.TrimSpace(m.OutputDir)
	switch {
	case dir == "":
		errs["output_dir"] = validation.NewError("portfolio.export.output_dir_required", "cannot be blank")
	case isFilesystemRoot(dir):
		errs["output_dir"] = validation.NewError("portfolio.export.output_dir_root", "must not be the filesystem root")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isFilesystemRoot(dir string) bool {
	clean := filepath.Clean(dir)
	return clean == filepath.VolumeName(clean)+string(filepath.Separator)
}
