package markdown

import (
	"bytes"
	"errors"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// yamlFormats limits detection to YAML blocks decoded with yaml.v3, which
// yields map[string]any for nested mappings.
var yamlFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("---yaml", "---", yaml.Unmarshal),
}

// ParseFrontMatter splits source into its front matter mapping and the
// Markdown body that follows it. The body is returned unmodified. A source
// without a front matter block is an error.
func ParseFrontMatter(source []byte) (map[string]any, []byte, error) {
	meta := map[string]any{}

	body, err := frontmatter.MustParse(bytes.NewReader(source), &meta, yamlFormats...)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return nil, nil, errNoFrontMatter
		}
		return nil, nil, err
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, body, nil
}
