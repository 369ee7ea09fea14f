// Package markdown turns project content files into structured data: it
// discovers Markdown files on an fs.FS, splits and validates their YAML
// front matter, and renders the Markdown body to HTML with goldmark.
package markdown
