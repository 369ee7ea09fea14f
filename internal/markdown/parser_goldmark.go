package markdown

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// GoldmarkParser implements interfaces.MarkdownParser using goldmark.
// Engines are built once per option set and shared, so one parser can serve
// concurrent requests.
type GoldmarkParser struct {
	defaults interfaces.ParseOptions
	policy   *bluemonday.Policy
	engines  sync.Map // engineKey -> goldmark.Markdown
}

// NewGoldmarkParser constructs a parser with the supplied defaults. With no
// extensions configured it enables GFM, linkify and task lists; raw HTML is
// passed through unless SafeMode or Sanitize is set.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{
		defaults: defaults,
		policy:   bluemonday.UGCPolicy(),
	}
}

// Parse renders Markdown into HTML using the parser's default configuration.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.convert(markdown, p.defaults)
}

// ParseWithOptions renders Markdown into HTML using opts merged over the
// parser defaults.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	return p.convert(markdown, MergeParseOptions(p.defaults, opts))
}

func (p *GoldmarkParser) convert(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	var out bytes.Buffer
	if err := p.engine(opts).Convert(markdown, &out); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	if !opts.Sanitize {
		return out.Bytes(), nil
	}
	return p.policy.SanitizeBytes(out.Bytes()), nil
}

type engineKey struct {
	extensions string
	hardWraps  bool
	rawHTML    bool
}

func keyFor(opts interfaces.ParseOptions) engineKey {
	return engineKey{
		extensions: strings.Join(extensionNames(opts.Extensions), ","),
		hardWraps:  opts.HardWraps,
		rawHTML:    !opts.SafeMode && !opts.Sanitize,
	}
}

func (p *GoldmarkParser) engine(opts interfaces.ParseOptions) goldmark.Markdown {
	key := keyFor(opts)
	if cached, ok := p.engines.Load(key); ok {
		return cached.(goldmark.Markdown)
	}
	built, _ := p.engines.LoadOrStore(key, buildEngine(key))
	return built.(goldmark.Markdown)
}

func buildEngine(key engineKey) goldmark.Markdown {
	var rendering []renderer.Option
	if key.hardWraps {
		rendering = append(rendering, html.WithHardWraps())
	}
	if key.rawHTML {
		rendering = append(rendering, html.WithUnsafe())
	}

	var extenders []goldmark.Extender
	if key.extensions != "" {
		for _, name := range strings.Split(key.extensions, ",") {
			extenders = append(extenders, extensionRegistry[name])
		}
	}

	return goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendering...),
		goldmark.WithExtensions(extenders...),
	)
}

// MergeParseOptions overlays override on base. Extensions replace the base
// list when present; boolean toggles can only be switched on.
func MergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	merged := base
	if len(override.Extensions) > 0 {
		merged.Extensions = slices.Clone(override.Extensions)
	}
	merged.Sanitize = merged.Sanitize || override.Sanitize
	merged.HardWraps = merged.HardWraps || override.HardWraps
	merged.SafeMode = merged.SafeMode || override.SafeMode
	return merged
}

var defaultExtensions = []string{"gfm", "linkify", "tasklist"}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// KnownExtension reports whether name maps to a goldmark extension.
func KnownExtension(name string) bool {
	_, ok := extensionRegistry[normalizeExtension(name)]
	return ok
}

func normalizeExtension(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// extensionNames resolves configured names to registry keys in order,
// dropping blanks, duplicates and unknown names. An empty list selects the
// defaults.
func extensionNames(names []string) []string {
	if len(names) == 0 {
		return defaultExtensions
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := normalizeExtension(name)
		if _, ok := extensionRegistry[key]; !ok || slices.Contains(out, key) {
			continue
		}
		out = append(out, key)
	}
	return out
}
