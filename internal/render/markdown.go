// Package render turns blog markdown into sanitized HTML.
package render

import (
	"bytes"
	"fmt"
	"html"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const defaultCacheSize = 512

// Renderer converts markdown to HTML and caches results per blog revision.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	cache  *lru.Cache[string, string]
}

// New returns a Renderer holding up to size rendered documents.
func New(size int) (*Renderer, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowImages()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		policy: policy,
		cache:  cache,
	}, nil
}

// HTML renders source. On a conversion failure the escaped source is returned.
func (r *Renderer) HTML(source string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return html.EscapeString(source)
	}
	return string(r.policy.SanitizeBytes(buf.Bytes()))
}

// Blog renders the content of blog id at revision updatedAt, reusing a
// cached result when the revision has been rendered before.
func (r *Renderer) Blog(id uint, updatedAt time.Time, source string) string {
	key := fmt.Sprintf("%d:%d", id, updatedAt.UnixNano())
	if out, ok := r.cache.Get(key); ok {
		return out
	}
	out := r.HTML(source)
	r.cache.Add(key, out)
	return out
}

// Len reports the number of cached documents.
func (r *Renderer) Len() int {
	return r.cache.Len()
}
