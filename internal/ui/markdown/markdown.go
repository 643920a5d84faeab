// Package markdown renders markdown for the terminal with glamour, caching
// the output per (style, width, source).
package markdown

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/stepflow/internal/log"
)

// Styles accepted by New.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

const (
	cacheTTL     = 10 * time.Minute
	cacheCleanup = 20 * time.Minute
)

// Renderer renders markdown at a given wrap width. Glamour renderers are
// built lazily per width and reused.
type Renderer struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
	cache     *gocache.Cache
}

// New creates a renderer with a glamour standard style.
func New(style string) *Renderer {
	switch style {
	case StyleDark, StyleLight, StyleNoTTY:
	default:
		style = StyleDark
	}
	return &Renderer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
		cache:     gocache.New(cacheTTL, cacheCleanup),
	}
}

// Style returns the glamour style in use.
func (r *Renderer) Style() string {
	return r.style
}

// Render returns src rendered for width columns.
func (r *Renderer) Render(src string, width int) (string, error) {
	width = max(width, 20)
	key := r.style + "|" + strconv.Itoa(width) + "|" + src
	if out, ok := r.cache.Get(key); ok {
		return out.(string), nil
	}

	tr, err := r.termRenderer(width)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	out, err := tr.Render(src)
	r.mu.Unlock()
	if err != nil {
		log.ErrorErr(log.CatUI, "Markdown render failed", err, "width", width)
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	r.cache.Set(key, out, gocache.DefaultExpiration)
	return out, nil
}

// CachedItems reports how many renders are cached.
func (r *Renderer) CachedItems() int {
	return r.cache.ItemCount()
}

func (r *Renderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.renderers[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	r.renderers[width] = tr
	return tr, nil
}
