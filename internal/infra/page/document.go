package page

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"

	"github.com/osa030/ytpdc/internal/domain/playlist"
)

// Document is one parsed render of a playlist page. It is immutable.
type Document struct {
	doc *goquery.Document
	sel Selectors
}

// Parse parses a playlist page.
func Parse(r io.Reader, sel Selectors) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse page")
	}
	return &Document{doc: goquery.NewDocumentFromNode(root), sel: sel}, nil
}

// ParseString parses a playlist page held in memory.
func ParseString(s string, sel Selectors) (*Document, error) {
	return Parse(strings.NewReader(s), sel)
}

// RenderedItems returns the playlist entries in document order.
func (d *Document) RenderedItems() []playlist.ListItem {
	nodes := d.doc.Find(d.sel.Container).First().Find(d.sel.Item)
	items := make([]playlist.ListItem, 0, nodes.Length())
	nodes.Each(func(_ int, s *goquery.Selection) {
		items = append(items, element{s: s, sel: &d.sel})
	})
	return items
}

// ListSizeStatistic returns the displayed "N videos" text of the active layout.
func (d *Document) ListSizeStatistic() (string, bool) {
	selector := d.sel.StatsFallback
	if d.IsNewLayout() {
		selector = d.sel.Stats
	}
	stat := d.doc.Find(selector).First()
	if stat.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(stat.Text()), true
}

// IsNewLayout reports whether the page uses the header layout. The sidebar
// of the old layout may still be present, but hidden.
func (d *Document) IsNewLayout() bool {
	if d.doc.Find(d.sel.NewLayout).Length() == 0 {
		return false
	}
	old := d.doc.Find(d.sel.OldLayout).First()
	if old.Length() == 0 {
		return true
	}
	_, hidden := old.Attr("hidden")
	return hidden
}

// PlaylistID returns the "list" parameter of the page's canonical URL.
// Returns "" if the page does not name its playlist.
func (d *Document) PlaylistID() string {
	candidates := []string{
		d.attr(`link[rel="canonical"]`, "href"),
		d.attr(`meta[property="og:url"]`, "content"),
	}
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if id := u.Query().Get("list"); id != "" {
			return id
		}
	}
	return ""
}

func (d *Document) attr(selector, name string) string {
	v, _ := d.doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

// element is a rendered playlist entry.
type element struct {
	s   *goquery.Selection
	sel *Selectors
}

// DurationText implements playlist.ListItem.
func (e element) DurationText() (string, bool) {
	overlay := e.s.Find(e.sel.Duration).First()
	if overlay.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(overlay.Text()), true
}

// AvailabilityLabel implements playlist.ListItem.
func (e element) AvailabilityLabel() (string, bool) {
	return e.s.Find(e.sel.Title).First().Attr(e.sel.TitleAttr)
}
