package page

import (
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/ytpdc/internal/domain/playlist"
)

// Change describes what a reload found.
type Change int

const (
	ChangeNone       Change = iota // Identical bytes
	ChangeMutation                 // Same playlist, different render
	ChangeNavigation               // A different playlist
)

// String returns the string representation of the change.
func (c Change) String() string {
	switch c {
	case ChangeNone:
		return "none"
	case ChangeMutation:
		return "mutation"
	case ChangeNavigation:
		return "navigation"
	default:
		return "unknown"
	}
}

// File is a host view backed by a page saved on disk. Each Reload replaces
// the whole render; item handles from older renders stay readable but are
// never returned again.
type File struct {
	path string
	sel  Selectors

	mu       sync.RWMutex
	doc      *Document
	raw      string
	listID   string
	nextID   int
	mutated  map[int]func()
	navigate map[int]func()
}

// OpenFile loads the page at path.
func OpenFile(path string, sel Selectors) (*File, error) {
	f := &File{
		path:     path,
		sel:      sel,
		mutated:  make(map[int]func()),
		navigate: make(map[int]func()),
	}
	if _, err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the page path.
func (f *File) Path() string {
	return f.path
}

// Reload re-reads the page and reports how it changed.
func (f *File) Reload() (Change, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return ChangeNone, errors.Wrapf(err, "failed to read page %s", f.path)
	}
	doc, err := ParseString(string(data), f.sel)
	if err != nil {
		return ChangeNone, errors.Wrapf(err, "page %s", f.path)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.doc != nil && string(data) == f.raw {
		return ChangeNone, nil
	}

	change := ChangeMutation
	listID := doc.PlaylistID()
	if f.doc != nil && listID != f.listID {
		change = ChangeNavigation
	}

	f.doc = doc
	f.raw = string(data)
	f.listID = listID
	return change, nil
}

// Document returns the current render.
func (f *File) Document() *Document {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.doc
}

// PlaylistID returns the playlist of the current render.
func (f *File) PlaylistID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.listID
}

// RenderedItems implements aggregate.Host.
func (f *File) RenderedItems() []playlist.ListItem {
	return f.Document().RenderedItems()
}

// ListSizeStatistic implements aggregate.Host.
func (f *File) ListSizeStatistic() (string, bool) {
	return f.Document().ListSizeStatistic()
}

// OnListMutated implements monitor.Signals.
func (f *File) OnListMutated(callback func()) func() {
	return f.register(f.mutated, callback)
}

// OnNavigationFinished implements monitor.Signals.
func (f *File) OnNavigationFinished(callback func()) func() {
	return f.register(f.navigate, callback)
}

func (f *File) register(set map[int]func(), callback func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	set[id] = callback
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(set, id)
	}
}

// Emit calls the callbacks registered for change. Callbacks run without
// the file lock held.
func (f *File) Emit(change Change) {
	var set map[int]func()
	switch change {
	case ChangeMutation:
		set = f.mutated
	case ChangeNavigation:
		set = f.navigate
	default:
		return
	}

	f.mu.RLock()
	callbacks := make([]func(), 0, len(set))
	for _, cb := range set {
		callbacks = append(callbacks, cb)
	}
	f.mu.RUnlock()

	zlog.Debug().Msgf("page: %s: %s (%d listeners)", f.path, change, len(callbacks))
	for _, cb := range callbacks {
		cb()
	}
}

// Refresh reloads the page and emits the resulting change.
func (f *File) Refresh() (Change, error) {
	change, err := f.Reload()
	if err != nil {
		return ChangeNone, err
	}
	f.Emit(change)
	return change, nil
}
