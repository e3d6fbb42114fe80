package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/gogpu/fx"
	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/internal/cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Extension is the file extension of content containers.
const Extension = ".gcnt"

// DefaultPreloadConcurrency bounds the parallel loads of Preload.
const DefaultPreloadConcurrency = 4

// Option configures a Manager.
//
// Example:
//
//	m := content.NewManager("Content",
//	    content.WithDevice(dev),
//	    content.WithCacheSize(256),
//	)
type Option func(*Manager)

// WithDevice creates native resources for loaded effects on dev.
func WithDevice(dev backend.Device) Option {
	return func(m *Manager) {
		m.device = dev
	}
}

// WithRegistry resolves type readers through g instead of the default registry.
func WithRegistry(g *Registry) Option {
	return func(m *Manager) {
		if g != nil {
			m.registry = g
		}
	}
}

// WithFS reads containers from fsys instead of the root directory.
func WithFS(fsys fs.FS) Option {
	return func(m *Manager) {
		if fsys != nil {
			m.fsys = fsys
		}
	}
}

// WithCacheSize limits the number of loaded assets kept. Zero keeps all.
// Evicted assets are released like unloaded ones.
func WithCacheSize(n int) Option {
	return func(m *Manager) {
		m.cacheSize = max(n, 0)
	}
}

// Manager loads named assets from a content root and keeps them until
// unloaded.
//
// Manager is safe for concurrent use. Concurrent loads of one asset share
// a single decode.
type Manager struct {
	root      string
	fsys      fs.FS
	device    backend.Device
	registry  *Registry
	cacheSize int

	assets *cache.Cache[string, any]
	loads  singleflight.Group
	log    *slog.Logger
}

// NewManager returns a manager rooted at the directory root.
func NewManager(root string, opts ...Option) *Manager {
	m := &Manager{
		root:     root,
		registry: DefaultRegistry(),
		log:      fx.ComponentLogger("content"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.fsys == nil {
		m.fsys = os.DirFS(root)
	}
	m.assets = cache.New[string, any](m.cacheSize)
	m.assets.OnEvict = m.release
	return m
}

// Root returns the content root directory.
func (m *Manager) Root() string { return m.root }

// Device returns the device effects are created on, or nil.
func (m *Manager) Device() backend.Device { return m.device }

// Load returns the asset with the given name, decoding it on first use.
// Names are slash separated, relative to the root, without extension.
func (m *Manager) Load(name string) (any, error) {
	key := assetKey(name)
	if v, ok := m.assets.Get(key); ok {
		return v, nil
	}

	v, err, _ := m.loads.Do(key, func() (any, error) {
		if v, ok := m.assets.Get(key); ok {
			return v, nil
		}
		v, err := m.decode(key)
		if err != nil {
			return nil, err
		}
		m.assets.Set(key, v)
		return v, nil
	})
	return v, err
}

// LoadAs loads an asset and asserts its type.
func LoadAs[T any](m *Manager, name string) (T, error) {
	var zero T
	v, err := m.Load(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("content: asset %q is %T, not %T", name, v, zero)
	}
	return t, nil
}

// Preload loads names in parallel. It stops at the first error.
func (m *Manager) Preload(ctx context.Context, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultPreloadConcurrency)
	for _, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := m.Load(name)
			return err
		})
	}
	return g.Wait()
}

// Loaded reports whether an asset is cached.
func (m *Manager) Loaded(name string) bool {
	return m.assets.Contains(assetKey(name))
}

// Unload drops one asset, releasing its native resources.
func (m *Manager) Unload(name string) bool {
	return m.assets.Delete(assetKey(name))
}

// UnloadAll drops every asset.
func (m *Manager) UnloadAll() {
	m.assets.Clear()
}

// Stats returns asset cache statistics.
func (m *Manager) Stats() cache.Stats { return m.assets.Stats() }

// Watch unloads assets whose container files change under the root
// directory until ctx is done. It returns once watching has started.
func (m *Manager) Watch(ctx context.Context) error {
	if m.root == "" {
		return errors.New("content: watch requires a root directory")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content: watch: %w", err)
	}
	err = filepath.WalkDir(m.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("content: watch %s: %w", m.root, err)
	}
	m.log.Info("watching content", "root", m.root)

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				m.handleEvent(w, ev)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				m.log.Warn("content watch error", "err", err)
			}
		}
	}()
	return nil
}

func (m *Manager) handleEvent(w *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.Add(ev.Name)
			return
		}
	}
	if !strings.EqualFold(filepath.Ext(ev.Name), Extension) {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	rel, err := filepath.Rel(m.root, ev.Name)
	if err != nil {
		return
	}
	if m.Unload(filepath.ToSlash(rel)) {
		m.log.Debug("asset invalidated", "name", assetKey(filepath.ToSlash(rel)), "op", ev.Op.String())
	}
}

func (m *Manager) decode(key string) (any, error) {
	data, err := fs.ReadFile(m.fsys, key+Extension)
	if err != nil {
		return nil, fmt.Errorf("content: load %q: %w", key, err)
	}
	h, payload, err := ReadHeader(data)
	if err != nil {
		return nil, fmt.Errorf("content: load %q: %w", key, err)
	}
	v, err := NewReader(payload, key, m).ReadAsset()
	if err != nil {
		return nil, fmt.Errorf("content: load %q: %w", key, err)
	}
	m.log.Debug("asset loaded", "name", key, "platform", h.Platform.String(), "type", fmt.Sprintf("%T", v))
	return v, nil
}

// releaser is implemented by assets owning native resources.
type releaser interface {
	Release()
}

func (m *Manager) release(key string, v any) {
	if r, ok := v.(releaser); ok {
		r.Release()
		m.log.Debug("asset released", "name", key)
	}
}

// assetKey normalizes a name to a clean slash path without extension.
func assetKey(name string) string {
	name = path.Clean(strings.ReplaceAll(name, `\`, "/"))
	name = strings.TrimPrefix(name, "./")
	if strings.EqualFold(path.Ext(name), Extension) {
		name = name[:len(name)-len(Extension)]
	}
	return name
}
