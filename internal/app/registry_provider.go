package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"toolhub/internal/domain"
	"toolhub/internal/infra/registry"
)

const defaultReloadDebounce = 200 * time.Millisecond

// RegistryState is one loaded registry snapshot. The registry only
// changes by redeploying the content root; a reload models redeploy.
type RegistryState struct {
	Index    domain.RegistryIndex
	Revision uint64
	LoadedAt time.Time
}

// RegistryUpdate notifies subscribers of a new snapshot.
type RegistryUpdate struct {
	State  RegistryState
	Source string
}

const (
	UpdateSourceManual = "manual"
	UpdateSourceWatch  = "watch"
)

// RegistryProvider loads the registry index and watches the content
// root for redeploys.
type RegistryProvider struct {
	logger      *zap.Logger
	loader      *registry.Loader
	contentRoot string
	metrics     domain.Metrics

	state    atomic.Value
	store    atomic.Pointer[registry.Store]
	revision atomic.Uint64

	subsMu sync.Mutex
	subs   map[chan RegistryUpdate]struct{}

	reloadMu  sync.Mutex
	watchOnce sync.Once
	watchCtx  context.Context
}

func NewRegistryProvider(ctx context.Context, contentRoot string, logger *zap.Logger, metrics domain.Metrics) (*RegistryProvider, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = domain.NopMetrics()
	}

	loader := registry.NewLoader(logger)
	index, err := loader.Load(ctx, contentRoot)
	if err != nil {
		return nil, err
	}

	provider := &RegistryProvider{
		logger:      logger.Named("registry_provider"),
		loader:      loader,
		contentRoot: contentRoot,
		metrics:     metrics,
		subs:        make(map[chan RegistryUpdate]struct{}),
		watchCtx:    ctx,
	}
	state := RegistryState{Index: index, Revision: 1, LoadedAt: time.Now()}
	provider.state.Store(state)
	provider.revision.Store(state.Revision)
	provider.store.Store(registry.NewStore(contentRoot, index, logger, metrics))
	return provider, nil
}

// Snapshot returns the current registry state.
func (p *RegistryProvider) Snapshot() RegistryState {
	return p.state.Load().(RegistryState)
}

// Store returns the registry store for the current snapshot.
func (p *RegistryProvider) Store() *registry.Store {
	return p.store.Load()
}

// Watch subscribes to registry updates and starts the file watcher.
func (p *RegistryProvider) Watch(ctx context.Context) <-chan RegistryUpdate {
	if ctx == nil {
		ctx = context.Background()
	}
	ch := make(chan RegistryUpdate, 1)
	p.subsMu.Lock()
	p.subs[ch] = struct{}{}
	p.subsMu.Unlock()

	p.watchOnce.Do(func() {
		go p.runWatcher(p.watchCtx)
	})

	go func() {
		<-ctx.Done()
		p.subsMu.Lock()
		delete(p.subs, ch)
		p.subsMu.Unlock()
	}()

	return ch
}

// Reload forces a fresh load of the index.
func (p *RegistryProvider) Reload(ctx context.Context) error {
	return p.reload(ctx, UpdateSourceManual)
}

func (p *RegistryProvider) reload(ctx context.Context, source string) error {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	index, err := p.loader.Load(ctx, p.contentRoot)
	if err != nil {
		return err
	}

	for _, change := range versionChanges(p.Snapshot().Index, index) {
		p.logger.Info("registry tool version changed", zap.String("change", change))
	}

	nextRevision := p.revision.Load() + 1
	next := RegistryState{Index: index, Revision: nextRevision, LoadedAt: time.Now()}

	p.revision.Store(nextRevision)
	p.state.Store(next)
	p.store.Store(registry.NewStore(p.contentRoot, index, p.logger, p.metrics))
	p.logger.Info("registry reloaded",
		zap.Uint64("revision", nextRevision),
		zap.Int("tools", len(index.Tools)),
		zap.String("source", source))
	p.broadcast(RegistryUpdate{State: next, Source: source})
	return nil
}

// versionChanges reports tools whose version moved between snapshots,
// as "<id> <old> -> <new>" strings.
func versionChanges(prev, next domain.RegistryIndex) []string {
	old := make(map[string]string, len(prev.Tools))
	for _, tool := range prev.Tools {
		old[tool.ID] = tool.Version
	}
	var out []string
	for _, tool := range next.Tools {
		before, ok := old[tool.ID]
		if !ok || domain.CompareVersions(before, tool.Version) == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%s %s -> %s", tool.ID, before, tool.Version))
	}
	return out
}

func (p *RegistryProvider) broadcast(update RegistryUpdate) {
	p.subsMu.Lock()
	subs := make([]chan RegistryUpdate, 0, len(p.subs))
	for ch := range p.subs {
		subs = append(subs, ch)
	}
	p.subsMu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- update:
		default:
		}
	}
}

func (p *RegistryProvider) runWatcher(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Warn("registry watcher failed", zap.Error(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(p.contentRoot); err != nil {
		p.logger.Warn("registry watcher add failed",
			zap.String("path", p.contentRoot), zap.Error(err))
		return
	}

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-watcher.Errors:
			if err != nil {
				p.logger.Warn("registry watcher error", zap.Error(err))
			}
		case event := <-watcher.Events:
			if !isIndexPath(event.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(defaultReloadDebounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(defaultReloadDebounce)
		case <-timerChan(timer):
			timer = nil
			if err := p.reload(ctx, UpdateSourceWatch); err != nil {
				p.logger.Warn("registry reload failed", zap.Error(err))
			}
		}
	}
}

func isIndexPath(path string) bool {
	base := filepath.Base(path)
	return base == domain.DefaultIndexFileName || base == domain.DefaultIndexFileAlt
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
