package shape

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/san-kum/snowglobe/internal/cloud"
)

// Kind names a silhouette.
type Kind string

const (
	KindTree  Kind = "tree"
	KindHeart Kind = "heart"
	KindText  Kind = "text"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindTree, KindHeart, KindText:
		return k, nil
	case "":
		return KindTree, nil
	default:
		return "", fmt.Errorf("unknown silhouette: %s (available: tree, heart, text)", s)
	}
}

type LibraryConfig struct {
	Count         int
	Geometry      Geometry
	HeartAttempts int
	Text          TextOptions
	Logger        *slog.Logger
}

// Library builds each silhouette once and hands out the cached buffer on
// every later request. Returned buffers are shared and must not be mutated.
type Library struct {
	mu     sync.Mutex
	rng    cloud.Rand
	cfg    LibraryConfig
	log    *slog.Logger
	cache  map[string]cloud.Buffer
	builds int
}

// NewLibrary validates the configuration and eagerly builds the tree, which
// is also the fallback for degenerate text requests.
func NewLibrary(rng cloud.Rand, cfg LibraryConfig) (*Library, error) {
	if cfg.Count <= 0 {
		return nil, cloud.InvalidConfig("particles", cfg.Count)
	}
	if err := cfg.Geometry.Validate(); err != nil {
		return nil, err
	}
	if cfg.HeartAttempts <= 0 {
		cfg.HeartAttempts = DefaultHeartAttempts
	}
	if cfg.Text == (TextOptions{}) {
		cfg.Text = DefaultTextOptions()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := &Library{
		rng:   rng,
		cfg:   cfg,
		log:   logger,
		cache: make(map[string]cloud.Buffer),
	}
	if _, err := l.tree(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Library) Count() int         { return l.cfg.Count }
func (l *Library) Geometry() Geometry { return l.cfg.Geometry }

// Builds reports how many buffers the library has generated so far.
func (l *Library) Builds() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.builds
}

func (l *Library) Tree() cloud.Buffer {
	l.mu.Lock()
	defer l.mu.Unlock()
	buf, _ := l.tree()
	return buf
}

func (l *Library) Heart() cloud.Buffer {
	l.mu.Lock()
	defer l.mu.Unlock()
	if buf, ok := l.cache[string(KindHeart)]; ok {
		return buf
	}
	buf, stalls, err := Heart(l.rng, l.cfg.Count, l.cfg.HeartAttempts)
	if err != nil {
		// count was validated at construction
		panic(err)
	}
	if stalls > 0 {
		l.log.Warn("heart sampling stalled", "particles", stalls, "max_attempts", l.cfg.HeartAttempts, "err", cloud.ErrSamplingStall)
	}
	l.store(string(KindHeart), buf)
	return buf
}

// Text returns the silhouette of s. Empty strings, unrenderable text and
// rasters with no lit pixels fall back to the tree.
func (l *Library) Text(s string) cloud.Buffer {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := string(KindText) + ":" + s
	if buf, ok := l.cache[key]; ok {
		return buf
	}
	buf, err := Text(l.rng, l.cfg.Count, s, l.cfg.Text)
	if err != nil {
		l.log.Warn("text silhouette unavailable, using tree", "text", s, "err", err)
		buf, _ = l.tree()
		l.cache[key] = buf
		return buf
	}
	l.store(key, buf)
	return buf
}

// Get returns the silhouette for kind; text is only consulted for KindText.
func (l *Library) Get(kind Kind, text string) cloud.Buffer {
	switch kind {
	case KindHeart:
		return l.Heart()
	case KindText:
		return l.Text(text)
	default:
		return l.Tree()
	}
}

// Keys lists the cached silhouettes.
func (l *Library) Keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := make([]string, 0, len(l.cache))
	for k := range l.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (l *Library) tree() (cloud.Buffer, error) {
	if buf, ok := l.cache[string(KindTree)]; ok {
		return buf, nil
	}
	buf, err := Tree(l.rng, l.cfg.Count, l.cfg.Geometry)
	if err != nil {
		return nil, err
	}
	l.store(string(KindTree), buf)
	return buf, nil
}

func (l *Library) store(key string, buf cloud.Buffer) {
	l.cache[key] = buf
	l.builds++
	l.log.Debug("silhouette built", "key", key, "particles", buf.Len())
}
