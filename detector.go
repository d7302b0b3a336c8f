package sdkscout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"sdkscout/internal/cache"
	"sdkscout/internal/callscan"
	"sdkscout/internal/detect"
	"sdkscout/internal/fswalk"
	"sdkscout/internal/store"
)

// ErrUnsafePath is returned when a requested root is rejected before any
// scan: too short, a known system directory, or otherwise outside expected
// bounds.
var ErrUnsafePath = errors.New("unsafe root path")

// Detector runs repository structure detection with a bounded LRU cache of
// completed results. All methods are safe for concurrent use; concurrent
// Detect calls for the same root share one scan.
type Detector struct {
	cache  *cache.Cache[*DetectionResult]
	store  *store.Store
	limits fswalk.Limits
	logger *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithCacheSize bounds the in-memory result cache (default 128 roots).
func WithCacheSize(size int) Option {
	return func(d *Detector) {
		d.cache = cache.New[*DetectionResult](size)
	}
}

// WithLimits overrides the per-scan file and depth caps.
func WithLimits(maxFiles, maxDepth int) Option {
	return func(d *Detector) {
		d.limits = fswalk.Limits{MaxFiles: maxFiles, MaxDepth: maxDepth}
	}
}

// WithLogger sets the logger for diagnostic events (skipped subtrees,
// unparseable manifests). Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// WithStore attaches a persistent detection store: completed detections are
// written through to it and later Detectors warm-start from it. The store
// shares the cache's staleness contract — explicit clear only.
func WithStore(s *store.Store) Option {
	return func(d *Detector) {
		d.store = s
	}
}

// NewDetector creates a Detector with default limits and cache size.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		cache:  cache.New[*DetectionResult](128),
		limits: fswalk.DefaultLimits,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect analyzes the repository at root and returns its structure. Results
// are cached by canonical root path, so a second call for an unchanged path
// is served without touching the filesystem. ctx is consulted only before a
// cold scan starts; a scan in progress runs to completion (every walk is
// bounded by the configured caps).
func (d *Detector) Detect(ctx context.Context, root string) (*DetectionResult, error) {
	canonical, err := canonicalRoot(root)
	if err != nil {
		return nil, err
	}

	return d.cache.GetOrCompute(canonical, func() (*DetectionResult, error) {
		if d.store != nil {
			var persisted DetectionResult
			ok, err := d.store.Get(canonical, &persisted)
			if err != nil {
				d.logger.Warn("detection store read failed", "root", canonical, "err", err)
			} else if ok {
				return &persisted, nil
			}
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d.logger.Debug("cold detection scan", "root", canonical)
		result := detect.Run(canonical, d.limits, d.logger)

		if d.store != nil {
			if err := d.store.Put(canonical, result); err != nil {
				d.logger.Warn("detection store write failed", "root", canonical, "err", err)
			}
		}
		return result, nil
	})
}

// ClearCache drops every cached detection. The only invalidation mechanism:
// the Detector never watches the filesystem for changes.
func (d *Detector) ClearCache() {
	d.cache.Clear()
}

// canonicalRoot validates and canonicalizes a requested root path, rejecting
// unsafe roots before any scan is attempted.
func canonicalRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, root)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve root %s: %w", root, err)
	}
	info, err := os.Stat(canonical)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", root)
	}
	if unsafeRoot(canonical) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, canonical)
	}
	return canonical, nil
}

// systemDirs are directory trees never scanned, rejected up front.
var systemDirs = []string{
	"/bin", "/boot", "/dev", "/etc", "/lib", "/proc", "/sbin", "/sys", "/usr",
}

// unsafeRoot reports whether a canonical path is too short or inside a known
// system directory.
func unsafeRoot(path string) bool {
	if path == string(filepath.Separator) || len(path) < 4 {
		return true
	}
	if runtime.GOOS == "windows" {
		lowered := strings.ToLower(filepath.ToSlash(path))
		return strings.Contains(lowered, "/windows/") || strings.HasSuffix(lowered, "/windows")
	}
	for _, dir := range systemDirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ScanSamples extracts call sites from every supported source file under
// samplesDir, bounded by the Detector's limits. Files that fail to parse are
// skipped with a diagnostic; the remaining files still produce a usable
// result. The returned count is the number of files scanned.
func (d *Detector) ScanSamples(ctx context.Context, samplesDir string) ([]CallSite, int, error) {
	if _, err := os.Stat(samplesDir); err != nil {
		return nil, 0, fmt.Errorf("samples dir: %w", err)
	}

	exts := make(map[string]bool, len(detect.SourceExts))
	for ext := range detect.SourceExts {
		exts[ext] = true
	}

	var sites []CallSite
	files := fswalk.EnumerateExts(samplesDir, exts, d.limits)
	scanned := 0
	for _, file := range files {
		found, err := callscan.ScanFile(ctx, file)
		if err != nil {
			d.logger.Debug("sample parse skipped", "file", file, "err", err)
			continue
		}
		scanned++
		for i := range found {
			if rel, err := filepath.Rel(samplesDir, found[i].File); err == nil {
				found[i].File = rel
			}
		}
		sites = append(sites, found...)
	}
	return sites, scanned, nil
}
