package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Load reads, expands, decodes, defaults, and validates the config file
// at path (spec §1 ambient-stack "Configuration").
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default}, mirroring the
// teacher's pkg/config/loader.go expansion syntax.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-(.*?))?\}`)

func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, def := parts[1], parts[2]
		if val, ok := os.LookupEnv(name); ok && val != "" {
			return val
		}
		return def
	})
}

// Watcher reloads the config file on change and invokes onChange with
// the freshly loaded Config, debounced the way the teacher's FileProvider
// does to coalesce rapid writes from editors/deploy tooling.
type Watcher struct {
	path     string
	onChange func(*Config)

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// NewWatcher creates a Watcher bound to path; call Start to begin
// watching.
func NewWatcher(path string, onChange func(*Config)) *Watcher {
	return &Watcher{path: path, onChange: onChange}
}

const debounceDelay = 100 * time.Millisecond

// Start watches the config file's directory for writes and blocks until
// ctx is cancelled, reloading and invoking onChange on every debounced
// change (grounded on the teacher's provider.FileProvider.Watch).
func (w *Watcher) Start(ctx context.Context) error {
	absPath, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("config: failed to resolve path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: failed to create watcher: %w", err)
	}
	w.mu.Lock()
	w.watcher = fw
	w.mu.Unlock()
	defer fw.Close()

	dir := filepath.Dir(absPath)
	file := filepath.Base(absPath)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("config: failed to watch %s: %w", dir, err)
	}

	var debounce *time.Timer
	reload := func() {
		cfg, err := Load(absPath)
		if err != nil {
			slog.Error("config reload failed", "error", err)
			return
		}
		slog.Info("config reloaded", "path", absPath)
		w.onChange(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != file {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, reload)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Error("config watcher error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}
