// source/file.go
package source

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/arbiterhq/arbiter/logging"
	"github.com/arbiterhq/arbiter/model"
)

// FileSource reads an ordered policy list from a YAML document and serves a
// cached copy. Watch reloads the cache when the file changes; a reload that
// fails to parse keeps the previous good copy.
type FileSource struct {
	path string

	mu       sync.RWMutex
	policies []model.Policy
}

type policyFile struct {
	Policies []model.Policy `yaml:"policies"`
}

func NewFileSource(path string) (*FileSource, error) {
	fs := &FileSource{path: path}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Policies returns the current batch in document order.
func (fs *FileSource) Policies(_ context.Context) ([]model.Policy, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	out := make([]model.Policy, len(fs.policies))
	copy(out, fs.policies)
	return out, nil
}

func (fs *FileSource) load() error {
	raw, err := os.ReadFile(fs.path)
	if err != nil {
		return fmt.Errorf("failed to read policy file: %w", err)
	}

	var doc policyFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse policy file: %w", err)
	}

	fs.mu.Lock()
	fs.policies = doc.Policies
	fs.mu.Unlock()

	logging.Info("Loaded policy file",
		zap.String("path", fs.path),
		zap.Int("policies", len(doc.Policies)))
	return nil
}

// Watch reloads the file on write events until ctx is cancelled.
func (fs *FileSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(fs.path); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					if err := fs.load(); err != nil {
						logging.Error("Policy file reload failed",
							zap.String("path", fs.path),
							zap.Error(err))
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Error("Policy file watcher error", zap.Error(err))
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
