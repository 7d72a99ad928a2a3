package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AaronJay30/next-hire/internal/errors"
)

// PromptWatcher watches the analysis prompt template file and reloads it
// when it changes, so prompt tuning does not require a restart.
type PromptWatcher struct {
	mu sync.RWMutex

	config     *Config
	promptFile string

	lastModTime time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	logger *errors.Logger

	running bool
}

// NewPromptWatcher creates a watcher for the configured prompt file.
// Returns nil when no prompt file is configured.
func NewPromptWatcher(cfg *Config, debounceDelay time.Duration, logger *errors.Logger) *PromptWatcher {
	if cfg.AI.CustomPrompts.AnalyzeFile == "" {
		return nil
	}

	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &PromptWatcher{
		config:        cfg,
		promptFile:    cfg.AI.CustomPrompts.AnalyzeFile,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		logger:        logger,
	}
}

// Start begins watching the prompt file for changes
func (pw *PromptWatcher) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return fmt.Errorf("prompt watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	pw.fsWatcher = watcher

	if stat, err := os.Stat(pw.promptFile); err == nil {
		pw.lastModTime = stat.ModTime()
	}

	if err := pw.addFileToWatcher(pw.promptFile); err != nil {
		pw.cleanupWatcher()
		return err
	}

	pw.running = true
	go pw.watchLoop()

	if pw.logger != nil {
		pw.logger.Info("Prompt file watcher started",
			"file", pw.promptFile,
			"debounce_delay", pw.debounceDelay)
	}
	return nil
}

// Stop stops the prompt file watcher
func (pw *PromptWatcher) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}

	close(pw.stopChan)

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}

	if pw.fsWatcher != nil {
		if err := pw.fsWatcher.Close(); err != nil {
			if pw.logger != nil {
				pw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	pw.running = false

	if pw.logger != nil {
		pw.logger.Info("Prompt file watcher stopped")
	}

	return nil
}

// IsRunning returns whether the watcher is currently running
func (pw *PromptWatcher) IsRunning() bool {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	return pw.running
}

func (pw *PromptWatcher) cleanupWatcher() {
	if pw.fsWatcher != nil {
		if closeErr := pw.fsWatcher.Close(); closeErr != nil && pw.logger != nil {
			pw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
	}
}

// addFileToWatcher adds the prompt file and its directory to the watcher.
// Watching the directory catches atomic writes (rename operations).
func (pw *PromptWatcher) addFileToWatcher(file string) error {
	if err := pw.fsWatcher.Add(file); err != nil {
		if os.IsNotExist(err) {
			dir := filepath.Dir(file)
			if err := pw.fsWatcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", dir, err)
			}
			if pw.logger != nil {
				pw.logger.Info("Watching directory for prompt file",
					"file", file, "directory", dir)
			}
			return nil
		}
		return fmt.Errorf("failed to watch file %s: %w", file, err)
	}

	dir := filepath.Dir(file)
	if err := pw.fsWatcher.Add(dir); err != nil {
		if pw.logger != nil {
			pw.logger.Warn("Failed to watch directory for atomic writes",
				"directory", dir, "error", err)
		}
	}

	return nil
}

// watchLoop is the main event loop for file watching
func (pw *PromptWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-pw.fsWatcher.Events:
			if !ok {
				return
			}

			if pw.shouldProcessEvent(event) {
				pw.scheduleReload()
			}

		case err, ok := <-pw.fsWatcher.Errors:
			if !ok {
				return
			}
			if pw.logger != nil {
				pw.logger.LogError(err, "File watcher error")
			}

		case <-pw.reloadChan:
			// Debounced reload trigger
			if pw.hasFileChanged() {
				pw.reloadPrompt()
			}

		case <-pw.stopChan:
			return
		}
	}
}

// shouldProcessEvent determines if a file system event should trigger a reload check
func (pw *PromptWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Name != pw.promptFile && filepath.Base(event.Name) != filepath.Base(pw.promptFile) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// hasFileChanged checks if the prompt file has been modified since last check
func (pw *PromptWatcher) hasFileChanged() bool {
	stat, err := os.Stat(pw.promptFile)
	if err != nil {
		return false
	}

	pw.mu.Lock()
	defer pw.mu.Unlock()

	if stat.ModTime().After(pw.lastModTime) {
		pw.lastModTime = stat.ModTime()
		return true
	}
	return false
}

// reloadPrompt re-reads the prompt file and swaps the loaded template
func (pw *PromptWatcher) reloadPrompt() {
	if err := pw.config.ReloadAnalysisPrompt(); err != nil {
		if pw.logger != nil {
			pw.logger.LogError(err, "Failed to reload prompt file, keeping previous prompt",
				"file", pw.promptFile)
		}
		return
	}

	if pw.logger != nil {
		pw.logger.Info("Analysis prompt reloaded from file", "file", pw.promptFile)
	}
}

// scheduleReload schedules a debounced reload
func (pw *PromptWatcher) scheduleReload() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}

	pw.debounceTimer = time.AfterFunc(pw.debounceDelay, func() {
		select {
		case pw.reloadChan <- struct{}{}:
			// Reload scheduled
		default:
			// Channel is full, reload already scheduled
		}
	})
}
