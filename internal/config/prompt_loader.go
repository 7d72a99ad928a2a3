package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// The file-loaded analysis prompt is stored package-level behind a lock so
// the prompt watcher can swap it while requests are in flight.
var (
	loadedPromptMu      sync.RWMutex
	loadedAnalyzePrompt string
)

// GetAnalysisPrompt returns the effective analysis prompt template.
// Resolution order: file-loaded content, then inline config, then "" which
// tells callers to use the built-in default.
func (c *Config) GetAnalysisPrompt() string {
	loadedPromptMu.RLock()
	loaded := loadedAnalyzePrompt
	loadedPromptMu.RUnlock()

	if loaded != "" {
		return loaded
	}
	return c.AI.CustomPrompts.Analyze
}

// loadPromptFromFile loads the custom analysis prompt from an external file
// when a path is configured
func (c *Config) loadPromptFromFile() error {
	filePath := c.AI.CustomPrompts.AnalyzeFile
	if filePath == "" {
		log.Println("[CONFIG] No custom prompt file configured - using inline config or built-in default")
		return nil
	}

	content, err := readPromptFile(filePath)
	if err != nil {
		return err
	}

	setLoadedAnalyzePrompt(content)
	log.Printf("[CONFIG] Successfully loaded analysis prompt from file: %s (%d characters)", filePath, len(content))
	return nil
}

// ReloadAnalysisPrompt re-reads the configured prompt file. Used by the
// prompt watcher when the file changes on disk. A read failure leaves the
// previously loaded prompt in place.
func (c *Config) ReloadAnalysisPrompt() error {
	filePath := c.AI.CustomPrompts.AnalyzeFile
	if filePath == "" {
		return fmt.Errorf("no prompt file configured")
	}

	content, err := readPromptFile(filePath)
	if err != nil {
		return err
	}

	setLoadedAnalyzePrompt(content)
	return nil
}

func setLoadedAnalyzePrompt(content string) {
	loadedPromptMu.Lock()
	loadedAnalyzePrompt = content
	loadedPromptMu.Unlock()
}

// readPromptFile reads and validates a prompt template file
func readPromptFile(filePath string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for prompt file '%s': %w", filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("prompt file not found: %s", absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file '%s': %w", absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("prompt file '%s' is empty", absPath)
	}

	return trimmed, nil
}
