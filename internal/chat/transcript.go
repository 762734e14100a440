package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sikshasathi/sathi/internal/auth"
	"github.com/sikshasathi/sathi/internal/sathi"
)

// Transcript is the active conversation persisted between invocations.
// The browser keeps the live chat in memory for the page's lifetime; a
// CLI needs it on disk to survive one process per message. This is local
// cache only, the backend's saved sessions remain the durable store.
type Transcript struct {
	Messages    []sathi.Message `json:"messages"`
	TurnHistory []sathi.Turn    `json:"turn_history"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TranscriptPath returns the transcript file location in the state
// directory.
func TranscriptPath() (string, error) {
	dir, err := auth.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "transcript.json"), nil
}

// LoadTranscript reads the persisted transcript. A missing file is an
// empty conversation, not an error.
func LoadTranscript(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Transcript{}, nil
		}
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}
	return &t, nil
}

// SaveTranscript writes the controller's current state to path.
func SaveTranscript(path string, c *Controller) error {
	t := Transcript{
		Messages:    c.Messages(),
		TurnHistory: c.TurnHistory(),
		UpdatedAt:   time.Now(),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize transcript: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

// RemoveTranscript deletes the persisted transcript. Clearing an already
// empty conversation is not an error.
func RemoveTranscript(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove transcript: %w", err)
	}
	return nil
}
