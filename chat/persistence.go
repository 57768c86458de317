package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SavedTranscript is one persisted conversation.
type SavedTranscript struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Turns     []Turn    `json:"turns"`
}

// TranscriptMetadata is a lightweight version of SavedTranscript for listing.
type TranscriptMetadata struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	TurnCount int       `json:"turn_count"`
}

// TranscriptStorage handles conversation persistence.
type TranscriptStorage struct {
	transcriptsDir string
}

// NewTranscriptStorage creates transcript storage under dataDir.
func NewTranscriptStorage(dataDir string) (*TranscriptStorage, error) {
	transcriptsDir := filepath.Join(dataDir, "transcripts")

	// 0700, transcripts hold conversation history
	if err := os.MkdirAll(transcriptsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create transcripts directory: %w", err)
	}

	return &TranscriptStorage{transcriptsDir: transcriptsDir}, nil
}

// Save writes a transcript to disk.
func (s *TranscriptStorage) Save(t *SavedTranscript) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	t.UpdatedAt = time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}

	path := filepath.Join(s.transcriptsDir, t.ID+".json")

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write transcript file: %w", err)
	}

	return nil
}

// Load reads a transcript from disk.
func (s *TranscriptStorage) Load(id string) (*SavedTranscript, error) {
	path := filepath.Join(s.transcriptsDir, id+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript file: %w", err)
	}

	var t SavedTranscript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}

	return &t, nil
}

// List returns metadata for all transcripts, newest first.
func (s *TranscriptStorage) List() ([]TranscriptMetadata, error) {
	entries, err := os.ReadDir(s.transcriptsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcripts directory: %w", err)
	}

	var out []TranscriptMetadata
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.transcriptsDir, entry.Name()))
		if err != nil {
			continue // skip corrupted files
		}

		var t SavedTranscript
		if err := json.Unmarshal(data, &t); err != nil {
			continue
		}

		out = append(out, TranscriptMetadata{
			ID:        t.ID,
			Name:      t.Name,
			Model:     t.Model,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
			TurnCount: len(t.Turns),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	return out, nil
}

// Delete removes a transcript from disk.
func (s *TranscriptStorage) Delete(id string) error {
	if err := os.Remove(filepath.Join(s.transcriptsDir, id+".json")); err != nil {
		return fmt.Errorf("failed to delete transcript file: %w", err)
	}
	return nil
}

// SaveCurrentID records which transcript was last active.
func (s *TranscriptStorage) SaveCurrentID(id string) error {
	path := filepath.Join(filepath.Dir(s.transcriptsDir), "current_transcript.id")
	return os.WriteFile(path, []byte(id), 0600)
}

// LoadCurrentID returns the last active transcript ID.
func (s *TranscriptStorage) LoadCurrentID() (string, error) {
	path := filepath.Join(filepath.Dir(s.transcriptsDir), "current_transcript.id")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// GenerateTranscriptName derives a display name from the first user message.
func GenerateTranscriptName(firstMessage string) string {
	if firstMessage == "" {
		return fmt.Sprintf("Session %s", time.Now().Format("Jan 2, 3:04 PM"))
	}

	name := firstMessage
	if len(name) > 30 {
		name = name[:30] + "..."
	}

	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Sprintf("Session %s", time.Now().Format("Jan 2, 3:04 PM"))
	}

	return name
}
