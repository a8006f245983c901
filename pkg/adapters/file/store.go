package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
)

// ErrInvalidProfile is returned for empty profile names or names that would escape the base directory.
var ErrInvalidProfile = errors.New("invalid profile name")

// Store implements ports.ProgressStore using the local filesystem.
// Each profile is one JSON file in BasePath.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".stepwise/progress".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".stepwise", "progress")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(profile string) (string, error) {
	if profile == "" || strings.ContainsAny(profile, `/\`) || profile == "." || profile == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidProfile, profile)
	}
	return filepath.Join(s.BasePath, profile+".json"), nil
}

// Save persists the record atomically: it writes a temp file in the same
// directory, fsyncs it and renames it over the destination.
func (s *Store) Save(ctx context.Context, profile string, progress *domain.Progress) error {
	destPath, err := s.path(profile)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure progress directory: %w", err)
	}

	data, err := json.MarshalIndent(progress, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+profile+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename does not replace an existing file on Windows.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing progress file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to progress file: %w", err)
	}
	return nil
}

// Load reads the record and rehydrates the ID sets.
func (s *Store) Load(ctx context.Context, profile string) (*domain.Progress, error) {
	filePath, err := s.path(profile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	progress := domain.NewProgress()
	if err := json.Unmarshal(data, progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	progress.Normalize()
	return progress, nil
}

// Delete removes the profile file.
func (s *Store) Delete(ctx context.Context, profile string) error {
	filePath, err := s.path(profile)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete progress file: %w", err)
	}
	return nil
}

// List returns the profiles found in BasePath.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list progress files: %w", err)
	}

	var profiles []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		profiles = append(profiles, strings.TrimSuffix(name, ".json"))
	}
	return profiles, nil
}
