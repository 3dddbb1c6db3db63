// Package backup stores versioned snapshots of instance input and output
// file pairs, one subdirectory per version, with a metadata index.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const metadataFile = "metadata.json"

// Info describes one stored backup version.
type Info struct {
	Version     string    `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	InputFile   string    `json:"input_file"`
	OutputFile  string    `json:"output_file,omitempty"`
	InputSize   int64     `json:"input_size"`
	OutputSize  int64     `json:"output_size,omitempty"`
}

type Manager struct {
	dir string
}

func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Create snapshots the input file and, when present, the output file into a
// fresh version directory. The version id starts with the current timestamp,
// so ids sort chronologically; the uuid suffix keeps same-second versions
// distinct.
func (manager *Manager) Create(inputFile, outputFile, description string) (string, error) {
	now := time.Now()
	version := fmt.Sprintf("%v_%v", now.Format("20060102_150405"), uuid.NewString()[:8])
	versionDir := filepath.Join(manager.dir, version)
	if err := os.MkdirAll(versionDir, 0755); err != nil {
		return "", fmt.Errorf("cannot create backup directory: %v", err)
	}

	inputSize, err := copyFile(inputFile, filepath.Join(versionDir, "input.json"))
	if err != nil {
		return "", fmt.Errorf("cannot back up input: %v", err)
	}

	info := Info{
		Version:     version,
		Timestamp:   now,
		Description: description,
		InputFile:   inputFile,
		InputSize:   inputSize,
	}
	if description == "" {
		info.Description = fmt.Sprintf("backup created on %v", now.Format("2006-01-02 15:04:05"))
	}

	// The output file is optional; a failed run has none
	if _, err := os.Stat(outputFile); err == nil {
		outputSize, err := copyFile(outputFile, filepath.Join(versionDir, "output.json"))
		if err != nil {
			return "", fmt.Errorf("cannot back up output: %v", err)
		}
		info.OutputFile = outputFile
		info.OutputSize = outputSize
	}

	bytes, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(versionDir, metadataFile), bytes, 0666); err != nil {
		return "", err
	}
	return version, nil
}

// List returns the stored versions, newest first. Directories without
// readable metadata are skipped.
func (manager *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(manager.dir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, err
	}

	backups := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		bytes, err := os.ReadFile(filepath.Join(manager.dir, entry.Name(), metadataFile))
		if err != nil {
			continue
		}
		var info Info
		if err := json.Unmarshal(bytes, &info); err != nil {
			continue
		}
		backups = append(backups, info)
	}

	slices.SortFunc(backups, func(a, b Info) int {
		return strings.Compare(b.Version, a.Version)
	})
	return backups, nil
}

// Restore copies a version's files into targetDir as restored_input.json and
// restored_output.json.
func (manager *Manager) Restore(version, targetDir string) error {
	versionDir := filepath.Join(manager.dir, version)
	if _, err := os.Stat(filepath.Join(versionDir, metadataFile)); err != nil {
		return fmt.Errorf("backup %v not found", version)
	}
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return err
	}

	if _, err := copyFile(filepath.Join(versionDir, "input.json"), filepath.Join(targetDir, "restored_input.json")); err != nil {
		return fmt.Errorf("cannot restore input: %v", err)
	}
	if _, err := os.Stat(filepath.Join(versionDir, "output.json")); err == nil {
		if _, err := copyFile(filepath.Join(versionDir, "output.json"), filepath.Join(targetDir, "restored_output.json")); err != nil {
			return fmt.Errorf("cannot restore output: %v", err)
		}
	}
	return nil
}

func (manager *Manager) Delete(version string) error {
	versionDir := filepath.Join(manager.dir, version)
	if _, err := os.Stat(versionDir); err != nil {
		return fmt.Errorf("backup %v not found", version)
	}
	return os.RemoveAll(versionDir)
}

// Cleanup removes all but the newest keep versions and reports how many were
// deleted.
func (manager *Manager) Cleanup(keep int) (int, error) {
	backups, err := manager.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	removed := 0
	for _, backup := range backups[keep:] {
		if err := manager.Delete(backup.Version); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// WriteSummary writes a JSON index of every stored version.
func (manager *Manager) WriteSummary(file string) error {
	backups, err := manager.List()
	if err != nil {
		return err
	}

	summary := struct {
		BackupDirectory string `json:"backup_directory"`
		TotalBackups    int    `json:"total_backups"`
		GeneratedAt     string `json:"generated_at"`
		Backups         []Info `json:"backups"`
	}{
		BackupDirectory: manager.dir,
		TotalBackups:    len(backups),
		GeneratedAt:     time.Now().Format(time.RFC3339),
		Backups:         backups,
	}

	bytes, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, bytes, 0666)
}

func copyFile(source, target string) (int64, error) {
	bytes, err := os.ReadFile(source)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(target, bytes, 0666); err != nil {
		return 0, err
	}
	return int64(len(bytes)), nil
}
