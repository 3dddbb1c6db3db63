package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const versionPattern = `^\d{8}_\d{6}_[0-9a-f]{8}$`

func writeSample(t *testing.T, dir, name, content string) string {
	file := filepath.Join(dir, name)
	assert.Nil(t, os.WriteFile(file, []byte(content), 0666))
	return file
}

func TestCreateAndList(t *testing.T) {
	//** Arrange
	workDir := t.TempDir()
	inputFile := writeSample(t, workDir, "input.json", `{"sessions": []}`)
	outputFile := writeSample(t, workDir, "output.json", `{"meta": {}}`)
	manager := NewManager(filepath.Join(workDir, "backups"))

	//** Act
	version, err := manager.Create(inputFile, outputFile, "before rerun")

	//** Assert
	assert.Nil(t, err)
	assert.Regexp(t, versionPattern, version)

	backups, err := manager.List()
	assert.Nil(t, err)
	assert.Len(t, backups, 1)
	assert.Equal(t, version, backups[0].Version)
	assert.Equal(t, "before rerun", backups[0].Description)
	assert.Equal(t, inputFile, backups[0].InputFile)
	assert.Equal(t, outputFile, backups[0].OutputFile)
	assert.Equal(t, int64(len(`{"sessions": []}`)), backups[0].InputSize)
}

func TestCreateWithoutOutput(t *testing.T) {
	workDir := t.TempDir()
	inputFile := writeSample(t, workDir, "input.json", `{}`)
	manager := NewManager(filepath.Join(workDir, "backups"))

	version, err := manager.Create(inputFile, filepath.Join(workDir, "missing.json"), "")

	assert.Nil(t, err)

	backups, err := manager.List()
	assert.Nil(t, err)
	assert.Len(t, backups, 1)
	assert.Empty(t, backups[0].OutputFile)
	assert.NotEmpty(t, backups[0].Description) // default description kicks in

	_, err = os.Stat(filepath.Join(workDir, "backups", version, "output.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestCreateMissingInput(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "backups"))

	_, err := manager.Create("no_such_input.json", "no_such_output.json", "")

	assert.NotNil(t, err)
}

func TestListEmptyDirectory(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "backups"))

	backups, err := manager.List()

	assert.Nil(t, err)
	assert.Empty(t, backups)
}

func TestRestore(t *testing.T) {
	workDir := t.TempDir()
	inputFile := writeSample(t, workDir, "input.json", `{"sessions": []}`)
	outputFile := writeSample(t, workDir, "output.json", `{"meta": {}}`)
	manager := NewManager(filepath.Join(workDir, "backups"))
	version, err := manager.Create(inputFile, outputFile, "")
	assert.Nil(t, err)

	targetDir := filepath.Join(workDir, "restored")
	assert.Nil(t, manager.Restore(version, targetDir))

	restoredInput, err := os.ReadFile(filepath.Join(targetDir, "restored_input.json"))
	assert.Nil(t, err)
	assert.Equal(t, `{"sessions": []}`, string(restoredInput))

	restoredOutput, err := os.ReadFile(filepath.Join(targetDir, "restored_output.json"))
	assert.Nil(t, err)
	assert.Equal(t, `{"meta": {}}`, string(restoredOutput))
}

func TestRestoreUnknownVersion(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "backups"))

	err := manager.Restore("20250101_120000_deadbeef", ".")

	assert.NotNil(t, err)
}

func TestDelete(t *testing.T) {
	workDir := t.TempDir()
	inputFile := writeSample(t, workDir, "input.json", `{}`)
	manager := NewManager(filepath.Join(workDir, "backups"))
	version, err := manager.Create(inputFile, "", "")
	assert.Nil(t, err)

	assert.Nil(t, manager.Delete(version))

	backups, err := manager.List()
	assert.Nil(t, err)
	assert.Empty(t, backups)

	assert.NotNil(t, manager.Delete(version)) // already gone
}

func TestCleanup(t *testing.T) {
	workDir := t.TempDir()
	inputFile := writeSample(t, workDir, "input.json", `{}`)
	manager := NewManager(filepath.Join(workDir, "backups"))
	for i := 0; i < 3; i++ {
		_, err := manager.Create(inputFile, "", "")
		assert.Nil(t, err)
	}

	removed, err := manager.Cleanup(1)

	assert.Nil(t, err)
	assert.Equal(t, 2, removed)

	backups, err := manager.List()
	assert.Nil(t, err)
	assert.Len(t, backups, 1)
}

func TestCleanupNothingToRemove(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "backups"))

	removed, err := manager.Cleanup(10)

	assert.Nil(t, err)
	assert.Equal(t, 0, removed)
}

func TestWriteSummary(t *testing.T) {
	workDir := t.TempDir()
	inputFile := writeSample(t, workDir, "input.json", `{}`)
	manager := NewManager(filepath.Join(workDir, "backups"))
	_, err := manager.Create(inputFile, "", "first")
	assert.Nil(t, err)

	summaryFile := filepath.Join(workDir, "summary.json")
	assert.Nil(t, manager.WriteSummary(summaryFile))

	bytes, err := os.ReadFile(summaryFile)
	assert.Nil(t, err)

	var summary struct {
		TotalBackups int    `json:"total_backups"`
		Backups      []Info `json:"backups"`
	}
	assert.Nil(t, json.Unmarshal(bytes, &summary))
	assert.Equal(t, 1, summary.TotalBackups)
	assert.Len(t, summary.Backups, 1)
	assert.Equal(t, "first", summary.Backups[0].Description)
}
