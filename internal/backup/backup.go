package backup

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kelsos/todos/internal/logger"
	"github.com/kelsos/todos/internal/storage"
)

// GetDefaultBackupDir returns the default backup directory
func GetDefaultBackupDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, "backups"), nil
}

// CreateBackup zips a snapshot of the development store database of dataDir into backupDir.
// The store may be serving while the backup is taken.
func CreateBackup(ctx context.Context, dataDir, backupDir string) (string, error) {
	if dataDir == "" {
		var err error
		dataDir, err = storage.GetDefaultDataDir()
		if err != nil {
			return "", fmt.Errorf("failed to get default data directory: %w", err)
		}
	}

	if _, err := os.Stat(filepath.Join(dataDir, storage.DatabaseFile)); err != nil {
		return "", fmt.Errorf("no todos database in %s: %w", dataDir, err)
	}

	if backupDir == "" {
		var err error
		backupDir, err = GetDefaultBackupDir()
		if err != nil {
			return "", fmt.Errorf("failed to get default backup directory: %w", err)
		}
	}
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	snapshotDir, err := os.MkdirTemp(backupDir, ".todos_snapshot_")
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	defer os.RemoveAll(snapshotDir)

	snapshot := filepath.Join(snapshotDir, storage.DatabaseFile)
	if err := snapshotDatabase(ctx, dataDir, snapshot); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	backupFile := filepath.Join(backupDir, fmt.Sprintf("todos_backup_%s.zip", timestamp))

	if err := writeZip(backupFile, snapshot); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	logger.Info("Backup created successfully: %s", backupFile)
	return backupFile, nil
}

func snapshotDatabase(ctx context.Context, dataDir, path string) error {
	store, err := storage.Open(ctx, dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.SnapshotTo(ctx, path)
}

// writeZip archives files into backupFile. Nothing is left behind on failure.
func writeZip(backupFile string, files ...string) (err error) {
	zipFile, err := os.Create(backupFile)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		zipFile.Close()
		if rmErr := os.Remove(backupFile); rmErr != nil {
			logger.Warn("Failed to remove incomplete backup %s: %v", backupFile, rmErr)
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	for _, path := range files {
		if err := addToZip(zipWriter, path); err != nil {
			return err
		}
	}

	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish backup: %w", err)
	}
	return zipFile.Close()
}

func addToZip(zipWriter *zip.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create file in zip: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(writer, file); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	logger.Debug("Added file to backup: %s", header.Name)
	return nil
}
