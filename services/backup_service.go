package services

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
)

// Backup tiers
const (
	BackupTierHourly  = "hourly"
	BackupTierDaily   = "daily"
	BackupTierWeekly  = "weekly"
	BackupTierMonthly = "monthly"
)

// Retained snapshots per tier; oldest pruned first
var backupRetention = map[string]int{
	BackupTierHourly:  12,
	BackupTierDaily:   14,
	BackupTierWeekly:  8,
	BackupTierMonthly: 6,
}

// Uncompressed snapshots older than this get gzipped in place
const compressAfter = 3 * 24 * time.Hour

// BackupInfo describes one snapshot on disk
type BackupInfo struct {
	Name       string    `json:"name"`
	Tier       string    `json:"tier"`
	SizeMB     float64   `json:"size_mb"`
	Compressed bool      `json:"compressed"`
	CreatedAt  time.Time `json:"created_at"`
}

// BackupStats summarizes all snapshots on disk
type BackupStats struct {
	TotalBackups int            `json:"total_backups"`
	TotalSizeMB  float64        `json:"total_size_mb"`
	ByTier       map[string]int `json:"by_tier"`
	OldestBackup string         `json:"oldest_backup,omitempty"`
	NewestBackup string         `json:"newest_backup,omitempty"`
	LastBackupAt string         `json:"last_backup_at,omitempty"`
}

// InterfaceBackupService defines the backup manager operations
type InterfaceBackupService interface {
	RunBackup(tier string) (*BackupInfo, error)
	BackupArchive(tier string) (*BackupInfo, error)
	ListBackups() ([]BackupInfo, error)
	GetStats() (*BackupStats, error)
	CompressOldBackups() (int, error)
	Prune() (int, error)
}

// BackupService snapshots the SQLite database and the file archive into
// tiered retention directories
type BackupService struct {
	DB   *gorm.DB
	root string
	// archive tree to tar up alongside database snapshots
	archiveRoot string
	ops         InterfaceOperationsService
}

// NewBackupService creates a new backup service
func NewBackupService(db *gorm.DB, cfg *config.Config, ops InterfaceOperationsService) (*BackupService, error) {
	for tier := range backupRetention {
		if err := os.MkdirAll(filepath.Join(cfg.BackupPath, tier), 0o755); err != nil {
			return nil, fmt.Errorf("create backup directory: %w", err)
		}
	}
	return &BackupService{
		DB:          db,
		root:        cfg.BackupPath,
		archiveRoot: cfg.ArchivePath,
		ops:         ops,
	}, nil
}

// RunBackup snapshots the live database into the given tier using
// VACUUM INTO, which produces a consistent copy without locking writers
func (s *BackupService) RunBackup(tier string) (*BackupInfo, error) {
	if _, ok := backupRetention[tier]; !ok {
		return nil, fmt.Errorf("unknown backup tier %q", tier)
	}

	name := fmt.Sprintf("flights_%s_%s.db", tier, time.Now().Format("20060102_150405"))
	target := filepath.Join(s.root, tier, name)

	if err := s.DB.Exec("VACUUM INTO ?", target).Error; err != nil {
		if s.ops != nil {
			s.ops.LogBackup("Database backup", "error", err.Error())
		}
		return nil, fmt.Errorf("vacuum into %s: %w", target, err)
	}

	info, err := describeBackup(target, tier)
	if err != nil {
		return nil, err
	}
	config.Info("Database backup created: %s (%.2f MB)", name, info.SizeMB)
	if s.ops != nil {
		s.ops.LogBackup("Database backup", "success",
			fmt.Sprintf("%s (%.2f MB)", name, info.SizeMB))
	}
	return info, nil
}

// BackupArchive tars the file archive tree into the given tier
func (s *BackupService) BackupArchive(tier string) (*BackupInfo, error) {
	if _, ok := backupRetention[tier]; !ok {
		return nil, fmt.Errorf("unknown backup tier %q", tier)
	}

	name := fmt.Sprintf("archive_%s_%s.tar.gz", tier, time.Now().Format("20060102_150405"))
	target := filepath.Join(s.root, tier, name)

	if err := tarDirectory(s.archiveRoot, target); err != nil {
		if s.ops != nil {
			s.ops.LogBackup("Archive backup", "error", err.Error())
		}
		return nil, fmt.Errorf("tar archive: %w", err)
	}

	info, err := describeBackup(target, tier)
	if err != nil {
		return nil, err
	}
	config.Info("Archive backup created: %s (%.2f MB)", name, info.SizeMB)
	if s.ops != nil {
		s.ops.LogBackup("Archive backup", "success",
			fmt.Sprintf("%s (%.2f MB)", name, info.SizeMB))
	}
	return info, nil
}

// ListBackups returns all snapshots across tiers, newest first
func (s *BackupService) ListBackups() ([]BackupInfo, error) {
	var backups []BackupInfo
	for tier := range backupRetention {
		entries, err := os.ReadDir(filepath.Join(s.root, tier))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := describeBackup(filepath.Join(s.root, tier, entry.Name()), tier)
			if err != nil {
				continue
			}
			backups = append(backups, *info)
		}
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// GetStats summarizes snapshots on disk
func (s *BackupService) GetStats() (*BackupStats, error) {
	backups, err := s.ListBackups()
	if err != nil {
		return nil, err
	}

	stats := &BackupStats{ByTier: make(map[string]int)}
	for _, b := range backups {
		stats.TotalBackups++
		stats.TotalSizeMB += b.SizeMB
		stats.ByTier[b.Tier]++
	}
	stats.TotalSizeMB = roundTo(stats.TotalSizeMB, 2)
	if len(backups) > 0 {
		stats.NewestBackup = backups[0].Name
		stats.OldestBackup = backups[len(backups)-1].Name
		stats.LastBackupAt = backups[0].CreatedAt.Format(time.RFC3339)
	}
	return stats, nil
}

// CompressOldBackups gzips uncompressed database snapshots older than
// three days and returns how many were compressed
func (s *BackupService) CompressOldBackups() (int, error) {
	cutoff := time.Now().Add(-compressAfter)
	compressed := 0

	for tier := range backupRetention {
		dir := filepath.Join(s.root, tier)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return compressed, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
				continue
			}
			fi, err := entry.Info()
			if err != nil || fi.ModTime().After(cutoff) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := gzipFile(path); err != nil {
				config.Warning("Failed to compress %s: %v", entry.Name(), err)
				continue
			}
			compressed++
		}
	}

	if compressed > 0 && s.ops != nil {
		s.ops.LogBackup("Compress old backups", "success",
			fmt.Sprintf("%d snapshots compressed", compressed))
	}
	return compressed, nil
}

// Prune enforces per-tier retention and returns how many snapshots
// were removed
func (s *BackupService) Prune() (int, error) {
	removed := 0
	for tier, keep := range backupRetention {
		dir := filepath.Join(s.root, tier)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, err
		}

		type aged struct {
			name string
			mod  time.Time
		}
		var files []aged
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			fi, err := entry.Info()
			if err != nil {
				continue
			}
			files = append(files, aged{entry.Name(), fi.ModTime()})
		}
		sort.Slice(files, func(i, j int) bool { return files[i].mod.After(files[j].mod) })

		for _, f := range files[minInt(keep, len(files)):] {
			if err := os.Remove(filepath.Join(dir, f.name)); err != nil {
				config.Warning("Failed to prune %s: %v", f.name, err)
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		config.Info("Pruned %d expired backups", removed)
		if s.ops != nil {
			s.ops.LogBackup("Prune backups", "success",
				fmt.Sprintf("%d snapshots removed", removed))
		}
	}
	return removed, nil
}

func describeBackup(path, tier string) (*BackupInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &BackupInfo{
		Name:       fi.Name(),
		Tier:       tier,
		SizeMB:     roundTo(float64(fi.Size())/(1024*1024), 2),
		Compressed: strings.HasSuffix(fi.Name(), ".gz"),
		CreatedAt:  fi.ModTime(),
	}, nil
}

func gzipFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer dst.Close()

	gw := gzip.NewWriter(dst)
	if _, err := io.Copy(gw, src); err != nil {
		return err
	}
	if err := gw.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}

func tarDirectory(root, target string) error {
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	tw := tar.NewWriter(gw)

	err = filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		header, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gw.Close()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
