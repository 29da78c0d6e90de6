package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/itam/backend/internal/domain/shared"
)

// sqliteHeader is the 16-byte magic every SQLite database file starts with
var sqliteHeader = []byte("SQLite format 3\x00")

const snapshotSuffix = "-inventory.db"

// timestampLayout orders snapshot filenames lexicographically by creation time
const timestampLayout = "20060102-150405"

// Snapshot describes one backup file on disk
type Snapshot struct {
	Name      string    `json:"name"`
	Path      string    `json:"-"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager snapshots and restores the SQLite database file. All operations
// serialize on an internal mutex so a restore never races a backup.
type Manager struct {
	mu        sync.Mutex
	db        *gorm.DB
	dbPath    string
	dir       string
	retention int
	logger    *zap.Logger
}

// NewManager creates a backup manager for the database at dbPath, writing
// snapshots into dir. When db is non-nil, snapshots are taken through the
// live connection with VACUUM INTO, which excludes in-flight write
// transactions; a nil db falls back to a raw file copy.
func NewManager(db *gorm.DB, dbPath, dir string, retention int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		db:        db,
		dbPath:    dbPath,
		dir:       dir,
		retention: retention,
		logger:    logger.Named("backup"),
	}
}

// Backup copies the live database into a new timestamped snapshot and
// returns its metadata
func (m *Manager) Backup() (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := time.Now().Format(timestampLayout) + snapshotSuffix
	dest := filepath.Join(m.dir, name)
	if m.db != nil {
		// VACUUM INTO writes a transactionally consistent snapshot even
		// while other connections hold open write transactions
		if err := m.db.Exec("VACUUM INTO ?", dest).Error; err != nil {
			os.Remove(dest)
			return nil, fmt.Errorf("failed to write snapshot: %w", err)
		}
	} else {
		if err := validateSQLiteFile(m.dbPath); err != nil {
			return nil, err
		}
		if err := copyFile(m.dbPath, dest); err != nil {
			os.Remove(dest)
			return nil, fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	info, err := os.Stat(dest)
	if err != nil {
		return nil, err
	}

	m.logger.Info("Backup created",
		zap.String("snapshot", name),
		zap.Int64("size", info.Size()),
	)

	if m.retention > 0 {
		if err := m.pruneLocked(); err != nil {
			m.logger.Warn("Failed to prune old snapshots", zap.Error(err))
		}
	}

	return &Snapshot{
		Name:      name,
		Path:      dest,
		Size:      info.Size(),
		CreatedAt: info.ModTime(),
	}, nil
}

// Restore replaces the live database with the named snapshot. A safety
// copy of the current database is written next to it first, so a failed
// or mistaken restore can itself be undone.
func (m *Manager) Restore(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !validSnapshotName(name) {
		return shared.NewDomainError("INVALID_BACKUP", "Invalid snapshot name")
	}

	source := filepath.Join(m.dir, name)
	if _, err := os.Stat(source); err != nil {
		if os.IsNotExist(err) {
			return shared.ErrNotFound
		}
		return err
	}
	if err := validateSQLiteFile(source); err != nil {
		return err
	}

	// Safety copy of the current database before overwriting it
	if _, err := os.Stat(m.dbPath); err == nil {
		safety := m.dbPath + ".pre-restore-" + time.Now().Format(timestampLayout)
		if err := copyFile(m.dbPath, safety); err != nil {
			return fmt.Errorf("failed to write pre-restore copy: %w", err)
		}
		m.logger.Info("Pre-restore copy written", zap.String("path", safety))
	}

	if err := replaceFile(source, m.dbPath); err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}

	m.logger.Info("Database restored", zap.String("snapshot", name))
	return nil
}

// List returns available snapshots, newest first
func (m *Manager) List() ([]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked()
}

// Delete removes a snapshot
func (m *Manager) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !validSnapshotName(name) {
		return shared.NewDomainError("INVALID_BACKUP", "Invalid snapshot name")
	}
	path := filepath.Join(m.dir, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return shared.ErrNotFound
		}
		return err
	}
	m.logger.Info("Snapshot deleted", zap.String("snapshot", name))
	return nil
}

func (m *Manager) listLocked() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Snapshot{}, nil
		}
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !validSnapshotName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, Snapshot{
			Name:      entry.Name(),
			Path:      filepath.Join(m.dir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Name > snapshots[j].Name
	})
	return snapshots, nil
}

func (m *Manager) pruneLocked() error {
	snapshots, err := m.listLocked()
	if err != nil {
		return err
	}
	for i := m.retention; i < len(snapshots); i++ {
		if err := os.Remove(snapshots[i].Path); err != nil {
			return err
		}
		m.logger.Info("Pruned old snapshot", zap.String("snapshot", snapshots[i].Name))
	}
	return nil
}

// validSnapshotName accepts only names the manager itself generates,
// which also blocks path traversal through user-supplied names
func validSnapshotName(name string) bool {
	if !strings.HasSuffix(name, snapshotSuffix) {
		return false
	}
	stamp := strings.TrimSuffix(name, snapshotSuffix)
	_, err := time.Parse(timestampLayout, stamp)
	return err == nil
}

// validateSQLiteFile checks the file starts with the SQLite magic header
func validateSQLiteFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return shared.NewDomainError("INVALID_BACKUP", "Database file does not exist")
		}
		return err
	}
	defer f.Close()

	header := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, header); err != nil {
		return shared.NewDomainError("INVALID_BACKUP", "File is not a SQLite database")
	}
	for i := range sqliteHeader {
		if header[i] != sqliteHeader[i] {
			return shared.NewDomainError("INVALID_BACKUP", "File is not a SQLite database")
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// replaceFile copies src over dst without ever leaving dst partial: the
// data lands in a temporary file beside dst and is renamed into place
// only once fully written and synced
func replaceFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".restore-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
