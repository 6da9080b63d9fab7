package sqlite

import (
	"context"
	"courseboard/core"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// catalogKey is the fixed key the course list is persisted under.
const catalogKey = "courses"

type sqliteStore struct {
	db *sql.DB
}

// NewStore creates a new SQLite-based store.
func NewStore(dataSourceName string) *sqliteStore {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}

	// The catalog lives in a single row keyed by catalogKey; every save
	// replaces the whole serialized list.
	catalogTableStmt := `CREATE TABLE IF NOT EXISTS catalog (key TEXT PRIMARY KEY, data BLOB);`
	if _, err = db.Exec(catalogTableStmt); err != nil {
		log.Fatalf("failed to create catalog table: %v", err)
	}

	exportTableStmt := `CREATE TABLE IF NOT EXISTS exports (id TEXT PRIMARY KEY, data BLOB);`
	if _, err = db.Exec(exportTableStmt); err != nil {
		log.Fatalf("failed to create exports table: %v", err)
	}

	return &sqliteStore{db}
}

// CatalogStore implementation

func (s *sqliteStore) Load(ctx context.Context) ([]core.Course, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM catalog WHERE key = ?", catalogKey).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			logrus.Debug("No persisted course list, starting empty")
			return nil, nil
		}
		logrus.WithError(err).Error("Failed to read course list")
		return nil, err
	}

	var courses []core.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		logrus.WithError(err).Warn("Persisted course list is not valid JSON")
		return nil, fmt.Errorf("%w: %v", core.ErrCorruptState, err)
	}
	logrus.WithField("courses", len(courses)).Info("Course list loaded")
	return courses, nil
}

func (s *sqliteStore) Save(ctx context.Context, courses []core.Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("failed to marshal course list: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO catalog (key, data) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET data = excluded.data",
		catalogKey, data)
	if err != nil {
		logrus.WithError(err).Error("Failed to write course list")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"courses":     len(courses),
		"data_length": len(data),
	}).Info("Course list saved")
	return nil
}

// ExportStore implementation

func (s *sqliteStore) SaveExport(ctx context.Context, data []byte) (string, error) {
	id := ulid.Make().String()
	log := logrus.WithFields(logrus.Fields{
		"export_id":   id,
		"data_length": len(data),
	})

	_, err := s.db.ExecContext(ctx, "INSERT INTO exports (id, data) VALUES (?, ?)", id, data)
	if err != nil {
		log.WithError(err).Error("Failed to create export")
		return "", err
	}
	log.Info("Export created successfully")
	return id, nil
}

func (s *sqliteStore) FindExport(ctx context.Context, id string) ([]byte, error) {
	log := logrus.WithField("export_id", id)
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM exports WHERE id = ?", id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Warn("Export with specified ID not found")
			return nil, fmt.Errorf("%w: %s", core.ErrExportNotFound, id)
		}
		log.WithError(err).Error("Failed to retrieve export")
		return nil, err
	}
	log.Info("Export retrieved successfully")
	return data, nil
}
