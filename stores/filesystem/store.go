package filesystem

import (
	"context"
	"courseboard/core"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// catalogFile is the fixed key the course list is persisted under.
const catalogFile = "courses.json"

const exportsDir = "exports"

type fsStore struct {
	basePath string
}

// NewStore creates a new filesystem-based store.
func NewStore(basePath string) *fsStore {
	if err := os.MkdirAll(filepath.Join(basePath, exportsDir), 0755); err != nil {
		log.Fatalf("failed to create base directory: %v", err)
	}
	return &fsStore{basePath: basePath}
}

// CatalogStore implementation

func (s *fsStore) Load(ctx context.Context) ([]core.Course, error) {
	filePath := filepath.Join(s.basePath, catalogFile)
	log := logrus.WithField("file_path", filePath)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("No persisted course list, starting empty")
			return nil, nil
		}
		log.WithError(err).Error("Failed to read course list")
		return nil, err
	}

	var courses []core.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		log.WithError(err).Warn("Persisted course list is not valid JSON")
		return nil, fmt.Errorf("%w: %v", core.ErrCorruptState, err)
	}

	log.WithField("courses", len(courses)).Info("Course list loaded")
	return courses, nil
}

func (s *fsStore) Save(ctx context.Context, courses []core.Course) error {
	filePath := filepath.Join(s.basePath, catalogFile)
	log := logrus.WithFields(logrus.Fields{
		"file_path": filePath,
		"courses":   len(courses),
	})

	data, err := json.Marshal(courses)
	if err != nil {
		log.WithError(err).Error("Failed to marshal course list")
		return err
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.WithError(err).Error("Failed to write course list")
		return err
	}

	log.Info("Course list saved")
	return nil
}

// ExportStore implementation

func (s *fsStore) exportPath(id string) (string, error) {
	// The id becomes a file name, so it must be a simple name, not a path.
	if id == "" || path.Base(id) != id {
		return "", fmt.Errorf("invalid export id")
	}
	return filepath.Join(s.basePath, exportsDir, id), nil
}

func (s *fsStore) SaveExport(ctx context.Context, data []byte) (string, error) {
	id := ulid.Make().String()
	filePath, err := s.exportPath(id)
	if err != nil {
		return "", err
	}
	log := logrus.WithFields(logrus.Fields{
		"export_id": id,
		"file_path": filePath,
	})

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.WithError(err).Error("Failed to create export")
		return "", err
	}

	log.Info("Export created successfully")
	return id, nil
}

func (s *fsStore) FindExport(ctx context.Context, id string) ([]byte, error) {
	filePath, err := s.exportPath(id)
	if err != nil {
		return nil, err
	}
	log := logrus.WithField("export_id", id)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Export with specified ID not found")
			return nil, fmt.Errorf("%w: %s", core.ErrExportNotFound, id)
		}
		log.WithError(err).Error("Failed to retrieve export")
		return nil, err
	}

	log.Info("Export retrieved successfully")
	return data, nil
}
