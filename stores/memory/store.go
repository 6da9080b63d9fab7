package memory

import (
	"context"
	"courseboard/core"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// memStore implements both CatalogStore and ExportStore in memory. It keeps
// the catalog as its serialized JSON form so Load/Save behave exactly like
// the durable backends, corrupt-state detection included.
type memStore struct {
	mu      sync.RWMutex
	catalog []byte
	exports map[string][]byte
}

// NewStore creates a new in-memory store.
func NewStore() *memStore {
	return &memStore{
		exports: make(map[string][]byte),
	}
}

// Load reads the catalog list. Part of the CatalogStore interface.
func (s *memStore) Load(ctx context.Context) ([]core.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.catalog == nil {
		return nil, nil
	}

	var courses []core.Course
	if err := json.Unmarshal(s.catalog, &courses); err != nil {
		logrus.WithError(err).Warn("Stored course list is not valid JSON")
		return nil, fmt.Errorf("%w: %v", core.ErrCorruptState, err)
	}
	logrus.WithField("courses", len(courses)).Debug("Course list loaded")
	return courses, nil
}

// Save overwrites the catalog list. Part of the CatalogStore interface.
func (s *memStore) Save(ctx context.Context, courses []core.Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("failed to marshal course list: %w", err)
	}

	s.mu.Lock()
	s.catalog = data
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"courses":     len(courses),
		"data_length": len(data),
	}).Debug("Course list saved")
	return nil
}

// SaveExport stores a new export document. Part of the ExportStore interface.
func (s *memStore) SaveExport(ctx context.Context, data []byte) (string, error) {
	id := ulid.Make().String()

	s.mu.Lock()
	s.exports[id] = data
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"export_id":   id,
		"data_length": len(data),
	}).Info("Export created successfully")
	return id, nil
}

// FindExport retrieves an export document by its ID. Part of the ExportStore
// interface.
func (s *memStore) FindExport(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := logrus.WithField("export_id", id)
	if data, ok := s.exports[id]; ok {
		log.Info("Export retrieved successfully")
		return data, nil
	}
	log.Warn("Export with specified ID not found")
	return nil, fmt.Errorf("%w: %s", core.ErrExportNotFound, id)
}
