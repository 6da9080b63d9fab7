package core

import "context"

type (
	// Course is a single catalog entry. The image is stored inline as a
	// data URL so the list is self-contained in every backend.
	Course struct {
		ID          int    `json:"id"`
		Title       string `json:"title"`
		Author      string `json:"author"`
		Description string `json:"description"`
		Image       string `json:"image,omitempty"`
	}

	// CourseFields carries the form values for a course that has not been
	// assigned an ID yet.
	CourseFields struct {
		Title       string `json:"title"`
		Author      string `json:"author"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}

	// CatalogStore defines the persistence layer for the course list.
	// The whole list is serialized as one JSON value under a fixed key;
	// every Save is a full replace of the prior contents.
	CatalogStore interface {
		// Load reads the persisted list. A backend with no stored value
		// returns (nil, nil). A stored value that cannot be decoded
		// returns an error wrapping ErrCorruptState.
		Load(ctx context.Context) ([]Course, error)

		// Save overwrites the persisted list with the given one.
		Save(ctx context.Context, courses []Course) error
	}

	// ExportStore defines the persistence layer for anonymous catalog
	// exports, immutable JSON documents retrievable by ID.
	ExportStore interface {
		SaveExport(ctx context.Context, data []byte) (string, error)
		FindExport(ctx context.Context, id string) ([]byte, error)
	}
)

// WithID returns the fields as a Course with the given ID.
func (f CourseFields) WithID(id int) Course {
	return Course{
		ID:          id,
		Title:       f.Title,
		Author:      f.Author,
		Description: f.Description,
		Image:       f.Image,
	}
}
