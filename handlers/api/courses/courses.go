package courses

import (
	"courseboard/catalog"
	"courseboard/core"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// validate returns the ValidationError for a create payload, or nil. Every
// form field is required, the cover image included.
func validate(fields core.CourseFields) *core.ValidationError {
	var missing []string
	if strings.TrimSpace(fields.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(fields.Author) == "" {
		missing = append(missing, "author")
	}
	if strings.TrimSpace(fields.Description) == "" {
		missing = append(missing, "description")
	}
	if fields.Image == "" {
		missing = append(missing, "image")
	}
	if len(missing) == 0 {
		return nil
	}
	return &core.ValidationError{Missing: missing}
}

// HandleList returns the current course list snapshot.
func HandleList(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := cat.Snapshot()
		// Return an empty array instead of null when there are no courses.
		if snapshot == nil {
			snapshot = []core.Course{}
		}
		render.JSON(w, r, snapshot)
	}
}

// HandleCreate validates the submitted fields and adds the course. The
// response carries the fresh snapshot so the submitting view can re-render
// without a second request.
func HandleCreate(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields core.CourseFields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			logrus.WithError(err).Error("Failed to decode create request")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		if verr := validate(fields); verr != nil {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, map[string]any{
				"error":   verr.Error(),
				"missing": verr.Missing,
			})
			return
		}

		snapshot, err := cat.Add(r.Context(), fields)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error": err,
				"title": fields.Title,
			}).Error("Failed to add course")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to save course"})
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, snapshot)
	}
}

// HandleDelete removes the course with the given id.
func HandleDelete(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Course id must be an integer"})
			return
		}

		if err := cat.Delete(r.Context(), id); err != nil {
			logrus.WithFields(logrus.Fields{
				"error":     err,
				"course_id": id,
			}).Error("Failed to delete course")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to delete course"})
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleCreateExport saves the current snapshot as an anonymous document and
// returns its id.
func HandleCreateExport(cat *catalog.Catalog, store core.ExportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(cat.Snapshot())
		if err != nil {
			logrus.WithError(err).Error("Failed to marshal snapshot for export")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to create export"})
			return
		}

		id, err := store.SaveExport(r.Context(), data)
		if err != nil {
			logrus.WithError(err).Error("Failed to create export")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to create export"})
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]string{"id": id})
	}
}

// HandleGetExport serves a previously created export document verbatim.
func HandleGetExport(store core.ExportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Export id is required"})
			return
		}

		data, err := store.FindExport(r.Context(), id)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":     err,
				"export_id": id,
			}).Warn("Failed to get export")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Export not found"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}
