package courses

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// maxImageBytes caps uploaded cover images. Images are stored inline in the
// course list, so an oversized upload would bloat every snapshot.
const maxImageBytes = 2 << 20

// EncodeDataURL encodes raw file bytes as a data URL, sniffing the media
// type from the content.
func EncodeDataURL(data []byte) string {
	contentType := http.DetectContentType(data)
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// HandleUploadImage converts an uploaded cover file into a data URL string
// for the admin form to attach to its pending course.
func HandleUploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			logrus.WithError(err).Warn("Failed to parse image upload")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid multipart form"})
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "An image file is required"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
		if err != nil {
			logrus.WithError(err).Error("Failed to read uploaded image")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to read image"})
			return
		}
		if len(data) > maxImageBytes {
			render.Status(r, http.StatusRequestEntityTooLarge)
			render.JSON(w, r, map[string]string{"error": "Image is too large"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"filename":    header.Filename,
			"data_length": len(data),
		}).Info("Cover image encoded")

		render.JSON(w, r, map[string]string{"image": EncodeDataURL(data)})
	}
}
