package featured

import (
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

var featuredURL string

var client = &http.Client{Timeout: 10 * time.Second}

func Init() {
	featuredURL = os.Getenv("FEATURED_URL")
	if featuredURL == "" {
		log.Println("WARNING: FEATURED_URL environment variable not set. Featured listing will not work.")
	}
}

// HandleFeatured proxies the external JSON listing shown on the home page.
// The upstream body is passed through untouched so the frontend never talks
// to the external host directly.
func HandleFeatured() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if featuredURL == "" {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]string{"error": "Featured listing is not configured"})
			return
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, featuredURL, nil)
		if err != nil {
			logrus.WithError(err).Error("Failed to build featured request")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to fetch featured listing"})
			return
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			logrus.WithError(err).Warn("Featured listing fetch failed")
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, map[string]string{"error": "Failed to fetch featured listing"})
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			logrus.WithField("status", resp.StatusCode).Warn("Featured listing upstream error")
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, map[string]string{"error": "Featured listing upstream error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := io.Copy(w, resp.Body); err != nil {
			logrus.WithError(err).Warn("Failed to stream featured listing")
		}
	}
}
