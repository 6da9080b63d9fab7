package main

import (
	"context"
	"courseboard/catalog"
	"courseboard/handlers/api/courses"
	"courseboard/handlers/api/featured"
	"courseboard/handlers/websocket"
	adminMiddleware "courseboard/middleware"
	"courseboard/stores"
	"embed"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	socketio "github.com/zishang520/socket.io/v2/socket"
)

//go:embed all:frontend
var assets embed.FS

func handleUI() http.HandlerFunc {
	sub, err := fs.Sub(assets, "frontend")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(sub))

	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path != "" {
			if _, err := fs.Stat(sub, path); err == nil {
				fileServer.ServeHTTP(w, r)
				return
			}
			// A missing static asset is a genuine 404; anything without
			// an extension is a client-side route and gets the shell.
			if strings.Contains(path, ".") {
				http.NotFound(w, r)
				return
			}
		}

		index, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(index); err != nil {
			logrus.WithError(err).Warn("Failed to serve index.html")
		}
	}
}

func setupRouter(cat *catalog.Catalog, store stores.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "X-Admin-Token", "Origin", "Host", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courses.HandleList(cat))
			r.Post("/", courses.HandleCreate(cat))
			r.Post("/image", courses.HandleUploadImage())

			// Admin-mode routes
			r.Group(func(r chi.Router) {
				r.Use(adminMiddleware.AdminOnly)
				r.Delete("/{id}", courses.HandleDelete(cat))
				r.Post("/export", courses.HandleCreateExport(cat, store))
			})
		})

		r.Get("/exports/{id}", courses.HandleGetExport(store))
		r.Get("/featured", featured.HandleFeatured())
	})

	return r
}

func waitForShutdown(ioo *socketio.Server, feed *catalog.Subscription) {
	exit := make(chan struct{})
	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	feed.Cancel()
	ioo.Close(nil)
	logrus.Info("Shutting down...")
	os.Exit(0)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	listenAddress := flag.String("listen", ":3002", "The address to listen on.")
	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	featured.Init()
	store := stores.GetStore()

	cat, err := catalog.New(context.Background(), store)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load course catalog")
	}

	r := setupRouter(cat, store)

	ioo, feed := websocket.SetupSocketIO(cat)
	r.Mount("/socket.io/", ioo.ServeHandler(nil))
	r.NotFound(handleUI())

	logrus.WithField("addr", *listenAddress).Info("starting server")
	go func() {
		if err := http.ListenAndServe(*listenAddress, r); err != nil {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	logrus.Debug("Server is running in the background")
	waitForShutdown(ioo, feed)
}
