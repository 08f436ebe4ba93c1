// Package config carries the process-level plumbing the three services
// share: env loading, instance identity, CORS, and logrus setup.
package config

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/gofrs/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/joho/godotenv"
)

var InstanceId string

// LoadEnv reads the service's .env file. A missing file is fatal: the
// services cannot run without POSTGRES_URL and the pix credentials.
func LoadEnv(service string) {
	if err := godotenv.Load("./.env"); err != nil {
		log.Fatalf("%s: loading .env file: %v", service, err)
	}
	log.Infof("%s environment loaded", service)
}

// CreateUniqueInstance mints the identifier that tags this process in logs
// and NATS subjects.
func CreateUniqueInstance(service string) string {
	id, err := uuid.NewV4()
	if err != nil {
		log.Errorf("error generating instance id: %s", err)
		os.Exit(1)
	}
	InstanceId = id.String()
	log.Infof("%s instance %s ready", service, id)
	return id.String()
}

func GetInstanceId() string {
	return InstanceId
}

func CORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{"https://granpix.com.br", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// Logging points logrus at logs/<service>.log. Failing to create the folder
// keeps logging on stderr rather than killing the service.
func Logging(service string) {
	logFolder := "logs"

	if _, err := os.Stat(logFolder); os.IsNotExist(err) {
		if err := os.Mkdir(logFolder, 0755); err != nil {
			log.Warnf("unable to create log folder: %s", err)
			return
		}
	}

	logFilePath := filepath.Join(logFolder, service+".log")
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFormatter(&log.TextFormatter{})
	log.SetLevel(log.InfoLevel)

	log.Infof("file logging started for %s", service)
}

// CustomLoggerMiddleware logs every request with its status and latency.
func CustomLoggerMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Printf("%s %s %s %d %s %s",
					r.Method,
					r.RequestURI,
					r.RemoteAddr,
					ww.Status(),
					http.StatusText(ww.Status()),
					time.Since(start),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
