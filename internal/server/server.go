// Package server is the HTTP surface over the conversion pipeline and the
// email checklist. Handlers parse and validate transport-level input and
// hand plain values to the core; they own serialization, not behavior.
package server

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"github.com/docparse/convertd/internal/common"
	"github.com/docparse/convertd/internal/emailcheck"
	"github.com/docparse/convertd/internal/pipeline"
)

const (
	serviceName    = "convertd"
	serviceVersion = "1.0.0"
)

// Server wires configuration and the two capabilities into handlers.
type Server struct {
	cfg       *common.Config
	converter *pipeline.Converter
	emails    *emailcheck.Validator
	log       *slog.Logger
}

func New(cfg *common.Config, converter *pipeline.Converter, emails *emailcheck.Validator, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{cfg: cfg, converter: converter, emails: emails, log: log}
}

// Handler builds the route table with recovery, request logging, and CORS
// applied outermost-first.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /validate-email", s.handleValidateEmail)
	mux.HandleFunc("POST /validate-email-simple", s.handleValidateEmailSimple)
	mux.HandleFunc("POST /convert-pdf", s.handleConvertPDF)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	var h http.Handler = mux
	h = c.Handler(h)
	h = requestLog(s.log)(h)
	h = recovery(s.log)(h)
	return h
}
