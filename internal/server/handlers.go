package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/docparse/convertd/constants"
	"github.com/docparse/convertd/internal/export"
	"github.com/docparse/convertd/internal/extract"
	"github.com/docparse/convertd/internal/pipeline"
)

type emailRequest struct {
	Email string `json:"email"`
}

// handleValidateEmail runs the full checklist.
// POST /validate-email
func (s *Server) handleValidateEmail(w http.ResponseWriter, r *http.Request) {
	email, ok := s.decodeEmail(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.emails.Check(r.Context(), email))
}

// handleValidateEmailSimple checks format only.
// POST /validate-email-simple
func (s *Server) handleValidateEmailSimple(w http.ResponseWriter, r *http.Request) {
	email, ok := s.decodeEmail(w, r)
	if !ok {
		return
	}
	valid := s.emails.ValidateFormat(email)
	message := "Invalid email format"
	if valid {
		message = "Valid email format"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"email":   email,
		"valid":   valid,
		"message": message,
	})
}

func (s *Server) decodeEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Email is required",
			"valid": false,
		})
		return "", false
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Email cannot be empty",
			"valid": false,
		})
		return "", false
	}
	return email, true
}

type convertResponse struct {
	Strategy string         `json:"strategy_used"`
	RowCount int            `json:"row_count"`
	Pages    int            `json:"pages,omitempty"`
	Columns  []string       `json:"columns"`
	Rows     []pipeline.Row `json:"rows"`
}

// handleConvertPDF accepts a multipart upload and runs the fallback chain.
// POST /convert-pdf?method=auto&format=json
func (s *Server) handleConvertPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if _, ok := constants.AllowedExtensions[constants.NormalizeExt(filepath.Ext(header.Filename))]; !ok {
		respondError(w, http.StatusBadRequest, "only PDF uploads are supported")
		return
	}

	method := r.FormValue("method")
	if method == "" {
		method = constants.MethodAuto
	}
	format := r.FormValue("format")
	if format == "" {
		format = constants.FormatJSON
	}
	if err := validation.Validate(format,
		validation.In(constants.FormatJSON, constants.FormatCSV, constants.FormatXLSX)); err != nil {
		respondError(w, http.StatusBadRequest, "format must be one of: json, csv, xlsx")
		return
	}

	doc, err := extract.NewDocument(header.Filename, file)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.converter.Convert(r.Context(), doc, method)
	if err != nil {
		var invalid *pipeline.InvalidStrategyError
		var failed *pipeline.AllStrategiesFailedError
		switch {
		case errors.As(err, &invalid):
			respondError(w, http.StatusBadRequest, invalid.Error())
		case errors.As(err, &failed):
			respondError(w, http.StatusUnprocessableEntity, failed.Error())
		default:
			s.log.Error("convert.unexpected", "doc", header.Filename, "error", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	base := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	switch format {
	case constants.FormatCSV:
		data, err := export.CSV(res)
		if err != nil {
			s.log.Error("export.csv.failed", "doc", header.Filename, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to render csv")
			return
		}
		respondAttachment(w, "text/csv", base+".csv", data)
	case constants.FormatXLSX:
		data, err := export.XLSX(res)
		if err != nil {
			s.log.Error("export.xlsx.failed", "doc", header.Filename, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to render xlsx")
			return
		}
		respondAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", base+".xlsx", data)
	default:
		respondJSON(w, http.StatusOK, convertResponse{
			Strategy: res.Strategy,
			RowCount: res.RowCount,
			Pages:    res.Pages,
			Columns:  res.Columns,
			Rows:     res.Rows,
		})
	}
}

// handleHealth is the liveness probe.
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// handleIndex documents the API surface.
// GET /
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"service": serviceName,
		"version": serviceVersion,
		"endpoints": map[string]string{
			"POST /validate-email":        "Comprehensive email validation",
			"POST /validate-email-simple": "Simple format validation",
			"POST /convert-pdf":           "Convert a PDF to tabular data (params: method, format)",
			"GET /health":                 "Health check",
			"GET /":                       "API documentation",
		},
		"methods": append([]string{constants.MethodAuto}, constants.DefaultStrategyOrder...),
		"formats": constants.OutputFormats,
	})
}
