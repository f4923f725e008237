package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/conventory/internal/core"
	"github.com/JonMunkholm/conventory/internal/web/templates"
)

// multipartOverhead is the room allowed for multipart boundaries and
// headers on top of IMPORT_MAX_FILE_SIZE.
const multipartOverhead = 1 << 20

var errNoFile = errors.New("no file provided")

// handleImport imports an uploaded CSV for the tenant in the URL. The file is
// the multipart field "file" or, for any other content type, the raw body.
//
// Row errors do not change the status: the result is returned with 200 and
// lists them. Aborted runs return their partial result with the error.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize+multipartOverhead)
	text, err := readImportFile(r)
	if errors.Is(err, errNoFile) {
		respondUserError(w, r, http.StatusBadRequest, core.UserMessage{
			Message: "No file was uploaded",
			Action:  "Choose a CSV file and try again",
			Code:    "IMP004",
		})
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	validateOnly, err := queryBool(r, "validate_only")
	if err != nil {
		respondUserError(w, r, http.StatusBadRequest, core.UserMessage{
			Message: "validate_only must be true or false",
			Action:  "Remove the parameter or set it to true",
			Code:    "IMP005",
		})
		return
	}

	result, err := s.service.Import(r.Context(), tenantID, text, core.ImportOptions{ValidateOnly: validateOnly})
	if err != nil {
		respondErrorStatus(w, r, err, statusFor(err), result)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.ImportReport(result).Render(r.Context(), w); err != nil {
			respondError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// readImportFile returns the uploaded CSV text.
func readImportFile(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return "", fmt.Errorf("read body: %w", err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return "", errNoFile
		}
		return string(data), nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return "", err
		}
		return "", errNoFile
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return "", errNoFile
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return string(data), nil
}

// handleExport streams the tenant's items as a CSV attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantParam(w, r)
	if !ok {
		return
	}

	text, err := s.service.Export(r.Context(), tenantID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("inventory_%s_%s.csv", tenantID, time.Now().Format("20060102"))
	writeCSV(w, filename, text)
}

// handleTemplate returns the import template.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	writeCSV(w, "inventory_import_template.csv", s.service.GenerateTemplate())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.service.ImportStatus(),
	})
}

func writeCSV(w http.ResponseWriter, filename, text string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, _ = io.WriteString(w, text)
}

// tenantParam parses the tenantID path parameter, writing a 400 when it is
// not a UUID.
func tenantParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		respondUserError(w, r, http.StatusBadRequest, core.UserMessage{
			Message: "Invalid tenant id",
			Action:  "Use the tenant's UUID in the URL",
			Code:    "REQ001",
		})
		return uuid.Nil, false
	}
	return id, true
}

// queryBool reads a boolean form or query value; absent means false.
func queryBool(r *http.Request, name string) (bool, error) {
	v := r.FormValue(name)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
