package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/StefanEhlert/chefsnumbers/internal/core"
)

// multipartOverhead leaves room for form fields next to the file itself.
const multipartOverhead = 1 << 20

type fieldInfo struct {
	Key     core.FieldKey `json:"key"`
	Numeric bool          `json:"numeric"`
	List    bool          `json:"list"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.service.Limiter().Status(),
	})
}

// handleFields lists the canonical fields a column can be mapped to.
func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	fields := make([]fieldInfo, len(core.FieldKeys))
	for i, k := range core.FieldKeys {
		fields[i] = fieldInfo{Key: k, Numeric: k.IsNumeric(), List: k.IsList()}
	}
	writeJSON(w, http.StatusOK, fields)
}

// handlePreview reports what importing the uploaded file would do.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	name, raw, opts, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	result, err := s.service.Preview(r.Context(), name, raw, opts)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleImport imports the uploaded file into the catalog.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	name, raw, opts, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	result, err := s.service.Import(r.Context(), name, raw, opts)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// readUpload reads the multipart form: a "file" part plus optional
// "mapping" (JSON object header -> field) and "encoding" values.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, core.ImportOptions, error) {
	var opts core.ImportOptions

	if s.maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxSize+multipartOverhead)
	}
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", nil, opts, &core.IOError{FileName: "upload", Err: fmt.Errorf("%w: request exceeds %d bytes", core.ErrFileTooLarge, maxErr.Limit)}
		}
		return "", nil, opts, &core.IOError{FileName: "upload", Err: err}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, opts, errNoFile
	}
	defer file.Close()

	if v := r.FormValue("mapping"); v != "" {
		if err := json.Unmarshal([]byte(v), &opts.Mapping); err != nil {
			return "", nil, opts, fmt.Errorf("%w: %v", core.ErrInvalidMapping, err)
		}
	}
	opts.Encoding = core.Encoding(r.FormValue("encoding"))

	raw, err := s.service.ReadFile(header.Filename, file)
	if err != nil {
		return "", nil, opts, err
	}
	return header.Filename, raw, opts, nil
}
