package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fumiama/go-docx"

	"lexchunk/internal/fieldcode"
)

// handlePreprocessTemplate checks and repairs field-code delimiters in an
// uploaded docx template. The default response is the inspection report;
// download=true streams the repaired document instead.
func (s *Server) handlePreprocessTemplate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !strings.HasSuffix(strings.ToLower(filename), ".docx") {
		jsonError(w, "template must be a .docx file", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, "file exceeds max size", http.StatusRequestEntityTooLarge)
		return
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		jsonError(w, "parse docx: "+err.Error(), http.StatusBadRequest)
		return
	}

	rep := fieldcode.Preprocess(doc)
	if !rep.Fixed {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(templateReport(rep))
		return
	}

	if r.FormValue("download") == "true" {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		if _, err := doc.WriteTo(w); err != nil {
			s.log.Error("write repaired template", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(templateReport(rep))
}

func templateReport(rep *fieldcode.Report) map[string]any {
	issues := rep.Issues
	if issues == nil {
		issues = []string{}
	}
	codes := rep.Codes
	if codes == nil {
		codes = []string{}
	}
	return map[string]any{
		"fixed":    rep.Fixed,
		"issues":   issues,
		"codes":    codes,
		"contexts": rep.Contexts,
	}
}
