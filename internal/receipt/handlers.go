package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ybae45/chopchop/internal/parsing"
	"github.com/ybae45/chopchop/internal/scanning"
)

const (
	maxUploadSize = int64(50 << 20)
	maxTextSize   = int64(1 << 20)
)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidUser), errors.Is(err, scanning.ErrNoText):
		return http.StatusBadRequest
	case errors.Is(err, parsing.ErrMissingDateTime):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNoScanner):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleParse parses a text body and returns the document without storing it
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTextSize))
	if err != nil {
		writeError(w, "Error reading request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		writeError(w, "Receipt text required", http.StatusBadRequest)
		return
	}

	doc, err := s.service.ParseText(string(body))
	if err != nil {
		slog.Warn("Error parsing receipt text", "error", err)
		code := statusFor(err)
		if doc != nil {
			writeJSON(w, code, map[string]any{"error": err.Error(), "document": doc})
			return
		}
		writeError(w, err.Error(), code)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleListReceipts returns a list of a user's receipts
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.service.ListReceipts(r.PathValue("uid"))
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		writeError(w, "Error listing receipts", statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, receipts)
}

// handleSubmitText stores a receipt from OCR text
func (s *Server) handleSubmitText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
		Text     string `json:"text"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTextSize)).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, "Receipt text required", http.StatusBadRequest)
		return
	}

	receipt, err := s.service.ProcessText(r.PathValue("uid"), req.Filename, req.Text)
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

// handleUploadReceipt handles receipt image upload
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		writeError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		writeError(w, "File is too large. Maximum size is 50MB. Please compress or resize your image.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFromExt(header.Filename)
	}

	receipt, err := s.service.ProcessReceipt(r.PathValue("uid"), header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing receipt", "filename", header.Filename, "error", err)
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			code = http.StatusBadRequest
		}
		writeError(w, err.Error(), code)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

func contentTypeFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleGetReceipt returns a single receipt
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.service.GetReceipt(r.PathValue("uid"), r.PathValue("id"))
	if err != nil {
		writeError(w, "Receipt not found", statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

// handleGetReceiptFile returns the stored file for a receipt
func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetReceiptFile(r.PathValue("uid"), r.PathValue("id"))
	if err != nil {
		writeError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleExportReceipt returns a receipt as an XLSX workbook
func (s *Server) handleExportReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, err := s.service.ExportXLSX(r.PathValue("uid"), id)
	if err != nil {
		slog.Error("Error exporting receipt", "receipt_id", id, "error", err)
		writeError(w, "Error exporting receipt", statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="receipt-`+id+`.xlsx"`)
	w.Write(data)
}

// handleDeleteReceipt deletes a receipt
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteReceipt(r.PathValue("uid"), r.PathValue("id")); err != nil {
		writeError(w, "Error deleting receipt", statusFor(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
