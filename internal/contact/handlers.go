package contact

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/okrent/cardscan/internal/classify"
	"github.com/okrent/cardscan/internal/scanning"
)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// corsError writes a plain error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// jsonError writes a JSON error body with CORS headers set
func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// scanError maps a scan failure to the right client response. A card with
// no detectable text is the user's problem to fix with a better photo, not
// a server fault.
func scanError(w http.ResponseWriter, err error) {
	if errors.Is(err, scanning.ErrNoText) {
		jsonError(w, "No text was detected on the card. Try retaking the photo with more light and less glare.", http.StatusUnprocessableEntity)
		return
	}
	jsonError(w, err.Error(), http.StatusBadRequest)
}

// handleScanUpload scans an uploaded card image into a draft contact
func (s *Server) handleScanUpload(w http.ResponseWriter, r *http.Request) {
	// Max 50MB to handle high-resolution phone photos
	maxFormSize := int64(50 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if err.Error() == "http: no such file" {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		jsonError(w, "File is too large. Maximum size is 50MB. Please compress or resize your image.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		switch ext {
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		case ".png":
			contentType = "image/png"
		case ".pdf":
			contentType = "application/pdf"
		case ".heic":
			contentType = "image/heic"
		case ".heif":
			contentType = "image/heif"
		default:
			contentType = "application/octet-stream"
		}
	}

	// HEIC/HEIF MIME types must survive normalization so conversion can
	// detect them
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	draft, err := s.service.ScanCard(r.Context(), header.Filename, data, contentType, classify.SourceUpload)
	if err != nil {
		slog.Error("Error scanning card", "filename", header.Filename, "error", err)
		scanError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(draft); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleScanCamera scans a camera capture, sent as a data URL, into a
// draft contact
func (s *Server) handleScanCamera(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Image string `json:"image"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	data, contentType, err := scanning.DecodeDataURL(req.Image)
	if err != nil {
		slog.Error("Error decoding camera capture", "error", err)
		jsonError(w, "Invalid camera capture", http.StatusBadRequest)
		return
	}

	filename := "camera-capture" + extensionForMIME(contentType)

	draft, err := s.service.ScanCard(r.Context(), filename, data, contentType, classify.SourceCamera)
	if err != nil {
		slog.Error("Error scanning camera capture", "error", err)
		scanError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(draft); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// extensionForMIME picks a storage extension for a camera capture
func extensionForMIME(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ".img"
	}
}

// handleCreateContact persists a reviewed draft contact
func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var contact Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.service.CreateContact(&contact); err != nil {
		slog.Error("Error creating contact", "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&contact); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleListContacts returns all contacts, filtered by the q query
// parameter when present
func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.service.SearchContacts(r.URL.Query().Get("q"))
	if err != nil {
		slog.Error("Error listing contacts", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Always return an array, not null
	if contacts == nil {
		contacts = []*Contact{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(contacts); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetContact returns a single contact
func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Contact ID required", http.StatusBadRequest)
		return
	}
	contact, err := s.service.GetContact(id)
	if err != nil {
		corsError(w, "Contact not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(contact); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleUpdateContact applies reviewer edits to a stored contact
func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Contact ID required", http.StatusBadRequest)
		return
	}

	var card classify.Card
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	contact, err := s.service.UpdateContact(id, card)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			corsError(w, "Contact not found", http.StatusNotFound)
			return
		}
		slog.Error("Error updating contact", "id", id, "error", err)
		corsError(w, "Error updating contact", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(contact); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleDeleteContact deletes a contact and its card image
func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Contact ID required", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteContact(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			corsError(w, "Contact not found", http.StatusNotFound)
			return
		}
		corsError(w, "Error deleting contact", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetCardImage returns the stored card image for a contact
func (s *Server) handleGetCardImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Contact ID required", http.StatusBadRequest)
		return
	}
	data, contentType, err := s.service.GetCardImage(id)
	if err != nil {
		corsError(w, "Image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleExportXLSX streams the contact list as a spreadsheet download
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ExportXLSX()
	if err != nil {
		slog.Error("Error exporting contacts", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts.xlsx"`)
	w.Write(data)
}

// handleStaticCSS serves the CSS file
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/css")
	w.Write(appCSS)
}

// handleStaticJS serves the JavaScript file
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/javascript")
	w.Write(appJS)
}
