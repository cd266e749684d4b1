package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabrikk-as/console-api/internal/auth"
	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/service"
)

var allowedDocumentTypes = map[domain.DocumentType]bool{
	domain.DocumentTypeQuotation:  true,
	domain.DocumentTypeSalesOrder: true,
	domain.DocumentTypeInvoice:    true,
}

type FileHandler struct {
	fileService *service.FileService
	maxUploadMB int64
	logger      *zap.Logger
}

func NewFileHandler(fileService *service.FileService, maxUploadMB int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxUploadMB: maxUploadMB,
		logger:      logger,
	}
}

// Upload godoc
// @Summary Upload file
// @Description Upload an attachment, optionally bound to a document such as a sales order PO file
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param documentType formData string false "Owning document type" Enums(quotation, sales_order, invoice)
// @Param documentId formData string false "Owning document ID"
// @Success 201 {object} domain.FileAttachmentDTO
// @Failure 413 {object} domain.APIError "File too large"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/upload [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	var docType domain.DocumentType
	var docID *uuid.UUID
	if dt := r.FormValue("documentType"); dt != "" {
		docType = domain.DocumentType(dt)
		if !allowedDocumentTypes[docType] {
			respondWithError(w, http.StatusBadRequest, "Invalid documentType")
			return
		}
		id, err := uuid.Parse(r.FormValue("documentId"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid documentId: must be a valid UUID")
			return
		}
		docID = &id
	}

	uploadedBy := "system"
	if user, ok := auth.FromContext(r.Context()); ok {
		uploadedBy = user.DisplayName
	}

	fileDTO, err := h.fileService.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, docType, docID, uploadedBy)
	if err != nil {
		h.logger.Error("failed to upload file", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, fileDTO)
}

// GetByID godoc
// @Summary Get file metadata
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} domain.FileAttachmentDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id} [get]
func (h *FileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	fileDTO, err := h.fileService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, fileDTO)
}

// Download godoc
// @Summary Download file
// @Tags Files
// @Produce application/octet-stream
// @Param id path string true "File ID"
// @Success 200
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	fileDTO, reader, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to download file", zap.Error(err), zap.String("file_id", id.String()))
		respondError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", "attachment; filename=\""+fileDTO.Filename+"\"")
	contentType := fileDTO.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(fileDTO.Size, 10))

	_, _ = io.Copy(w, reader)
}

// Delete godoc
// @Summary Delete file
// @Tags Files
// @Param id path string true "File ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.fileService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete file", zap.Error(err), zap.String("file_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// ListForDocument godoc
// @Summary List files attached to a document
// @Tags Files
// @Produce json
// @Param documentType query string true "Owning document type" Enums(quotation, sales_order, invoice)
// @Param documentId query string true "Owning document ID"
// @Success 200 {array} domain.FileAttachmentDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files [get]
func (h *FileHandler) ListForDocument(w http.ResponseWriter, r *http.Request) {
	docType := domain.DocumentType(r.URL.Query().Get("documentType"))
	if !allowedDocumentTypes[docType] {
		respondWithError(w, http.StatusBadRequest, "Invalid documentType")
		return
	}
	docID, err := uuid.Parse(r.URL.Query().Get("documentId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid documentId: must be a valid UUID")
		return
	}

	files, err := h.fileService.ListForDocument(r.Context(), docType, docID)
	if err != nil {
		h.logger.Error("failed to list files", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, files)
}
