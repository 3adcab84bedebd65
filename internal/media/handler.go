package media

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ptnbk2401/quy-do-official/internal/response"
	"github.com/ptnbk2401/quy-do-official/internal/storage"
)

// Handler holds HTTP handlers for the media endpoints. svc and store are
// nil when object storage is not configured; read endpoints then return
// empty results with a warning, write endpoints return 503. The rest of
// the application keeps working either way.
type Handler struct {
	svc   *Service
	store storage.ObjectStore
}

// NewHandler creates a new media Handler.
func NewHandler(svc *Service, store storage.ObjectStore) *Handler {
	return &Handler{svc: svc, store: store}
}

const notConfiguredWarning = "object storage not configured; set STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY and STORAGE_BUCKET"

type listResponse struct {
	Files []Entry `json:"files"`
}

// List godoc
//
//	@Summary		List gallery media
//	@Description	Returns every gallery object with type, category, and a signed download URL. Degrades to an empty list with a warning when storage is unavailable.
//	@Tags			media
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=listResponse}
//	@Router			/media [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		response.OKWithWarning(w, listResponse{Files: []Entry{}}, notConfiguredWarning)
		return
	}

	entries, err := h.svc.ListCatalog(r.Context())
	if err != nil {
		// Soft failure: the gallery renders empty rather than erroring.
		log.Printf("media: list failed: %v", err)
		response.OKWithWarning(w, listResponse{Files: []Entry{}}, "failed to fetch media from storage")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	response.OK(w, listResponse{Files: entries})
}

type categoriesResponse struct {
	Categories []Category `json:"categories"`
}

// ListCategories godoc
//
//	@Summary		List media categories
//	@Description	Groups gallery keys by their first path segment.
//	@Tags			media
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=categoriesResponse}
//	@Router			/media/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		response.OK(w, categoriesResponse{Categories: []Category{}})
		return
	}

	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		log.Printf("media: list categories failed: %v", err)
		response.OK(w, categoriesResponse{Categories: []Category{}})
		return
	}
	if categories == nil {
		categories = []Category{}
	}
	response.OK(w, categoriesResponse{Categories: categories})
}

type validateCategoryRequest struct {
	Name string `json:"name"`
}

// ValidateCategory godoc
//
//	@Summary		Validate a new category name
//	@Description	Normalizes the name to its key-prefix form; the category itself is created by the first upload into it.
//	@Tags			media
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		validateCategoryRequest	true	"Category name"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Router			/media/categories [post]
func (h *Handler) ValidateCategory(w http.ResponseWriter, r *http.Request) {
	var req validateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		response.BadRequest(w, "invalid category name")
		return
	}

	normalized := NormalizeCategory(req.Name)
	if normalized == "" {
		response.BadRequest(w, "invalid category name")
		return
	}

	response.OK(w, map[string]string{"category": normalized})
}

type uploadURLRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	Category string `json:"category"`
}

type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileName  string `json:"fileName"`
	PublicURL string `json:"publicUrl"`
}

// UploadURL godoc
//
//	@Summary		Request a signed upload URL
//	@Description	Returns a 5-minute signed PUT URL scoped to a category-prefixed key. The PUT must send exactly the declared Content-Type.
//	@Tags			media
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		uploadURLRequest	true	"Upload descriptor"
//	@Success		200		{object}	response.Envelope{data=uploadURLResponse}
//	@Failure		400		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/media/upload [post]
func (h *Handler) UploadURL(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		response.ServiceUnavailable(w, notConfiguredWarning)
		return
	}

	var req uploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.FileName == "" || req.FileType == "" {
		response.BadRequest(w, "fileName and fileType are required")
		return
	}

	uploadURL, key, err := h.svc.UploadURL(r.Context(), req.FileName, req.FileType, req.Category)
	if err != nil {
		log.Printf("media: upload URL generation failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "failed to generate upload URL")
		return
	}

	response.OK(w, uploadURLResponse{
		UploadURL: uploadURL,
		FileName:  key,
		PublicURL: h.store.PublicURLFor(key),
	})
}

type downloadURLRequest struct {
	FileName string `json:"fileName"`
}

type downloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// DownloadURL godoc
//
//	@Summary		Request a signed download URL
//	@Description	Returns a 24-hour signed GET URL for the key.
//	@Tags			media
//	@Accept			json
//	@Produce		json
//	@Param			body	body		downloadURLRequest	true	"Download descriptor"
//	@Success		200		{object}	response.Envelope{data=downloadURLResponse}
//	@Failure		400		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/media/download [post]
func (h *Handler) DownloadURL(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		response.ServiceUnavailable(w, notConfiguredWarning)
		return
	}

	var req downloadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileName == "" {
		response.BadRequest(w, "fileName is required")
		return
	}

	url, err := h.svc.DownloadURL(r.Context(), req.FileName)
	if err != nil {
		log.Printf("media: download URL generation failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "failed to generate download URL")
		return
	}

	response.OK(w, downloadURLResponse{DownloadURL: url})
}

type deleteRequest struct {
	FileName string `json:"fileName"`
}

// Delete godoc
//
//	@Summary		Delete a media file
//	@Description	Removes one object by key. Idempotent: deleting an absent key succeeds.
//	@Tags			media
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		deleteRequest	true	"Key to delete"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/media [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		response.ServiceUnavailable(w, notConfiguredWarning)
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileName == "" {
		response.BadRequest(w, "fileName is required")
		return
	}

	// Deletes are never silently dropped: a storage failure propagates so
	// the admin can retry.
	if err := h.svc.Delete(r.Context(), req.FileName); err != nil {
		log.Printf("media: delete failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "failed to delete file")
		return
	}

	response.OK(w, map[string]string{"message": "file deleted"})
}

type deleteBatchRequest struct {
	FileNames []string `json:"fileNames"`
}

// DeleteBatch godoc
//
//	@Summary		Delete multiple media files
//	@Description	Deletes the keys concurrently and reports aggregate success/failure counts; one bad key does not abort the batch.
//	@Tags			media
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		deleteBatchRequest	true	"Keys to delete"
//	@Success		200		{object}	response.Envelope{data=BatchResult}
//	@Failure		400		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/media/delete-batch [post]
func (h *Handler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		response.ServiceUnavailable(w, notConfiguredWarning)
		return
	}

	var req deleteBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.FileNames) == 0 {
		response.BadRequest(w, "fileNames array is required")
		return
	}

	result := h.svc.DeleteBatch(r.Context(), req.FileNames)
	response.OK(w, result)
}
