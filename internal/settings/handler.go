package settings

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ptnbk2401/quy-do-official/internal/response"
	"github.com/ptnbk2401/quy-do-official/internal/storage"
)

const (
	maxImageSize = 10 << 20  // 10 MB
	maxVideoSize = 200 << 20 // 200 MB
)

// allowedUploadTypes lists the content types accepted for homepage media.
var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// Handler holds HTTP handlers for the homepage settings endpoints.
// repo and store are nil when object storage is not configured; the
// handlers then degrade to defaults and 503s instead of crashing.
type Handler struct {
	repo  Repository
	store storage.ObjectStore
}

// NewHandler creates a new settings Handler.
func NewHandler(repo Repository, store storage.ObjectStore) *Handler {
	return &Handler{repo: repo, store: store}
}

type settingsResponse struct {
	Settings Settings `json:"settings"`
}

// Get godoc
//
//	@Summary		Get homepage settings
//	@Description	Returns the settings document with media fields resolved to public URLs.
//	@Tags			homepage
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=settingsResponse}
//	@Router			/homepage [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		response.OK(w, settingsResponse{Settings: Defaults()})
		return
	}

	s := h.repo.Load(r.Context())
	resolved := ResolveForDisplay(s, h.store.PublicURLFor)
	response.OK(w, settingsResponse{Settings: resolved})
}

// saveRequest requires every section to be present: the document is
// overwritten wholesale, so a partial payload would silently erase content.
type saveRequest struct {
	Hero       *Hero       `json:"hero"`
	About      *About      `json:"about"`
	Highlights *Highlights `json:"highlights"`
	Social     *Social     `json:"social"`
}

// Save godoc
//
//	@Summary		Save homepage settings
//	@Description	Overwrites the full settings document. Media URLs are converted back to storage keys before persisting.
//	@Tags			homepage
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		saveRequest	true	"Full settings document"
//	@Success		200		{object}	response.Envelope{data=settingsResponse}
//	@Failure		400		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/homepage [post]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		response.ServiceUnavailable(w, "object storage not configured")
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Hero == nil || req.About == nil || req.Highlights == nil || req.Social == nil {
		response.BadRequest(w, "hero, about, highlights and social sections are all required")
		return
	}

	// Media fields may arrive as signed or public URLs from the editor;
	// only the key is durable, so strip everything down to keys.
	doc := Migrate(Settings{
		Hero:       *req.Hero,
		About:      *req.About,
		Highlights: *req.Highlights,
		Social:     *req.Social,
	})

	if err := h.repo.Save(r.Context(), doc); err != nil {
		log.Printf("settings: save failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	response.OK(w, settingsResponse{Settings: doc})
}

type uploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Upload godoc
//
//	@Summary		Upload homepage media
//	@Description	Accepts a multipart file for a homepage section and stores it under the homepage/ prefix.
//	@Tags			homepage
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file	formData	file	true	"Media file"
//	@Param			section	formData	string	true	"Homepage section (hero, about, logo, ...)"
//	@Success		200		{object}	response.Envelope{data=uploadResponse}
//	@Failure		400		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/homepage/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		response.ServiceUnavailable(w, "object storage not configured")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no file provided")
		return
	}
	defer file.Close()

	section := r.FormValue("section")
	if section == "" {
		response.BadRequest(w, "section is required")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		response.BadRequest(w, "invalid file type; only JPG, PNG, WebP, MP4, WebM, MOV allowed")
		return
	}

	maxSize := int64(maxImageSize)
	if strings.HasPrefix(contentType, "video/") {
		maxSize = maxVideoSize
	}
	if header.Size > maxSize {
		response.BadRequest(w, fmt.Sprintf("file too large; maximum size is %dMB", maxSize>>20))
		return
	}

	key := fmt.Sprintf("homepage/%s-%d%s", section, time.Now().UnixMilli(), filepath.Ext(header.Filename))

	if err := h.store.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		log.Printf("settings: homepage upload failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "failed to upload file")
		return
	}

	response.OK(w, uploadResponse{URL: h.store.PublicURLFor(key), Key: key})
}

type refreshRequest struct {
	URLs []string `json:"urls"`
}

type refreshResponse struct {
	RefreshedURLs map[string]string `json:"refreshedUrls"`
}

// RefreshURLs godoc
//
//	@Summary		Refresh expired signed URLs
//	@Description	Maps each storage URL to a freshly signed download URL; non-storage URLs pass through unchanged.
//	@Tags			homepage
//	@Accept			json
//	@Produce		json
//	@Param			body	body		refreshRequest	true	"URLs to refresh"
//	@Success		200		{object}	response.Envelope{data=refreshResponse}
//	@Failure		400		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/homepage/refresh-urls [post]
func (h *Handler) RefreshURLs(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		response.ServiceUnavailable(w, "object storage not configured")
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URLs == nil {
		response.BadRequest(w, "urls array is required")
		return
	}

	refreshed := make(map[string]string, len(req.URLs))
	for _, u := range req.URLs {
		if u == "" {
			continue
		}
		key := storage.ExtractKey(u)
		if key == u {
			// Not a storage URL, keep as is.
			refreshed[u] = u
			continue
		}
		fresh, err := h.store.PresignDownload(r.Context(), key)
		if err != nil {
			log.Printf("settings: refresh failed for %q: %v", key, err)
			refreshed[u] = u
			continue
		}
		refreshed[u] = fresh
	}

	response.OK(w, refreshResponse{RefreshedURLs: refreshed})
}
