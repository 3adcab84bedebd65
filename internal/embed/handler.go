package embed

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ptnbk2401/quy-do-official/internal/response"
)

// Handler holds HTTP handlers for the embed endpoints. registry is nil when
// object storage is not configured.
type Handler struct {
	registry *Registry
}

// NewHandler creates a new embed Handler.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

type listResponse struct {
	Embeds []Embed `json:"embeds"`
}

// List godoc
//
//	@Summary		List video embeds
//	@Description	Returns all embeds, newest first.
//	@Tags			embeds
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=listResponse}
//	@Router			/media/embeds [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.registry == nil {
		response.OK(w, listResponse{Embeds: []Embed{}})
		return
	}

	embeds, err := h.registry.List(r.Context())
	if err != nil {
		log.Printf("embed: list failed: %v", err)
		response.OK(w, listResponse{Embeds: []Embed{}})
		return
	}
	response.OK(w, listResponse{Embeds: embeds})
}

type createRequest struct {
	URL string `json:"url"`
}

type createResponse struct {
	Embed Embed `json:"embed"`
}

// Create godoc
//
//	@Summary		Add a video embed
//	@Description	Validates the provider (YouTube or TikTok) and prepends the embed to the list.
//	@Tags			embeds
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		createRequest	true	"Embed URL"
//	@Success		200		{object}	response.Envelope{data=createResponse}
//	@Failure		400		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/media/embeds [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.registry == nil {
		response.ServiceUnavailable(w, "object storage not configured")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		response.BadRequest(w, "url is required")
		return
	}

	e, err := h.registry.Add(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, ErrUnsupportedProvider) {
			response.BadRequest(w, ErrUnsupportedProvider.Error())
			return
		}
		log.Printf("embed: add failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "failed to save embed")
		return
	}

	response.OK(w, createResponse{Embed: e})
}

type deleteRequest struct {
	ID string `json:"id"`
}

// Delete godoc
//
//	@Summary		Remove a video embed
//	@Description	Removes the embed with the given id; unknown ids are a no-op.
//	@Tags			embeds
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		deleteRequest	true	"Embed id"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/media/embeds [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.registry == nil {
		response.ServiceUnavailable(w, "object storage not configured")
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		response.BadRequest(w, "id is required")
		return
	}

	if err := h.registry.Remove(r.Context(), req.ID); err != nil {
		log.Printf("embed: remove failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "failed to delete embed")
		return
	}

	response.OK(w, map[string]string{"message": "embed deleted"})
}
