package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ptnbk2401/quy-do-official/internal/response"
)

// Handler holds HTTP handlers for authentication endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new auth Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login godoc
//
//	@Summary		Admin login
//	@Description	Verifies admin credentials and returns a Bearer session token.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	response.Envelope{data=loginResponse}
//	@Failure		401		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		response.BadRequest(w, "username and password are required")
		return
	}

	token, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotConfigured):
			response.ServiceUnavailable(w, "admin login not configured")
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, "invalid username or password")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, loginResponse{Token: token})
}
