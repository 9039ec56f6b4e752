package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hijamarkets/backoffice/internal/adapter/http/dto"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// ClientHandler handles client management HTTP requests.
type ClientHandler struct {
	clientUC *usecase.ClientUseCase
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientUC *usecase.ClientUseCase) *ClientHandler {
	return &ClientHandler{clientUC: clientUC}
}

// Get retrieves a client.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	client, err := h.clientUC.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get client", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// Block suspends a client from funding and trading operations.
func (h *ClientHandler) Block(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor, ok := approverID(w, r)
	if !ok {
		return
	}

	client, err := h.clientUC.BlockClient(r.Context(), id, actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to block client", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// Unblock restores a suspended client.
func (h *ClientHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor, ok := approverID(w, r)
	if !ok {
		return
	}

	client, err := h.clientUC.UnblockClient(r.Context(), id, actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to unblock client", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}
