package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tlatasch/pos-terminal/internal/domain/auth"
)

// openSession resolves a cashier PIN to the opaque cashier id that gets
// stamped into committed sales.
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pin string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Pin == "" {
		writeError(w, r, http.StatusBadRequest, "pin is required")
		return
	}

	cashier, err := h.verifier.Verify(r.Context(), req.Pin)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownPIN) {
			writeError(w, r, http.StatusUnauthorized, "unknown PIN")
			return
		}
		zctx.From(r.Context()).Error("verify pin", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "login unavailable")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{
		"cashierId": cashier.ID,
		"name":      cashier.Name,
	})
}
