package handler

import (
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/flowlytics/flowlytics/services/dashboard/internal/logic"
)

// writeError maps logic sentinel errors onto HTTP statuses; anything else is
// a store/query failure surfaced as-is.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, logic.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, logic.ErrProjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, logic.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	httpx.WriteJsonCtx(r.Context(), w, status, map[string]string{"message": err.Error()})
}
