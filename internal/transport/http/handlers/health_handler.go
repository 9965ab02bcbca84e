package handlers

import (
	"net/http"

	httperrors "github.com/ideaSquared/adopt-dont-shop-moderation/internal/transport/http/errors"
)

func Health(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}
