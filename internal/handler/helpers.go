package handler

import (
	"net/http"

	"manuals/internal/httputil"
)

// pathID reads an id path parameter, writing a 400 when it is malformed
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := httputil.PathID(r, name)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

// parseBody decodes the JSON body, writing a 400 when it is malformed
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
