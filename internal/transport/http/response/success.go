package response

import (
	"net/http"

	"github.com/go-chi/render"
)

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// OK writes v as a bare 200 JSON body.
func OK(w http.ResponseWriter, r *http.Request, v any) {
	WriteJSON(w, r, http.StatusOK, v)
}

// NoContent writes a 204 response with no body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
