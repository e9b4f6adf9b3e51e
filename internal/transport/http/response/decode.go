package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/baechuer/job-portal/internal/domain"
)

// maxJSONBody caps register/login bodies; they carry a handful of short strings.
const maxJSONBody = 64 << 10

// DecodeJSON decodes exactly one JSON value from the request body into dst.
// Unknown fields are ignored, trailing values and oversized bodies are not.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return domain.ErrInvalidJSON(io.EOF)
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody+1))
	if err := dec.Decode(dst); err != nil {
		return domain.ErrInvalidJSON(err)
	}

	switch err := dec.Decode(&json.RawMessage{}); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return domain.ErrInvalidJSON(err)
	default:
		return domain.ErrInvalidJSON(errors.New("body must contain a single JSON value"))
	}
}
