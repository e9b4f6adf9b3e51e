package middleware

import (
	"net/http"
)

type writeErrRecorder struct {
	calls int
	last  error
}

func (w *writeErrRecorder) fn(rw http.ResponseWriter, _ *http.Request, err error) {
	w.calls++
	w.last = err
	rw.WriteHeader(http.StatusTeapot)
}

// nextRecorder checks context injection.
type nextRecorder struct {
	calls    int
	gotUID   string
	gotEmail string
	gotRole  string
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.calls++
	n.gotUID, _ = UserIDFromContext(r.Context())
	n.gotEmail, _ = EmailFromContext(r.Context())
	n.gotRole, _ = RoleFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}
