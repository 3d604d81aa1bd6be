package transport

import (
	"errors"
	"net/http"

	"puzdesk/internal/app"
	"puzdesk/internal/puz"

	"github.com/go-chi/render"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
)

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

func isDatastar(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

// respond patches v into the page's signals for datastar requests and writes
// it as JSON otherwise.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if isDatastar(r) {
		sse := datastar.NewSSE(w, r)
		if err := sse.MarshalAndPatchSignals(v); err != nil {
			s.Logger.Warn("patch signals failed", zap.Error(err))
		}
		return
	}
	render.Status(r, status)
	render.JSON(w, r, v)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

func errorStatus(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, app.ErrPuzzleNotFound), errors.Is(err, app.ErrClueNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrDuplicatePuzzle):
		return http.StatusConflict
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, puz.ErrBlackCell), errors.Is(err, puz.ErrOutOfBounds), errors.Is(err, puz.ErrSectionTooLarge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest), isDecodeError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isDecodeError(err error) bool {
	for _, target := range []error{
		puz.ErrBadMagic,
		puz.ErrUnexpectedEndOfInput,
		puz.ErrBadVersionString,
		puz.ErrBadHeaderChecksum,
		puz.ErrBadMaskedChecksum,
		puz.ErrBadFileChecksum,
		puz.ErrBadSectionChecksum,
		puz.ErrClueCountMismatch,
		puz.ErrMissingClueNumber,
		puz.ErrMissingRebusEntry,
		puz.ErrRebusSizeMismatch,
		puz.ErrBadTimerSection,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
