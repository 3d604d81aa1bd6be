package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"puzdesk/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"
)

func focusKey(puzzleID string) string {
	return "focus:" + puzzleID
}

func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errBadRequest, name)
	}
	return v, nil
}

func (s *Server) handleUpdateCell(w http.ResponseWriter, r *http.Request) {
	puzzleID := chi.URLParam(r, "id")
	row, err := intParam(r, "row")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	col, err := intParam(r, "col")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var payload struct {
		CellValue string `json:"cellValue"`
	}
	if err := datastar.ReadSignals(r, &payload); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}

	update, err := s.Service.SetCell(r.Context(), puzzleID, row, col, payload.CellValue)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, update)
}

func (s *Server) handleUpdateTimer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ElapsedSeconds int64 `json:"elapsedSeconds"`
		Running        bool  `json:"running"`
	}
	if err := datastar.ReadSignals(r, &payload); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}

	timer, err := s.Service.SetTimer(r.Context(), chi.URLParam(r, "id"),
		time.Duration(payload.ElapsedSeconds)*time.Second, payload.Running)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, map[string]any{"timer": timer})
}

func (s *Server) handleFocusClue(w http.ResponseWriter, r *http.Request) {
	puzzleID := chi.URLParam(r, "id")
	index, err := intParam(r, "index")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	clue, err := s.Service.Clue(r.Context(), puzzleID, index)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.focus(w, r, puzzleID, clue)
}

func (s *Server) handleNextClue(w http.ResponseWriter, r *http.Request) {
	s.stepClue(w, r, 1)
}

func (s *Server) handlePrevClue(w http.ResponseWriter, r *http.Request) {
	s.stepClue(w, r, -1)
}

// stepClue moves the session's focus. Without a focused clue, next lands on
// the first clue and prev on the last.
func (s *Server) stepClue(w http.ResponseWriter, r *http.Request, delta int) {
	puzzleID := chi.URLParam(r, "id")
	key := focusKey(puzzleID)

	from := 0
	if s.SessionManager.Exists(r.Context(), key) {
		from = s.SessionManager.GetInt(r.Context(), key)
	} else if delta > 0 {
		from = -1
	}

	clue, err := s.Service.StepClue(r.Context(), puzzleID, from, delta)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.focus(w, r, puzzleID, clue)
}

func (s *Server) focus(w http.ResponseWriter, r *http.Request, puzzleID string, clue *app.ClueView) {
	s.SessionManager.Put(r.Context(), focusKey(puzzleID), clue.Index)
	s.respond(w, r, http.StatusOK, map[string]any{"focus": clue.Index, "clue": clue})
}
