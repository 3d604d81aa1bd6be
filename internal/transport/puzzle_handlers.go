package transport

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"puzdesk/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"
)

type puzzleResponse struct {
	*app.PuzzleView
	// Focus is the clue index this browser session last focused, or -1.
	Focus int `json:"focus"`
}

func (s *Server) handleListPuzzles(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	puzzles, err := s.Service.ListPuzzles(r.Context(), limit, offset)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, map[string]any{"puzzles": puzzles})
}

func (s *Server) handleUploadPuzzle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.fail(w, r, fmt.Errorf("%w: reading upload: %w", errBadRequest, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: missing file field", errBadRequest))
		return
	}
	defer file.Close()

	p, err := s.Service.ImportPuzzle(r.Context(), header.Filename, file)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if isDatastar(r) {
		datastar.NewSSE(w, r).Redirect(fmt.Sprintf("/puzzles/%s", p.ID))
		return
	}
	s.respond(w, r, http.StatusCreated, app.PuzzleSummary{
		ID:        p.ID,
		Filename:  p.Filename,
		Title:     p.Title,
		Author:    p.Author,
		UpdatedAt: p.UpdatedAt,
	})
}

func (s *Server) handleViewPuzzle(w http.ResponseWriter, r *http.Request) {
	puzzleID := chi.URLParam(r, "id")

	view, err := s.Service.PuzzleView(r.Context(), puzzleID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	focus := -1
	if key := focusKey(puzzleID); s.SessionManager.Exists(r.Context(), key) {
		focus = s.SessionManager.GetInt(r.Context(), key)
	}
	s.respond(w, r, http.StatusOK, puzzleResponse{PuzzleView: view, Focus: focus})
}

func (s *Server) handleDownloadPuzzle(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.Service.ExportPuzzle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-crossword")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handleDeletePuzzle(w http.ResponseWriter, r *http.Request) {
	puzzleID := chi.URLParam(r, "id")
	if err := s.Service.DeletePuzzle(r.Context(), puzzleID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.SessionManager.Remove(r.Context(), focusKey(puzzleID))
	w.WriteHeader(http.StatusNoContent)
}

// handlePuzzleUpdates streams the puzzle view as a signal patch every time
// another request changes it.
func (s *Server) handlePuzzleUpdates(w http.ResponseWriter, r *http.Request) {
	puzzleID := chi.URLParam(r, "id")
	if _, err := s.Service.OpenPuzzle(r.Context(), puzzleID); err != nil {
		s.fail(w, r, err)
		return
	}

	updates, err := s.Service.Subscribe(r.Context(), puzzleID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	for kind := range updates {
		if kind == app.UpdateDeleted {
			_ = sse.Redirect("/puzzles")
			return
		}
		view, err := s.Service.PuzzleView(r.Context(), puzzleID)
		if err != nil {
			return
		}
		if err := sse.MarshalAndPatchSignals(map[string]any{"puzzle": view}); err != nil {
			return
		}
	}
}
