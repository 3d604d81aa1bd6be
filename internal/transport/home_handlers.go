package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/puzzles", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	started := time.UnixMilli(s.Service.StartTime)
	render.JSON(w, r, map[string]any{
		"status":    "ok",
		"startedAt": started.UTC(),
		"uptime":    time.Since(started).Round(time.Second).String(),
		"broker":    s.Service.NC != nil && s.Service.NC.IsConnected(),
	})
}
