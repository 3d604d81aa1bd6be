package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"puzdesk/internal/app"
	"puzdesk/internal/db"
	"puzdesk/internal/puz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) (*Server, *db.Queries, func()) {
	svc, queries, dbConn := app.SetupTestService(t)
	server := NewServer(svc, dbConn)

	cleanup := func() {
		dbConn.Close()
	}

	return server, queries, cleanup
}

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/puzzles", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func uploadFixture(t *testing.T, s *Server, name string) string {
	t.Helper()
	data, err := os.ReadFile("../puz/testdata/" + name)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, uploadRequest(t, name, data))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created app.PuzzleSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestUploadPuzzle(t *testing.T) {
	s, _, cleanup := setupTestServer(t)
	defer cleanup()

	id := uploadFixture(t, s, "3x3.puz")

	data, err := os.ReadFile("../puz/testdata/3x3.puz")
	require.NoError(t, err)

	rr := serve(s, uploadRequest(t, "copy.puz", data))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), id)

	rr = serve(s, uploadRequest(t, "junk.puz", []byte("not a crossword")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest("POST", "/puzzles", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	rr = serve(s, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(s, uploadRequest(t, "huge.puz", bytes.Repeat([]byte{'x'}, 2*maxUploadSize)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	rr = serve(s, httptest.NewRequest("GET", "/puzzles", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Puzzles []app.PuzzleSummary `json:"puzzles"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Puzzles, 1)
	assert.Equal(t, "3x3", list.Puzzles[0].Title)
}

func TestViewPuzzle(t *testing.T) {
	s, _, cleanup := setupTestServer(t)
	defer cleanup()
	id := uploadFixture(t, s, "rebus.puz")

	rr := serve(s, httptest.NewRequest("GET", "/puzzles/"+id, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var view struct {
		Title string `json:"title"`
		Width int    `json:"width"`
		Focus int    `json:"focus"`
		Clues []struct {
			Label      string `json:"label"`
			References []int  `json:"references"`
		} `json:"clues"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "Rebus Test", view.Title)
	assert.Equal(t, 3, view.Width)
	assert.Equal(t, -1, view.Focus)
	require.Len(t, view.Clues, 6)
	assert.Equal(t, "5A", view.Clues[5].Label)
	assert.Equal(t, []int{4}, view.Clues[5].References)

	rr = serve(s, httptest.NewRequest("GET", "/puzzles/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateCell(t *testing.T) {
	s, _, cleanup := setupTestServer(t)
	defer cleanup()
	id := uploadFixture(t, s, "3x3.puz")

	rr := serve(s, postJSON(fmt.Sprintf("/puzzles/%s/cells/0/0", id), `{"cellValue":"c"}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var update app.CellUpdate
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &update))
	assert.Equal(t, "C", update.Cell.Contents)
	assert.False(t, update.Solved)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"black cell", "/cells/1/0", http.StatusUnprocessableEntity},
		{"out of bounds", "/cells/7/0", http.StatusUnprocessableEntity},
		{"bad row", "/cells/x/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(s, postJSON("/puzzles/"+id+tt.path, `{"cellValue":"X"}`))
			assert.Equal(t, tt.want, rr.Code)
		})
	}

	rr = serve(s, postJSON("/puzzles/nope/cells/0/0", `{"cellValue":"X"}`))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateCellDatastar(t *testing.T) {
	s, _, cleanup := setupTestServer(t)
	defer cleanup()
	id := uploadFixture(t, s, "3x3.puz")

	req := postJSON(fmt.Sprintf("/puzzles/%s/cells/0/1", id), `{"cellValue":"a"}`)
	req.Header.Set("Datastar-Request", "true")
	rr := serve(s, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/event-stream")
	assert.Contains(t, rr.Body.String(), "datastar-patch-signals")
	assert.Contains(t, rr.Body.String(), `"contents":"A"`)
}

func TestTimerAndDownload(t *testing.T) {
	s, _, cleanup := setupTestServer(t)
	defer cleanup()
	id := uploadFixture(t, s, "3x3.puz")

	rr := serve(s, postJSON("/puzzles/"+id+"/timer", `{"elapsedSeconds":30,"running":false}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"timer":{"elapsedSeconds":30,"running":false}}`, rr.Body.String())

	rr = serve(s, httptest.NewRequest("GET", "/puzzles/"+id+"/file", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/x-crossword", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=3x3.puz`, rr.Header().Get("Content-Disposition"))

	p, err := puz.DecodeVerified(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, "30,1", p.SectionText(puz.SectionTimer))
}

func TestDeletePuzzle(t *testing.T) {
	s, _, cleanup := setupTestServer(t)
	defer cleanup()
	id := uploadFixture(t, s, "3x3.puz")

	rr := serve(s, httptest.NewRequest("DELETE", "/puzzles/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(s, httptest.NewRequest("GET", "/puzzles/"+id+"/file", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHomeAndHealth(t *testing.T) {
	s, _, cleanup := setupTestServer(t)
	defer cleanup()

	rr := serve(s, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/puzzles", rr.Header().Get("Location"))

	rr = serve(s, httptest.NewRequest("GET", "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, true, health["broker"])
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("open: %w", app.ErrPuzzleNotFound), http.StatusNotFound},
		{&app.DuplicateError{ID: "x"}, http.StatusConflict},
		{fmt.Errorf("%w: (9,9)", puz.ErrOutOfBounds), http.StatusUnprocessableEntity},
		{fmt.Errorf("encoding x: %w", puz.ErrSectionTooLarge), http.StatusUnprocessableEntity},
		{fmt.Errorf("decoding x: %w", puz.ErrBadMagic), http.StatusBadRequest},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errorStatus(tt.err), tt.err.Error())
	}
}
