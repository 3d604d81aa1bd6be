package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"puzdesk/internal/puz"
)

var (
	ErrPuzzleNotFound = errors.New("puzzle not found")
	ErrClueNotFound   = errors.New("clue not found")
)

// Session is the decoded copy of one stored puzzle. All reads and writes of
// the document go through its lock.
type Session struct {
	ID       string
	Filename string

	mu     sync.Mutex
	puzzle *puz.Puzzle
}

// OpenPuzzle returns the cached session for id, decoding the stored file on
// first use.
func (s *Service) OpenPuzzle(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	row, err := s.Queries.GetPuzzle(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPuzzleNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	p, err := puz.Parse(row.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding stored puzzle %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		return existing, nil
	}
	sess = &Session{ID: id, Filename: row.Filename, puzzle: p}
	s.sessions[id] = sess
	return sess, nil
}

func (s *Service) forget(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// read runs fn with the session locked.
func (sess *Session) read(fn func(p *puz.Puzzle) error) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.puzzle)
}
