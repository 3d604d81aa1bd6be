package app

import (
	"context"
	"fmt"
	"time"

	"puzdesk/internal/db"
	"puzdesk/internal/puz"

	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type PuzzleSummary struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Service) ListPuzzles(ctx context.Context, limit, offset int) ([]PuzzleSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset = max(offset, 0)

	rows, err := s.Queries.ListPuzzles(ctx, db.ListPuzzlesParams{
		Limit:  int64(limit),
		Offset: int64(offset),
	})
	if err != nil {
		return nil, err
	}
	out := make([]PuzzleSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, PuzzleSummary{
			ID:        r.ID,
			Filename:  r.Filename,
			Title:     r.Title,
			Author:    r.Author,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out, nil
}

func (s *Service) PuzzleView(ctx context.Context, id string) (*PuzzleView, error) {
	sess, err := s.OpenPuzzle(ctx, id)
	if err != nil {
		return nil, err
	}
	var v *PuzzleView
	err = sess.read(func(p *puz.Puzzle) error {
		v = buildPuzzleView(sess, p)
		return nil
	})
	return v, err
}

// ExportPuzzle encodes the current document along with its stored filename.
func (s *Service) ExportPuzzle(ctx context.Context, id string) (string, []byte, error) {
	sess, err := s.OpenPuzzle(ctx, id)
	if err != nil {
		return "", nil, err
	}
	var data []byte
	err = sess.read(func(p *puz.Puzzle) error {
		data, err = p.MarshalBinary()
		return err
	})
	if err != nil {
		return "", nil, fmt.Errorf("encoding %s: %w", id, err)
	}
	return sess.Filename, data, nil
}

// update applies fn to the open document, then persists the re-encoded file
// and notifies subscribers. A failed save drops the cached document so the
// next open reloads what is stored.
func (s *Service) update(ctx context.Context, id string, kind UpdateKind, fn func(p *puz.Puzzle) error) error {
	sess, err := s.OpenPuzzle(ctx, id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := fn(sess.puzzle); err != nil {
		return err
	}
	data, err := sess.puzzle.MarshalBinary()
	if err != nil {
		s.forget(id)
		return fmt.Errorf("encoding %s: %w", id, err)
	}
	if err := s.Queries.UpdatePuzzleData(ctx, db.UpdatePuzzleDataParams{
		Data:      data,
		UpdatedAt: time.Now().UTC(),
		ID:        id,
	}); err != nil {
		s.forget(id)
		return fmt.Errorf("saving %s: %w", id, err)
	}

	s.BroadcastUpdate(id, kind)
	return nil
}

// SetCell stores a user entry. An empty value clears the cell.
func (s *Service) SetCell(ctx context.Context, id string, row, col int, value string) (*CellUpdate, error) {
	var out CellUpdate
	err := s.update(ctx, id, UpdateCell, func(p *puz.Puzzle) error {
		if err := p.SetCellContents(row, col, value); err != nil {
			return err
		}
		out.Cell = buildCellView(p, row, col)
		out.Solved = p.IsSolved()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Solved {
		s.Logger.Info("puzzle solved", zap.String("id", id))
	}
	return &out, nil
}

func (s *Service) SetTimer(ctx context.Context, id string, elapsed time.Duration, running bool) (*TimerView, error) {
	var out TimerView
	err := s.update(ctx, id, UpdateTimer, func(p *puz.Puzzle) error {
		p.SetTimerInfo(puz.TimerInfo{Elapsed: elapsed, Running: running})
		out = buildTimerView(p.TimerInfo())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) DeletePuzzle(ctx context.Context, id string) error {
	if err := s.Queries.DeletePuzzle(ctx, id); err != nil {
		return err
	}
	s.forget(id)
	s.BroadcastUpdate(id, UpdateDeleted)
	return nil
}

// Clue returns clue index of a puzzle.
func (s *Service) Clue(ctx context.Context, id string, index int) (*ClueView, error) {
	return s.clue(ctx, id, func(p *puz.Puzzle) (int, error) {
		if index < 0 || index >= p.NumClues() {
			return 0, fmt.Errorf("%w: %d", ErrClueNotFound, index)
		}
		return index, nil
	})
}

// StepClue moves delta clues from index, wrapping at either end.
func (s *Service) StepClue(ctx context.Context, id string, index, delta int) (*ClueView, error) {
	return s.clue(ctx, id, func(p *puz.Puzzle) (int, error) {
		if p.NumClues() == 0 {
			return 0, ErrClueNotFound
		}
		i := index
		for ; delta > 0; delta-- {
			i = p.NextClue(i)
		}
		for ; delta < 0; delta++ {
			i = p.PrevClue(i)
		}
		return i, nil
	})
}

func (s *Service) clue(ctx context.Context, id string, pick func(p *puz.Puzzle) (int, error)) (*ClueView, error) {
	sess, err := s.OpenPuzzle(ctx, id)
	if err != nil {
		return nil, err
	}
	var out ClueView
	err = sess.read(func(p *puz.Puzzle) error {
		i, err := pick(p)
		if err != nil {
			return err
		}
		out = buildClueView(p, i)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
