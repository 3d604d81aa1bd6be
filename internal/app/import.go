package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"puzdesk/internal/db"
	"puzdesk/internal/puz"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxFilenameLength = 100

var ErrDuplicatePuzzle = errors.New("puzzle already imported")

// DuplicateError names the stored puzzle an import collided with.
type DuplicateError struct {
	ID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%v as %s", ErrDuplicatePuzzle, e.ID)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicatePuzzle }

// ImportPuzzle stores a verified puz file. Files that are the same puzzle as
// one already stored, regardless of fill, are rejected with a DuplicateError.
func (s *Service) ImportPuzzle(ctx context.Context, filename string, r io.Reader) (*db.Puzzle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	p, err := puz.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	if err := p.Verify(); err != nil {
		return nil, fmt.Errorf("verifying %s: %w", filename, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	qtx := s.Queries.WithTx(tx)

	candidates, err := qtx.FindPuzzlesByHeaderChecksum(ctx, int64(p.HeaderChecksum))
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	for _, c := range candidates {
		existing, err := puz.Parse(c.Data)
		if err != nil {
			s.Logger.Warn("stored puzzle does not decode", zap.String("id", c.ID), zap.Error(err))
			continue
		}
		if p.SameAs(existing) {
			return nil, &DuplicateError{ID: c.ID}
		}
	}

	now := time.Now().UTC()
	created, err := qtx.CreatePuzzle(ctx, db.CreatePuzzleParams{
		ID:             uuid.NewString(),
		Filename:       cleanFilename(filename),
		Title:          p.TitleText(),
		Author:         p.AuthorText(),
		HeaderChecksum: int64(p.HeaderChecksum),
		Data:           data,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating puzzle: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.Logger.Info("imported puzzle",
		zap.String("id", created.ID),
		zap.String("title", created.Title),
		zap.Int("width", p.Width),
		zap.Int("height", p.Height),
		zap.Int("clues", p.NumClues()),
	)
	return &created, nil
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Join(strings.Fields(name), " ")
	if len(name) > maxFilenameLength {
		name = name[:maxFilenameLength]
	}
	if name == "" || name == "." || name == "/" {
		name = fmt.Sprintf("puzzle_%d.puz", time.Now().UTC().Unix())
	}
	return name
}
