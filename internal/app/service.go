package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"puzdesk/internal/db"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type UpdateKind string

const (
	UpdateCell    UpdateKind = "cell"
	UpdateTimer   UpdateKind = "timer"
	UpdateDeleted UpdateKind = "deleted"
)

type Service struct {
	Queries *db.Queries

	db *sql.DB

	Logger *zap.Logger

	NatsServer *server.Server

	NC *nats.Conn

	StartTime int64

	mu sync.Mutex
	// puzzle ID -> open document
	sessions map[string]*Session
}

func NewService(queries *db.Queries, dbConn *sql.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		Queries:   queries,
		db:        dbConn,
		Logger:    logger,
		StartTime: time.Now().UnixMilli(),
		sessions:  make(map[string]*Session),
	}

	s.startNats()

	return s
}

func (s *Service) startNats() {
	opts := &server.Options{
		Port:  -1,
		NoLog: true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		s.Logger.Error("failed to create NATS server", zap.Error(err))
		return
	}

	go ns.Start()

	if !ns.ReadyForConnections(2 * time.Second) {
		s.Logger.Error("NATS server failed to become ready")
		return
	}
	s.Logger.Info("NATS server ready", zap.String("url", ns.ClientURL()))
	s.NatsServer = ns

	nc, err := nats.Connect(ns.ClientURL())
	if err != nil {
		s.Logger.Error("NATS client failed to connect", zap.Error(err))
		return
	}
	s.NC = nc
}

func (s *Service) Shutdown() {
	if s.NC != nil {
		s.NC.Close()
	}

	if s.NatsServer != nil {
		s.NatsServer.Shutdown()
		s.NatsServer.WaitForShutdown()
	}

	_ = s.Logger.Sync()
}

func subject(puzzleID string) string {
	return fmt.Sprintf("puzzles.%s", puzzleID)
}

// BroadcastUpdate tells every subscriber of a puzzle that it changed.
func (s *Service) BroadcastUpdate(puzzleID string, kind UpdateKind) {
	if s.NC == nil {
		s.Logger.Warn("broadcast skipped: NATS connection is nil", zap.String("puzzle", puzzleID))
		return
	}

	s.Logger.Debug("publishing update", zap.String("subject", subject(puzzleID)), zap.String("kind", string(kind)))
	if err := s.NC.Publish(subject(puzzleID), []byte(kind)); err != nil {
		s.Logger.Warn("publish failed", zap.String("puzzle", puzzleID), zap.Error(err))
	}
}

// Subscribe delivers the kind of every update to puzzleID until ctx is done.
// The returned channel is closed when the subscription ends.
func (s *Service) Subscribe(ctx context.Context, puzzleID string) (<-chan UpdateKind, error) {
	if s.NC == nil {
		return nil, fmt.Errorf("subscribe %s: NATS connection is nil", puzzleID)
	}

	msgs := make(chan *nats.Msg, 16)
	sub, err := s.NC.ChanSubscribe(subject(puzzleID), msgs)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", puzzleID, err)
	}

	out := make(chan UpdateKind, 16)
	go func() {
		defer close(out)
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				select {
				case out <- UpdateKind(msg.Data):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
