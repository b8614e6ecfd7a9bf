package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/leaderboard"
	"github.com/TobiSchelling/ethaum/internal/metrics"
	"github.com/TobiSchelling/ethaum/internal/pages"
	"github.com/TobiSchelling/ethaum/internal/view"
)

const liveWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// liveRequest is the incoming message format of the live leaderboard.
type liveRequest struct {
	Type     string `json:"type"` // "upvote" or "refresh"
	LaunchID int    `json:"launch_id,omitempty"`
}

// liveResponse is the outgoing message format.
type liveResponse struct {
	Type    string                 `json:"type"` // "board", "upvoted" or "error"
	Entries []api.LeaderboardEntry `json:"entries,omitempty"`
	Upvote  *api.UpvoteResult      `json:"upvote,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// handleLive serves one live leaderboard. The connection owns its board:
// upvotes are applied to it from the server-confirmed result and it is
// dropped when the socket closes.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Info("live: websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	metrics.LiveConnections.Inc()
	defer metrics.LiveConnections.Dec()

	// The upgrade hijacks the connection, so the request context no longer
	// tracks it; a read error is what ends the session.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	board := leaderboard.New(nil)
	s.liveRefresh(ctx, conn, u, board)

	for {
		var req liveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Info("live: websocket read", zap.Error(err))
			}
			return
		}

		switch req.Type {
		case "refresh":
			s.liveRefresh(ctx, conn, u, board)
		case "upvote":
			s.liveUpvote(ctx, conn, u, board, req.LaunchID)
		default:
			s.liveSend(conn, liveResponse{Type: "error", Message: "unknown message type: " + req.Type})
		}
	}
}

func (s *Server) liveRefresh(ctx context.Context, conn *websocket.Conn, u identity.User, board *leaderboard.Board) {
	m, err := pages.LoadLeaderboard(ctx, s.deps, u)
	if err != nil {
		return
	}
	board.Reset(m.Entries)
	s.liveSend(conn, liveResponse{Type: "board", Entries: board.Entries()})
}

func (s *Server) liveUpvote(ctx context.Context, conn *websocket.Conn, u identity.User, board *leaderboard.Board, launchID int) {
	res, err := pages.Upvote(ctx, s.deps, u, board, launchID)
	if err != nil {
		msg := view.Message(err, "Upvote failed")
		if errors.Is(err, pages.ErrSignInRequired) {
			msg = "Sign in to upvote"
		}
		s.liveSend(conn, liveResponse{Type: "error", Message: msg})
		return
	}
	s.liveSend(conn, liveResponse{Type: "upvoted", Upvote: &res, Entries: board.Entries()})
}

func (s *Server) liveSend(conn *websocket.Conn, resp liveResponse) {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	if err := conn.WriteJSON(resp); err != nil {
		s.log.Info("live: websocket write", zap.Error(err))
	}
}
