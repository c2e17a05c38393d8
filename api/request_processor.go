package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/saeidalz13/battleship-solo/config"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	loopbackIpNet = net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(8, 32)}
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	analytics      *sqlc.AnalyticsManager
	ipnet          net.IPNet
	defaultFleet   config.FleetConfig
}

type RequestProcessorOption func(*RequestProcessor)

// Create game requests without ships fall back to fc.
func WithDefaultFleet(fc config.FleetConfig) RequestProcessorOption {
	return func(rp *RequestProcessor) {
		rp.defaultFleet = fc
	}
}

// q may be nil, in which case no analytics are recorded.
func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	q sqlc.Querier,
	opts ...RequestProcessorOption,
) RequestProcessor {
	rp := RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		ipnet:          serverIpNet(),
	}
	rp.analytics = sqlc.NewDbManager(q, rp.ipnet).Analytics

	for _, opt := range opts {
		opt(&rp)
	}
	return rp
}

// Picks the first IPv4 address of an interface that is up and not
// a loopback. Hosts without one fall back to the loopback network.
func serverIpNet() net.IPNet {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn("could not list interfaces; using loopback", "err", err)
		return loopbackIpNet
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ipnet.IP.To4() != nil && !ipnet.IP.IsLoopback() {
				return *ipnet
			}
		}
	}

	log.Warn("no non-loopback IPv4 address found; using loopback")
	return loopbackIpNet
}

// Expose this method to use it in testing
func (rp RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("could not upgrade connection", "err", err)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Info("a new connection established", "remote", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		// The session loop of the old connection carries on with this one
		if err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
			log.Warn("reconnection refused", "session", sessionIdQuery, "err", err)

			msg := mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID)
			msg.AddError(err.Error(), "session is expired or does not exist")
			_ = conn.WriteJSON(msg)
			_ = conn.Close()
		}
	}
}

func (rp *RequestProcessor) recordGameCreated() {
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	if err := rp.analytics.RecordGameCreated(ctx); err != nil {
		// for now not killing the game for it
		log.Error("failed to record created game", "err", err)
	}
}

func (rp *RequestProcessor) recordGameWinner(winner string) {
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	if err := rp.analytics.RecordGameWinner(ctx, winner); err != nil {
		log.Error("failed to record winner", "winner", winner, "err", err)
	}
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	var (
		sessionGame *mb.Game
		sessionId   = session.Id()
	)

	defer func() {
		if sessionGame != nil {
			rp.gameManager.TerminateGame(sessionGame.Uuid())
		}
		if conn := session.Conn(); conn != nil {
			_ = conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
		log.Info("session terminated", "session", sessionId)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// This error happens after retries. If it's not nil,
			// then something was wrong with the session connection
			// and couldn't be resolved
			break sessionLoop
		}

		code, err := rp.sessionManager.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err = rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		switch code {

		// A new game replaces whatever game this session had
		case mc.CodeCreateGame:
			game, respMsg := NewRequest(payload).HandleCreateGame(rp.gameManager, rp.defaultFleet)
			if game != nil {
				if sessionGame != nil {
					rp.gameManager.TerminateGame(sessionGame.Uuid())
				}
				sessionGame = game
				rp.sessionManager.SetSessionGame(session, game.Uuid())
				rp.recordGameCreated()
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// One player shot and one opponent reply per message. When
		// the game is over, the end game signal follows the result.
		case mc.CodeAttack:
			if sessionGame == nil {
				respMsg := mc.NewMessage[mc.RespAttack](mc.CodeAttack)
				respMsg.AddErrorFrom(cerr.ErrNoActiveGame(sessionId))
				if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
				continue sessionLoop
			}

			result, respMsg := NewRequest(payload).HandleAttack(sessionGame)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

			// This means attack operation did not complete
			if respMsg.Error != nil {
				continue sessionLoop
			}

			if result.GameOver {
				rp.recordGameWinner(result.Winner)

				respEndGame := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
				respEndGame.AddPayload(mc.RespEndGame{Winner: result.Winner})
				if err := rp.sessionManager.WriteToSessionConn(session, respEndGame, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
			}

		case mc.CodeGameState:
			var respMsg mc.Message[mc.RespGameState]
			if sessionGame == nil {
				respMsg = mc.NewMessage[mc.RespGameState](mc.CodeGameState)
				respMsg.AddErrorFrom(cerr.ErrNoActiveGame(sessionId))
			} else {
				respMsg = NewRequest().HandleGameState(sessionGame)
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
		}
	}
}
