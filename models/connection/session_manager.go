package connection

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically()

	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) error
	HandleAbnormalClosureSession(session *Session, failed *websocket.Conn) error

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	FetchCodeFromMsg(payload []byte) (uint8, error)

	GetSessionGame(session *Session) (string, error)
	SetSessionGame(session *Session, gameUuid string)
	Count() int
}

type SessionManagerOption func(*BattleshipSessionManager)

func WithGracePeriod(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.gracePeriod = d
	}
}

func WithCleanupInterval(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.cleanupInterval = d
	}
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	gracePeriod     time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

func NewBattleshipSessionManager(opts ...SessionManagerOption) *BattleshipSessionManager {
	initMapSize := 10

	bsm := &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: time.Minute * 20,
		gracePeriod:     defaultGracePeriod,
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func (bsm *BattleshipSessionManager) GetSessionGame(session *Session) (string, error) {
	gameUuid := session.GameUuid()
	if gameUuid == "" {
		return "", cerr.ErrNoActiveGame(session.id)
	}
	return gameUuid, nil
}

// A session holds one game at a time; a new game replaces the old uuid.
func (bsm *BattleshipSessionManager) SetSessionGame(session *Session, gameUuid string) {
	session.SetGameUuid(gameUuid)
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.NewString()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
}

func (bsm *BattleshipSessionManager) Count() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// Swaps the connection of a live session and wakes up
// the session loop waiting in its grace period.
func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) error {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return err
	}

	session.reconnectionAfterAbnormalClosure(conn)
	log.Info("session reconnected", "session", sessionId, "remote", conn.RemoteAddr().String())
	return nil
}

// To ensure that there is no dangling connections,
// server session manager marks the connections with a
// lifetime of more than the cleanup interval as stale and deletes them.
func (bsm *BattleshipSessionManager) CleanupPeriodically() {
	assumedClosedConns := 10

	for {
		time.Sleep(bsm.cleanupInterval)

		bsm.mu.Lock()
		toDelete := make([]string, 0, assumedClosedConns)

		for ID, session := range bsm.sessions {
			if time.Since(session.createdAt) > bsm.cleanupInterval {
				toDelete = append(toDelete, ID)
			}
		}

		for _, ID := range toDelete {
			delete(bsm.sessions, ID)
		}
		bsm.mu.Unlock()

		if len(toDelete) != 0 {
			log.Info("cleaned up stale sessions", "count", len(toDelete), "ids", toDelete)
		}
	}
}

// This function takes care of abnormal closures. This happens
// due to backgrounding in mobile clients or any other unexpected
// reasons for web apps. failed is the connection the error came
// from. A session without a game has nothing worth waiting for,
// unless the client already came back on a new connection.
func (bsm *BattleshipSessionManager) HandleAbnormalClosureSession(s *Session, failed *websocket.Conn) error {
	reconnected, swapped := s.reconnectionSignal(failed)

	if !swapped {
		if s.GameUuid() == "" {
			return NewConnErr(ConnLoopBreak).AddDesc("no game for session; nothing to resume")
		}

		timer := time.NewTimer(bsm.gracePeriod)
		defer timer.Stop()

		select {
		case <-timer.C:
			log.Info("grace period over; session terminated", "session", s.id)
			return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

		case <-reconnected:
		}
	}

	log.Info("player reconnected", "session", s.id)
	msg := NewMessage[RespSessionId](CodeReconnected)
	msg.AddPayload(RespSessionId{SessionID: s.id})
	return s.writeToConnWithRetry(msg, MessageTypeJSON)
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	conn := session.Conn()
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return err
	}

	switch connErr.Code() {
	case ConnLoopAbnormalClosureRetry:
		if err := bsm.HandleAbnormalClosureSession(session, conn); err != nil {
			return err
		}
		// the message is lost with the old connection
		return session.writeToConnWithRetry(msg, msgType)

	default:
		return connErr
	}
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	for {
		conn := session.Conn()
		messageType, payload, err := conn.ReadMessage()
		if err == nil {
			return messageType, payload, nil
		}

		// Reconnecting closes the old connection under this read
		if session.Conn() != conn {
			if err := bsm.HandleAbnormalClosureSession(session, conn); err != nil {
				return -1, []byte{}, err
			}
			continue
		}

		if session.handleReadFromConnErr(err) != ConnLoopAbnormalClosureRetry {
			return -1, []byte{}, err
		}
		if err := bsm.HandleAbnormalClosureSession(session, conn); err != nil {
			return -1, []byte{}, err
		}
	}
}

func (bsm *BattleshipSessionManager) FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	if signal.Code == nil {
		return randomInvalidCode, NewConnErr(ConnInvalidMsgType).AddDesc("payload has no code field")
	}

	return *signal.Code, nil
}
