package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/granpix/granpix-services/internal/comm"
)

// Ws tracks spectator connections and which serie each one watches.
type Ws struct {
	connMap  sync.Map // socketId -> *websocket.Conn
	serieMap sync.Map // socketId -> serie ("A" or "B")
}

func NewWs() *Ws {
	return &Ws{}
}

// SocketMessage handles a message from a web client.
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case "watch":
		s.handleWatch(socketId, message)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

// handleWatch subscribes the socket to one serie's updates.
func (s *Ws) handleWatch(socketId string, msg *comm.WSMessage) {
	var payload struct {
		Serie string `json:"serie"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("malformed watch payload: %s", err)
		return
	}
	if payload.Serie != "A" && payload.Serie != "B" {
		log.Errorf("invalid serie in watch payload: %q", payload.Serie)
		return
	}
	s.serieMap.Store(socketId, payload.Serie)
	log.Infof("socket %s watching serie %s", socketId, payload.Serie)
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, conn)
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	conn, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return conn.(*websocket.Conn), true
}

// GetSerieSockets returns every socket watching the serie.
func (s *Ws) GetSerieSockets(serie string) []string {
	var sockets []string
	s.serieMap.Range(func(key, value interface{}) bool {
		if value.(string) == serie {
			sockets = append(sockets, key.(string))
		}
		return true
	})
	return sockets
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.serieMap.Delete(socketId)
}
