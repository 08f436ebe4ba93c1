package broker

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/granpix/granpix-services/internal/comm"
)

// Broker consumes stagesvc's bracket and standings events and fans them out
// to the sockets watching the matching serie.
type Broker struct {
	Conn            *nats.Conn
	GetConnection   func(string) (*websocket.Conn, bool)
	GetSerieSockets func(string) []string
}

func NewBroker(conn *nats.Conn, fncGetConnection func(string) (*websocket.Conn, bool), fncGetSerieSockets func(string) []string) *Broker {
	return &Broker{
		Conn:            conn,
		GetConnection:   fncGetConnection,
		GetSerieSockets: fncGetSerieSockets,
	}
}

// Subscribe consumes one of the update topics.
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (b *Broker) handleMessages(msgNats *nats.Msg) {
	switch msgNats.Subject {
	case comm.TopicBracketUpdated:
		var update comm.BracketUpdate
		if err := json.Unmarshal(msgNats.Data, &update); err != nil {
			log.Errorf("bad bracket update: %s", err)
			return
		}
		b.fanOut(update.Serie, "bracket", msgNats.Data)
	case comm.TopicStandingsUpdated:
		var update comm.StandingsUpdate
		if err := json.Unmarshal(msgNats.Data, &update); err != nil {
			log.Errorf("bad standings update: %s", err)
			return
		}
		b.fanOut(update.Serie, "standings", msgNats.Data)
	default:
		log.Errorf("unknown topic %s", msgNats.Subject)
	}
}

// fanOut sends the payload to every socket watching the serie.
func (b *Broker) fanOut(serie, msgType string, data []byte) {
	for _, socketId := range b.GetSerieSockets(serie) {
		conn, ok := b.GetConnection(socketId)
		if !ok {
			continue
		}
		m := &comm.WSMessage{Type: msgType, Data: data, SocketId: socketId}
		if err := conn.WriteJSON(m); err != nil {
			log.Println(err)
		}
	}
}
