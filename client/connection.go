package client

import (
	"bytes"
	"encoding/gob"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/lasermaze/model"
)

// Connection is the client end of a game session. Messages from the server
// are decoded on a background goroutine and delivered on Incoming, which is
// closed when the connection ends.
type Connection struct {
	conn     *websocket.Conn
	writeMu  sync.Mutex
	Incoming chan model.ServerMessage
}

func Connect(url string) (*Connection, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	c := &Connection{
		conn:     conn,
		Incoming: make(chan model.ServerMessage, 16),
	}
	go c.loop()
	return c, nil
}

func (c *Connection) loop() {
	defer close(c.Incoming)
	for {
		_, r, err := c.conn.NextReader()
		if err != nil {
			log.Printf("Connection.loop read %v", err)
			return
		}
		var mes model.ServerMessage
		if err := gob.NewDecoder(r).Decode(&mes); err != nil {
			log.Warnf("Connection.loop cant decode %v", err)
			return
		}
		c.Incoming <- mes
	}
}

func (c *Connection) Send(cm model.ClientMessage) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cm); err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, buf.Bytes())
}

func (c *Connection) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
