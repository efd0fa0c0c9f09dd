package proto

import (
	"bufio"
	"net"
	"sync"
	"time"
)

// Conn envuelve una conexión TCP con lectura por líneas y escritura
// serializada. Varias goroutines pueden escribir el mismo handle (por
// ejemplo, las sesiones de cliente escriben al worker elegido mientras
// la sesión del worker escribe resultados a clientes), así que toda
// escritura pasa por el mutex.
type Conn struct {
	conn    net.Conn
	reader  *bufio.Reader
	writeMu sync.Mutex
}

func NewConn(c net.Conn) *Conn {
	return &Conn{
		conn:   c,
		reader: bufio.NewReader(c),
	}
}

// ReadMessage lee una línea del socket y la parsea. Solo la goroutine
// dueña de la sesión debe llamar a ReadMessage.
func (c *Conn) ReadMessage() (Message, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return Message{}, err
	}
	return Parse(line)
}

// WriteMessage serializa y envía un mensaje completo.
func (c *Conn) WriteMessage(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_, err := c.conn.Write([]byte(msg.Format()))
	return err
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *Conn) Close() error {
	return c.conn.Close()
}
