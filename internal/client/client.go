package client

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"gobalance/pkg/proto"
	"gobalance/pkg/styles"

	"github.com/google/uuid"
)

// Client envía tareas al balanceador y espera el resultado correlacionado
// de cada una por la misma conexión.
type Client struct {
	conn *proto.Conn
}

func New() *Client {
	return &Client{}
}

func (c *Client) Connect(balancerAddr string) error {
	conn, err := net.Dial("tcp", balancerAddr)
	if err != nil {
		return fmt.Errorf("client: error al conectar: %w", err)
	}
	c.conn = proto.NewConn(conn)
	styles.PrintFS("success", "[CLIENT] Conectado al balanceador en %s", balancerAddr)
	return nil
}

// Submit envía una tarea con ID generado y bloquea hasta su resultado.
// Un resultado de fallo (payload "ERROR: ...") se devuelve como error.
func (c *Client) Submit(taskData string) (string, error) {
	return c.SubmitWithID("task_"+uuid.NewString()[:8], taskData)
}

// SubmitWithID permite fijar el task id, útil para correlacionar desde
// afuera (y para provocar colisiones en los tests).
func (c *Client) SubmitWithID(taskID, taskData string) (string, error) {
	if c.conn == nil {
		return "", errors.New("client: sin conexión, llamar a Connect primero")
	}

	styles.PrintFS("info", "[CLIENT] Enviando tarea %s: %s", taskID, taskData)
	if err := c.conn.WriteMessage(proto.New(proto.VerbTask, taskID, taskData)); err != nil {
		return "", fmt.Errorf("client: error enviando tarea: %w", err)
	}

	msg, err := c.conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("client: error esperando resultado: %w", err)
	}
	if msg.Verb != proto.VerbResult {
		return "", fmt.Errorf("client: esperaba RESULT, llegó %s", msg.Verb)
	}
	if msg.Args[0] != taskID {
		return "", fmt.Errorf("client: resultado para otra tarea: %s", msg.Args[0])
	}

	result := msg.Args[1]
	if reason, ok := strings.CutPrefix(result, "ERROR: "); ok {
		return "", fmt.Errorf("client: tarea %s falló: %s", taskID, reason)
	}
	styles.PrintFS("success", "[CLIENT] Resultado recibido para %s: %s", taskID, result)
	return result, nil
}

func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
		styles.PrintFS("default", "[CLIENT] Desconectado")
	}
}
