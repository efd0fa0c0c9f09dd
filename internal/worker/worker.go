package worker

import (
	"errors"
	"fmt"
	"net"
	"time"

	"gobalance/pkg/proto"
	"gobalance/pkg/styles"

	"github.com/google/uuid"
)

type State int

const (
	StDisconnected State = iota
	StConnecting
	StHandshaking
	StReady
	StWorking
)

const ackTimeout = 5 * time.Second

// ProcessFunc es la función de dominio que procesa el payload de una
// tarea. El balanceador no conoce su lógica: solo el formato de los
// mensajes.
type ProcessFunc func(taskData string) (string, error)

// Worker se conecta al balanceador, se registra como disponible y
// procesa las tareas que le asignen, devolviendo cada resultado por la
// misma conexión.
type Worker struct {
	ID      string
	State   State
	Process ProcessFunc

	conn *proto.Conn
}

// New crea un worker. Si no se da un ID, se genera uno propio: el ID
// lo elige el worker, no el balanceador.
func New(id string) *Worker {
	if id == "" {
		id = "worker_" + uuid.NewString()[:8]
	}
	return &Worker{
		ID:      id,
		State:   StDisconnected,
		Process: SumTask,
	}
}

// Connect marca la conexión y completa el handshake de registro.
func (w *Worker) Connect(balancerAddr string) error {
	w.State = StConnecting
	conn, err := net.Dial("tcp", balancerAddr)
	if err != nil {
		w.State = StDisconnected
		return fmt.Errorf("worker %s: error al conectar: %w", w.ID, err)
	}
	if err := w.handshake(conn); err != nil {
		conn.Close()
		return err
	}
	styles.PrintFS("success", "[WORKER %s] Registrado en el balanceador %s", w.ID, balancerAddr)
	return nil
}

func (w *Worker) handshake(conn net.Conn) error {
	w.State = StHandshaking
	pc := proto.NewConn(conn)

	if err := pc.WriteMessage(proto.New(proto.VerbRegister, w.ID)); err != nil {
		w.State = StDisconnected
		return fmt.Errorf("handshake: %w", err)
	}

	// Esperar el ACK con un plazo acotado
	pc.SetReadDeadline(time.Now().Add(ackTimeout))
	defer pc.SetReadDeadline(time.Time{})

	ack, err := pc.ReadMessage()
	if err != nil {
		w.State = StDisconnected
		return fmt.Errorf("handshake: %w", err)
	}
	if ack.Verb != proto.VerbAck {
		w.State = StDisconnected
		return fmt.Errorf("handshake: esperaba ACK, llegó %s", ack.Verb)
	}
	if ack.Args[0] != w.ID {
		w.State = StDisconnected
		return errors.New("handshake: ACK para otro worker")
	}

	w.conn = pc
	w.State = StReady
	return nil
}

// Run procesa tareas hasta que la conexión se cierre. Las tareas se
// atienden en serie: la conexión es la cola del worker.
func (w *Worker) Run() error {
	if w.conn == nil {
		return errors.New("worker sin conexión, llamar a Connect primero")
	}

	for {
		msg, err := w.conn.ReadMessage()
		if err != nil {
			w.State = StDisconnected
			if errors.Is(err, proto.ErrMalformed) {
				return fmt.Errorf("worker %s: %w", w.ID, err)
			}
			styles.PrintFS("warn", "[WORKER %s] Conexión cerrada: %v", w.ID, err)
			return nil
		}
		if msg.Verb != proto.VerbAssignTask {
			styles.PrintFS("error", "[WORKER %s] Verbo inesperado: %s", w.ID, msg.Verb)
			continue
		}

		taskID, taskData := msg.Args[0], msg.Args[1]
		styles.PrintFS("info", "[WORKER %s] Tarea recibida: %s, datos: %s", w.ID, taskID, taskData)

		w.State = StWorking
		result, err := w.Process(taskData)
		if err != nil {
			// El fallo viaja como payload del resultado, no rompe la sesión
			result = "ERROR: " + err.Error()
			styles.PrintFS("error", "[WORKER %s] Error procesando %s: %v", w.ID, taskID, err)
		}
		w.State = StReady

		if err := w.conn.WriteMessage(proto.New(proto.VerbTaskResult, taskID, result)); err != nil {
			w.State = StDisconnected
			return fmt.Errorf("worker %s: error enviando resultado: %w", w.ID, err)
		}
		styles.PrintFS("success", "[WORKER %s] Resultado enviado para %s: %s", w.ID, taskID, result)
	}
}

func (w *Worker) Close() {
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.State = StDisconnected
}
