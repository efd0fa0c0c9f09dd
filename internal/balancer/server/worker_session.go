package server

import (
	"errors"
	"time"

	"gobalance/internal/balancer/tasktable"
	"gobalance/pkg/proto"
	"gobalance/pkg/styles"
)

// registerTimeout acota la espera del REGISTER inicial: una conexión
// que no se presenta en este plazo se cierra sin entrar al registro.
const registerTimeout = 10 * time.Second

// handleWorker maneja la sesión completa de un worker: handshake de
// registro y luego el bucle de resultados que el worker envía de forma
// asíncrona por su propia conexión.
func (s *Server) handleWorker(conn *proto.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(registerTimeout))
	msg, err := conn.ReadMessage()
	if err != nil {
		styles.PrintFS("error", "[BALANCER] Registro de worker fallido: %v", err)
		return
	}
	if msg.Verb != proto.VerbRegister {
		styles.PrintFS("error", "[BALANCER] Se esperaba REGISTER, llegó %s", msg.Verb)
		return
	}
	conn.SetReadDeadline(time.Time{})

	workerID := msg.Args[0]
	w, err := s.registry.Register(workerID, conn)
	if err != nil {
		styles.PrintFS("error", "[BALANCER] Registro rechazado para %s: %v", workerID, err)
		conn.WriteMessage(proto.New(proto.VerbErr, "worker id duplicado"))
		return
	}
	defer func() {
		s.registry.Unregister(workerID)
		s.removeWorkerFromRedis(workerID)
		styles.PrintFS("warn", "[BALANCER] Worker %s desconectado", workerID)
	}()

	if err := conn.WriteMessage(proto.New(proto.VerbAck, workerID)); err != nil {
		styles.PrintFS("error", "[BALANCER] Error enviando ACK a %s: %v", workerID, err)
		return
	}
	s.registerWorkerInRedis(w)
	styles.PrintFS("success", "[BALANCER] Worker registrado: %s desde %s", workerID, w.Addr)

	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, proto.ErrMalformed) {
				styles.PrintFS("error", "[BALANCER] Mensaje inválido de worker %s: %v", workerID, err)
			}
			return
		}
		if msg.Verb != proto.VerbTaskResult {
			styles.PrintFS("error", "[BALANCER] Verbo inesperado de worker %s: %s", workerID, msg.Verb)
			return
		}

		taskID, resultData := msg.Args[0], msg.Args[1]
		client, err := s.tasks.Resolve(taskID)
		if err != nil {
			if errors.Is(err, tasktable.ErrTaskNotFound) {
				// El cliente ya se fue o el resultado llegó dos veces.
				styles.PrintFS("warn", "[BALANCER] Resultado descartado para tarea desconocida %s", taskID)
				continue
			}
			return
		}

		if err := client.WriteMessage(proto.New(proto.VerbResult, taskID, resultData)); err != nil {
			styles.PrintFS("warn", "[BALANCER] No se pudo entregar resultado de %s: cliente desconectado", taskID)
			continue
		}
		styles.PrintFS("info", "[BALANCER] Resultado de %s entregado al cliente", taskID)
	}
}
