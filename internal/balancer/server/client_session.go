package server

import (
	"errors"

	"gobalance/internal/balancer/registry"
	"gobalance/pkg/proto"
	"gobalance/pkg/styles"
)

// handleClient maneja la sesión de un cliente: recibe tareas, las
// despacha round-robin y deja en la tabla la conexión a la que habrá
// que devolver cada resultado. Las entradas que sigan pendientes al
// desconectarse el cliente se abandonan para que un resultado tardío
// no intente escribir sobre un socket cerrado.
func (s *Server) handleClient(conn *proto.Conn) {
	defer conn.Close()

	// IDs entregados por este cliente. Abandon verifica dueño y
	// presencia, así que los ya resueltos son inofensivos acá.
	var submitted []string
	defer func() {
		for _, id := range submitted {
			s.tasks.Abandon(id, conn)
		}
	}()

	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, proto.ErrMalformed) {
				styles.PrintFS("error", "[BALANCER] Mensaje inválido de cliente %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
		if msg.Verb != proto.VerbTask {
			styles.PrintFS("error", "[BALANCER] Verbo inesperado de cliente %s: %s", conn.RemoteAddr(), msg.Verb)
			return
		}

		taskID, taskData := msg.Args[0], msg.Args[1]
		styles.PrintFS("info", "[BALANCER] Tarea recibida: %s de %s", taskID, conn.RemoteAddr())

		if err := s.tasks.Put(taskID, conn); err != nil {
			styles.PrintFS("warn", "[BALANCER] Tarea %s rechazada: id duplicado", taskID)
			s.failTask(conn, taskID, "duplicate task id")
			continue
		}
		submitted = append(submitted, taskID)

		if err := s.dispatch(taskID, taskData); err != nil {
			// Sin workers no hay a quién asignar: se responde el
			// fallo de inmediato en vez de colgar al cliente.
			styles.PrintFS("warn", "[BALANCER] No hay workers disponibles para tarea %s", taskID)
			s.tasks.Abandon(taskID, conn)
			s.failTask(conn, taskID, "no workers available")
		}
	}
}

// dispatch asigna la tarea al siguiente worker de la rotación. Una
// escritura fallida da de baja a ese worker y prueba con el siguiente
// vivo; si la vuelta completa falla, no hay workers.
func (s *Server) dispatch(taskID, taskData string) error {
	msg := proto.New(proto.VerbAssignTask, taskID, taskData)
	for attempts := s.registry.Len(); attempts > 0; attempts-- {
		w, err := s.registry.Next()
		if err != nil {
			return err
		}
		if err := w.Conn.WriteMessage(msg); err != nil {
			styles.PrintFS("warn", "[BALANCER] Worker %s caído, removiendo de la rotación", w.ID)
			s.registry.Unregister(w.ID)
			s.removeWorkerFromRedis(w.ID)
			continue
		}
		styles.PrintFS("info", "[BALANCER] Tarea %s asignada a worker %s", taskID, w.ID)
		return nil
	}
	return registry.ErrNoWorkers
}

// failTask responde un resultado de error con la misma forma que usan
// los workers para payloads inválidos, así el cliente parsea una sola
// convención.
func (s *Server) failTask(conn *proto.Conn, taskID, reason string) {
	if err := conn.WriteMessage(proto.New(proto.VerbResult, taskID, "ERROR: "+reason)); err != nil {
		styles.PrintFS("warn", "[BALANCER] No se pudo notificar el fallo de %s", taskID)
	}
}
