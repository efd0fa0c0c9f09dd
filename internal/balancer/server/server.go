package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"gobalance/internal/balancer/registry"
	"gobalance/internal/balancer/tasktable"
	"gobalance/pkg/proto"
	"gobalance/pkg/styles"

	"github.com/redis/go-redis/v9"
)

const (
	redisWorkerIndexKey  = "workers:index"
	redisWorkerKeyPrefix = "worker:"
	redisWriteTimeout    = 2 * time.Second
	redisWorkerTTL       = 5 * time.Minute
)

// Server es el balanceador: dos listeners independientes (clientes y
// workers), el registro de workers y la tabla de tareas en vuelo.
type Server struct {
	registry *registry.Registry
	tasks    *tasktable.Table
	rdb      *redis.Client

	clientLn net.Listener
	workerLn net.Listener
}

// NewServer crea el balanceador. rdb puede ser nil: el espejo en Redis
// es opcional y nunca afecta el despacho.
func NewServer(rdb *redis.Client) *Server {
	return &Server{
		registry: registry.New(),
		tasks:    tasktable.New(),
		rdb:      rdb,
	}
}

func (s *Server) Registry() *registry.Registry { return s.registry }

// PendingTasks devuelve cuántas tareas siguen en vuelo.
func (s *Server) PendingTasks() int { return s.tasks.Len() }

// Listen abre los dos puertos. Separado de Serve para que los tests
// puedan escuchar en :0 y conocer la dirección asignada.
func (s *Server) Listen(clientAddr, workerAddr string) error {
	var err error
	s.clientLn, err = net.Listen("tcp", clientAddr)
	if err != nil {
		return fmt.Errorf("error al iniciar listener de clientes: %w", err)
	}
	s.workerLn, err = net.Listen("tcp", workerAddr)
	if err != nil {
		s.clientLn.Close()
		return fmt.Errorf("error al iniciar listener de workers: %w", err)
	}
	styles.PrintFS("default", "[BALANCER] Escuchando clientes en %s", s.clientLn.Addr())
	styles.PrintFS("default", "[BALANCER] Escuchando workers en %s", s.workerLn.Addr())
	return nil
}

func (s *Server) ClientAddr() net.Addr { return s.clientLn.Addr() }
func (s *Server) WorkerAddr() net.Addr { return s.workerLn.Addr() }

// Serve acepta conexiones en ambos puertos hasta que se cierren los
// listeners. Cada conexión aceptada corre en su propia goroutine.
func (s *Server) Serve() {
	go s.acceptLoop(s.workerLn, "worker", s.handleWorker)
	s.acceptLoop(s.clientLn, "cliente", s.handleClient)
}

// Start abre los puertos y atiende conexiones. Bloquea.
func (s *Server) Start(clientAddr, workerAddr string) error {
	if err := s.Listen(clientAddr, workerAddr); err != nil {
		return err
	}
	s.Serve()
	return nil
}

func (s *Server) Close() {
	if s.clientLn != nil {
		s.clientLn.Close()
	}
	if s.workerLn != nil {
		s.workerLn.Close()
	}
}

func (s *Server) acceptLoop(ln net.Listener, kind string, handle func(*proto.Conn)) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			styles.PrintFS("error", "[BALANCER] Error al aceptar conexión: %v", err)
			continue
		}
		styles.PrintFS("info", "[BALANCER] Nuevo %s desde %s", kind, conn.RemoteAddr())
		go handle(proto.NewConn(conn))
	}
}

// registerWorkerInRedis publica el worker en el índice compartido, con
// TTL por si el balanceador muere sin limpiar.
func (s *Server) registerWorkerInRedis(w *registry.Worker) {
	if s.rdb == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisWriteTimeout)
	defer cancel()

	fields := map[string]interface{}{
		"worker_id":     w.ID,
		"addr":          w.Addr,
		"registered_at": w.RegisteredAt.UnixMilli(),
	}

	if err := s.rdb.HSet(ctx, redisWorkerKeyPrefix+w.ID, fields).Err(); err != nil {
		styles.PrintFS("error", "[BALANCER] Error registrando worker en Redis: %v", err)
		return
	}
	if err := s.rdb.SAdd(ctx, redisWorkerIndexKey, w.ID).Err(); err != nil {
		styles.PrintFS("error", "[BALANCER] Error indexando worker en Redis: %v", err)
		return
	}
	if err := s.rdb.Expire(ctx, redisWorkerKeyPrefix+w.ID, redisWorkerTTL).Err(); err != nil {
		styles.PrintFS("error", "[BALANCER] Error configurando TTL en Redis: %v", err)
	}
}

func (s *Server) removeWorkerFromRedis(workerID string) {
	if s.rdb == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisWriteTimeout)
	defer cancel()

	if err := s.rdb.SRem(ctx, redisWorkerIndexKey, workerID).Err(); err != nil {
		styles.PrintFS("error", "[BALANCER] Error removiendo worker del índice en Redis: %v", err)
	}
	if err := s.rdb.Del(ctx, redisWorkerKeyPrefix+workerID).Err(); err != nil {
		styles.PrintFS("error", "[BALANCER] Error removiendo worker de Redis: %v", err)
	}
}
