package registry

import (
	"errors"
	"sync"
	"time"

	"gobalance/pkg/proto"
)

var (
	ErrDuplicateWorker = errors.New("registry: worker id ya registrado")
	ErrNoWorkers       = errors.New("registry: no hay workers disponibles")
)

// Worker es un worker registrado en el balanceador. La conexión pertenece
// a la sesión que lo aceptó; el resto del sistema solo escribe sobre ella
// a través del handle (que serializa las escrituras).
type Worker struct {
	ID           string
	Conn         *proto.Conn
	Addr         string
	RegisteredAt time.Time
}

// Registry mantiene el conjunto de workers vivos en orden de conexión y
// el cursor round-robin sobre esa membresía. Un solo mutex cubre altas,
// bajas y selección: la mutación del registro debe excluir las lecturas
// del selector para no elegir un handle a medio remover.
type Registry struct {
	mu      sync.Mutex
	workers map[string]*Worker
	order   []string // orden de registro, base del round-robin
	cursor  int
}

func New() *Registry {
	return &Registry{
		workers: make(map[string]*Worker),
	}
}

// Register agrega el worker al final de la rotación. El ID lo elige el
// propio worker; si ya existe uno con ese ID se rechaza el alta.
func (r *Registry) Register(id string, conn *proto.Conn) (*Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workers[id]; ok {
		return nil, ErrDuplicateWorker
	}

	w := &Worker{
		ID:           id,
		Conn:         conn,
		Addr:         conn.RemoteAddr().String(),
		RegisteredAt: time.Now(),
	}
	r.workers[id] = w
	r.order = append(r.order, id)
	return w, nil
}

// Unregister saca al worker de la rotación. Es idempotente.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workers[id]; !ok {
		return
	}
	delete(r.workers, id)
	for i, wid := range r.order {
		if wid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			if i < r.cursor {
				r.cursor--
			}
			break
		}
	}
}

// Next devuelve el siguiente worker de la rotación. El cursor avanza
// módulo la membresía actual, así que nunca apunta a un worker dado de
// baja: los desconectados ya no están en order.
func (r *Registry) Next() (*Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.order) == 0 {
		return nil, ErrNoWorkers
	}
	if r.cursor >= len(r.order) {
		r.cursor = 0
	}
	w := r.workers[r.order[r.cursor]]
	r.cursor++
	return w, nil
}

// Snapshot devuelve los workers activos en orden de registro.
func (r *Registry) Snapshot() []*Worker {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Worker, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.workers[id])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
