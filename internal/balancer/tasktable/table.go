package tasktable

import (
	"errors"
	"sync"

	"gobalance/pkg/proto"
)

var (
	ErrTaskExists   = errors.New("tasktable: task id ya en vuelo")
	ErrTaskNotFound = errors.New("tasktable: task id desconocido")
)

// Table mapea cada tarea en vuelo con la conexión del cliente que la
// espera. Las entradas son transitorias: se crean al recibir TASK y se
// destruyen al entregar el resultado o al desconectarse el cliente.
type Table struct {
	mu      sync.Mutex
	pending map[string]*proto.Conn
}

func New() *Table {
	return &Table{
		pending: make(map[string]*proto.Conn),
	}
}

// Put registra una tarea en vuelo. Un task id solo puede aparecer una
// vez: una segunda entrega con el mismo id se rechaza sin pisar la
// entrada original.
func (t *Table) Put(taskID string, client *proto.Conn) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.pending[taskID]; ok {
		return ErrTaskExists
	}
	t.pending[taskID] = client
	return nil
}

// Resolve busca y remueve la entrada en una sola operación, así un
// resultado duplicado o tardío para el mismo id termina en
// ErrTaskNotFound en vez de entregarse dos veces.
func (t *Table) Resolve(taskID string) (*proto.Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	client, ok := t.pending[taskID]
	if !ok {
		return nil, ErrTaskNotFound
	}
	delete(t.pending, taskID)
	return client, nil
}

// Abandon limpia la entrada cuando el cliente se desconecta antes del
// resultado. Solo remueve si la entrada sigue perteneciendo a ese
// cliente: si la tarea ya se resolvió y otro cliente reutilizó el id,
// la entrada nueva no se toca.
func (t *Table) Abandon(taskID string, owner *proto.Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if client, ok := t.pending[taskID]; ok && client == owner {
		delete(t.pending, taskID)
	}
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}
