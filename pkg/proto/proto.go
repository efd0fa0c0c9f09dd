package proto

import (
	"errors"
	"fmt"
	"strings"
)

// Verbos del protocolo. Cada mensaje es una línea de texto con campos
// separados por '|': VERBO|campo1|campo2\n
const (
	VerbTask       = "TASK"        // cliente -> balanceador: TASK|task_id|task_data
	VerbResult     = "RESULT"      // balanceador -> cliente: RESULT|task_id|result_data
	VerbRegister   = "REGISTER"    // worker -> balanceador: REGISTER|worker_id
	VerbAck        = "ACK"         // balanceador -> worker: ACK|worker_id
	VerbAssignTask = "ASSIGN_TASK" // balanceador -> worker: ASSIGN_TASK|task_id|task_data
	VerbTaskResult = "TASK_RESULT" // worker -> balanceador: TASK_RESULT|task_id|result_data
	VerbErr        = "ERR"         // balanceador -> cualquiera: ERR|motivo
)

var ErrMalformed = errors.New("proto: mensaje con formato inválido")

// arity define cuántos campos lleva cada verbo después del propio verbo.
var arity = map[string]int{
	VerbTask:       2,
	VerbResult:     2,
	VerbRegister:   1,
	VerbAck:        1,
	VerbAssignTask: 2,
	VerbTaskResult: 2,
	VerbErr:        1,
}

// Message es una línea del protocolo ya parseada.
type Message struct {
	Verb string
	Args []string
}

func New(verb string, args ...string) Message {
	return Message{Verb: verb, Args: args}
}

// Parse valida el verbo y la cantidad de campos de una línea.
// El último campo puede contener '|' (el payload no se subdivide).
func Parse(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return Message{}, fmt.Errorf("%w: línea vacía", ErrMalformed)
	}

	verb, rest, _ := strings.Cut(line, "|")
	n, ok := arity[verb]
	if !ok {
		return Message{}, fmt.Errorf("%w: verbo desconocido %q", ErrMalformed, verb)
	}

	if rest == "" {
		return Message{}, fmt.Errorf("%w: %s espera %d campos", ErrMalformed, verb, n)
	}
	args := strings.SplitN(rest, "|", n)
	if len(args) != n {
		return Message{}, fmt.Errorf("%w: %s espera %d campos", ErrMalformed, verb, n)
	}
	for _, a := range args[:n-1] {
		if a == "" {
			return Message{}, fmt.Errorf("%w: %s con campo vacío", ErrMalformed, verb)
		}
	}
	return Message{Verb: verb, Args: args}, nil
}

// Format serializa el mensaje como línea de protocolo, con salto final.
func (m Message) Format() string {
	if len(m.Args) == 0 {
		return m.Verb + "\n"
	}
	return m.Verb + "|" + strings.Join(m.Args, "|") + "\n"
}

func (m Message) String() string {
	return strings.TrimRight(m.Format(), "\n")
}
