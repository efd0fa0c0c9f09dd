package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name string
		line string
		verb string
		args []string
	}{
		{"task", "TASK|t1|1,2,3\n", VerbTask, []string{"t1", "1,2,3"}},
		{"result", "RESULT|t1|15\n", VerbResult, []string{"t1", "15"}},
		{"register", "REGISTER|worker_ab12\n", VerbRegister, []string{"worker_ab12"}},
		{"ack", "ACK|worker_ab12\n", VerbAck, []string{"worker_ab12"}},
		{"assign", "ASSIGN_TASK|t1|1,2,3\n", VerbAssignTask, []string{"t1", "1,2,3"}},
		{"task_result", "TASK_RESULT|t1|15\n", VerbTaskResult, []string{"t1", "15"}},
		{"crlf", "ACK|w1\r\n", VerbAck, []string{"w1"}},
		// el payload no se subdivide: los '|' extra quedan en el último campo
		{"payload con pipe", "TASK|t1|a|b|c\n", VerbTask, []string{"t1", "a|b|c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.verb, msg.Verb)
			assert.Equal(t, tt.args, msg.Args)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"vacía", "\n"},
		{"verbo desconocido", "HELLO|w1\n"},
		{"sin campos", "TASK\n"},
		{"faltan campos", "TASK|t1\n"},
		{"task id vacío", "TASK||1,2,3\n"},
		{"register sin id", "REGISTER\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	msgs := []Message{
		New(VerbTask, "t1", "1,2,3,4,5"),
		New(VerbResult, "t1", "15"),
		New(VerbRegister, "worker_x"),
		New(VerbTaskResult, "t2", "ERROR: valor no numérico \"x\""),
	}

	for _, msg := range msgs {
		parsed, err := Parse(msg.Format())
		require.NoError(t, err)
		assert.Equal(t, msg, parsed)
	}
}
