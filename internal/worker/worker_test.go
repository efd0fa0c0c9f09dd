package worker

import (
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"gobalance/pkg/proto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumTask(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"suma simple", "1,2,3,4,5", "15", false},
		{"un solo valor", "42", "42", false},
		{"con espacios", " 10, 20 , 30 ", "60", false},
		{"negativos", "-5,10", "5", false},
		{"no numérico", "1,x,3", "", true},
		{"vacío", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SumTask(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNew_GeneraIDPropio(t *testing.T) {
	w := New("")
	assert.True(t, strings.HasPrefix(w.ID, "worker_"), "id generado: %s", w.ID)

	w2 := New("mi-worker")
	assert.Equal(t, "mi-worker", w2.ID)
}

// balancerStub acepta una conexión y corre el lado del balanceador del
// handshake para probar al worker de forma aislada.
func balancerStub(t *testing.T, serve func(pc *proto.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		serve(proto.NewConn(conn))
	}()
	return ln.Addr().String()
}

func TestConnect_HandshakeYProcesamiento(t *testing.T) {
	results := make(chan proto.Message, 1)
	addr := balancerStub(t, func(pc *proto.Conn) {
		msg, err := pc.ReadMessage()
		if err != nil || msg.Verb != proto.VerbRegister {
			return
		}
		pc.WriteMessage(proto.New(proto.VerbAck, msg.Args[0]))

		pc.WriteMessage(proto.New(proto.VerbAssignTask, "t1", "2,3,4"))
		res, err := pc.ReadMessage()
		if err == nil {
			results <- res
		}
	})

	w := New("w-test")
	require.NoError(t, w.Connect(addr))
	t.Cleanup(w.Close)
	go w.Run()

	select {
	case res := <-results:
		assert.Equal(t, proto.VerbTaskResult, res.Verb)
		assert.Equal(t, []string{"t1", "9"}, res.Args)
	case <-time.After(2 * time.Second):
		t.Fatal("el worker no devolvió el resultado a tiempo")
	}
}

func TestConnect_RegistroRechazado(t *testing.T) {
	addr := balancerStub(t, func(pc *proto.Conn) {
		pc.ReadMessage()
		pc.WriteMessage(proto.New(proto.VerbErr, "worker id duplicado"))
	})

	w := New("w-test")
	err := w.Connect(addr)
	assert.Error(t, err)
	assert.Equal(t, StDisconnected, w.State)
}

func TestRun_PayloadInvalidoViajaComoResultado(t *testing.T) {
	results := make(chan proto.Message, 1)
	addr := balancerStub(t, func(pc *proto.Conn) {
		msg, _ := pc.ReadMessage()
		pc.WriteMessage(proto.New(proto.VerbAck, msg.Args[0]))

		pc.WriteMessage(proto.New(proto.VerbAssignTask, "t1", "1,x"))
		res, err := pc.ReadMessage()
		if err == nil {
			results <- res
		}
	})

	w := New("w-test")
	require.NoError(t, w.Connect(addr))
	t.Cleanup(w.Close)
	go w.Run()

	select {
	case res := <-results:
		assert.Equal(t, proto.VerbTaskResult, res.Verb)
		assert.Equal(t, "t1", res.Args[0])
		assert.True(t, strings.HasPrefix(res.Args[1], "ERROR: "), "payload: %s", res.Args[1])
	case <-time.After(2 * time.Second):
		t.Fatal("el worker no devolvió el resultado a tiempo")
	}
}

func TestRun_ProcesadorPersonalizado(t *testing.T) {
	results := make(chan proto.Message, 1)
	addr := balancerStub(t, func(pc *proto.Conn) {
		msg, _ := pc.ReadMessage()
		pc.WriteMessage(proto.New(proto.VerbAck, msg.Args[0]))

		pc.WriteMessage(proto.New(proto.VerbAssignTask, "t1", "cualquiera"))
		res, err := pc.ReadMessage()
		if err == nil {
			results <- res
		}
	})

	w := New("w-eco")
	w.Process = func(taskData string) (string, error) {
		if taskData == "" {
			return "", errors.New("sin datos")
		}
		return "eco:" + taskData, nil
	}
	require.NoError(t, w.Connect(addr))
	t.Cleanup(w.Close)
	go w.Run()

	select {
	case res := <-results:
		assert.Equal(t, []string{"t1", "eco:cualquiera"}, res.Args)
	case <-time.After(2 * time.Second):
		t.Fatal("el worker no devolvió el resultado a tiempo")
	}
}
