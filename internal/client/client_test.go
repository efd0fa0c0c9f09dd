package client

import (
	"net"
	"testing"

	"gobalance/pkg/proto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// balancerStub acepta una conexión y contesta cada TASK con la función
// dada, para probar al cliente sin levantar el balanceador completo.
func balancerStub(t *testing.T, reply func(msg proto.Message) proto.Message) string {
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
		pc := proto.NewConn(conn)
		for {
			msg, err := pc.ReadMessage()
			if err != nil {
				return
			}
			if err := pc.WriteMessage(reply(msg)); err != nil {
				return
			}
		}
	}()
	return ln.Addr().String()
}

func TestSubmit_ResultadoCorrelacionado(t *testing.T) {
	addr := balancerStub(t, func(msg proto.Message) proto.Message {
		return proto.New(proto.VerbResult, msg.Args[0], "15")
	})

	c := New()
	require.NoError(t, c.Connect(addr))
	t.Cleanup(c.Close)

	result, err := c.SubmitWithID("t1", "1,2,3,4,5")
	require.NoError(t, err)
	assert.Equal(t, "15", result)
}

func TestSubmit_GeneraIDUnico(t *testing.T) {
	var seen []string
	addr := balancerStub(t, func(msg proto.Message) proto.Message {
		seen = append(seen, msg.Args[0])
		return proto.New(proto.VerbResult, msg.Args[0], "ok")
	})

	c := New()
	require.NoError(t, c.Connect(addr))
	t.Cleanup(c.Close)

	_, err := c.Submit("1,2")
	require.NoError(t, err)
	_, err = c.Submit("3,4")
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.NotEqual(t, seen[0], seen[1])
}

func TestSubmit_FalloComoError(t *testing.T) {
	addr := balancerStub(t, func(msg proto.Message) proto.Message {
		return proto.New(proto.VerbResult, msg.Args[0], "ERROR: no workers available")
	})

	c := New()
	require.NoError(t, c.Connect(addr))
	t.Cleanup(c.Close)

	_, err := c.SubmitWithID("t1", "1,2")
	assert.ErrorContains(t, err, "no workers available")
}

func TestSubmit_ResultadoDeOtraTarea(t *testing.T) {
	addr := balancerStub(t, func(msg proto.Message) proto.Message {
		return proto.New(proto.VerbResult, "otra", "15")
	})

	c := New()
	require.NoError(t, c.Connect(addr))
	t.Cleanup(c.Close)

	_, err := c.SubmitWithID("t1", "1,2")
	assert.ErrorContains(t, err, "resultado para otra tarea")
}

func TestSubmit_SinConexion(t *testing.T) {
	c := New()
	_, err := c.Submit("1,2")
	assert.Error(t, err)
}
