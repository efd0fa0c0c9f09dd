package tasktable

import (
	"net"
	"testing"

	"gobalance/pkg/proto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeConn(t *testing.T) *proto.Conn {
	t.Helper()
	c1, c2 := net.Pipe()
	t.Cleanup(func() {
		c1.Close()
		c2.Close()
	})
	return proto.NewConn(c1)
}

func TestPut_IDDuplicado(t *testing.T) {
	tbl := New()
	first := pipeConn(t)

	require.NoError(t, tbl.Put("t1", first))

	// el segundo Put no pisa la entrada original
	err := tbl.Put("t1", pipeConn(t))
	assert.ErrorIs(t, err, ErrTaskExists)

	got, err := tbl.Resolve("t1")
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestResolve_RemueveAtomicamente(t *testing.T) {
	tbl := New()
	client := pipeConn(t)
	require.NoError(t, tbl.Put("t1", client))

	got, err := tbl.Resolve("t1")
	require.NoError(t, err)
	assert.Same(t, client, got)

	// un resultado duplicado o tardío encuentra la tabla vacía
	_, err = tbl.Resolve("t1")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestResolve_TareaDesconocida(t *testing.T) {
	tbl := New()
	_, err := tbl.Resolve("fantasma")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestAbandon_LimpiaLaEntrada(t *testing.T) {
	tbl := New()
	client := pipeConn(t)
	require.NoError(t, tbl.Put("t1", client))

	tbl.Abandon("t1", client)
	assert.Equal(t, 0, tbl.Len())

	_, err := tbl.Resolve("t1")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestAbandon_SoloRemueveDelDueno(t *testing.T) {
	tbl := New()
	owner := pipeConn(t)
	otro := pipeConn(t)
	require.NoError(t, tbl.Put("t1", owner))

	// un cliente distinto no puede abandonar una tarea ajena: cubre el
	// caso de un id reutilizado después de resolverse
	tbl.Abandon("t1", otro)
	assert.Equal(t, 1, tbl.Len())

	got, err := tbl.Resolve("t1")
	require.NoError(t, err)
	assert.Same(t, owner, got)
}
