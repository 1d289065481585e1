package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("camera", WithGroup(1))

	assert.Equal(t, "camera", p.Label())
	assert.Equal(t, 1, p.Group())
	assert.False(t, p.Initialized())
	assert.Nil(t, p.Buffer(0))
	assert.Zero(t, p.BufferSize(0))
}

func TestIndexCountMarksInitialized(t *testing.T) {
	p := NewBindGroupProvider("mesh")
	p.SetIndexCount(36)

	assert.True(t, p.Initialized())
	assert.Equal(t, 36, p.IndexCount())

	p.Release()
	assert.False(t, p.Initialized())
	assert.Zero(t, p.IndexCount())
}

func TestSetBufferRecordsSize(t *testing.T) {
	p := NewBindGroupProvider("instances")
	p.SetBuffer(0, nil, 80*4)
	assert.Equal(t, uint64(320), p.BufferSize(0))

	p.Release()
	assert.Zero(t, p.BufferSize(0))
}

func TestBufferWriteEnd(t *testing.T) {
	w := BufferWrite{Offset: 16, Data: make([]byte, 64)}
	assert.Equal(t, uint64(80), w.End())
}
