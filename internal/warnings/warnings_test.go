package warnings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList_AddAndJoin(t *testing.T) {
	var l List
	assert.True(t, l.Empty())

	l.Add("first")
	l.Addf("second %d", 2)

	assert.False(t, l.Empty())
	assert.Equal(t, []string{"first", "second 2"}, l.Messages())
	assert.Equal(t, "first | second 2", l.Join())
}

func TestList_Drain(t *testing.T) {
	var l List
	l.Add("one")
	l.Add("two")

	drained := l.Drain()

	assert.Equal(t, []string{"one", "two"}, drained)
	assert.True(t, l.Empty())
	assert.Empty(t, l.Drain())
}
