package queue

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestPriorityQueueOrdersByLess(t *testing.T) {
	t.Parallel()

	pq := New(func(a, b int) bool { return a < b })
	for _, v := range []int{5, 1, 4, 2, 3} {
		pq.Push(v)
	}

	var out []int
	for pq.Len() > 0 {
		out = append(out, pq.Pop())
	}

	assert.DeepEqual(t, out, []int{1, 2, 3, 4, 5})
}

type item struct {
	key int
	idx int
}

func TestPriorityQueueTieBreakIsStable(t *testing.T) {
	t.Parallel()

	pq := New(func(a, b item) bool {
		if a.key != b.key {
			return a.key < b.key
		}
		return a.idx < b.idx
	})

	pq.Push(item{key: 1, idx: 2})
	pq.Push(item{key: 1, idx: 0})
	pq.Push(item{key: 1, idx: 1})

	assert.Equal(t, pq.Pop().idx, 0)
	assert.Equal(t, pq.Pop().idx, 1)
	assert.Equal(t, pq.Pop().idx, 2)
}

func TestPriorityQueuePeekUpdate(t *testing.T) {
	t.Parallel()

	pq := New(func(a, b *item) bool { return a.key < b.key })

	low := &item{key: 1}
	high := &item{key: 5}
	pq.Push(low)
	pq.Push(high)

	assert.Equal(t, pq.Peek().key, 1)

	low.key = 10
	pq.PeekUpdate()

	assert.Equal(t, pq.Peek().key, 5)
	assert.Equal(t, pq.Pop().key, 5)
	assert.Equal(t, pq.Pop().key, 10)
}
