package coins

import "container/heap"

// node is a partial assignment of coin counts. Counts above level are
// decided; level is the index of the next denomination to branch on.
// Nodes are never mutated once pushed, so siblings may share counts.
type node struct {
	counts   []int
	level    int
	covered  int
	used     int
	estimate int
}

// frontier is a min-heap of live nodes ordered by estimate.
type frontier []node

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].estimate < f[j].estimate }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) {
	*f = append(*f, x.(node))
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = node{}
	*f = old[:n-1]
	return item
}

func (f *frontier) push(n node) {
	heap.Push(f, n)
}

func (f *frontier) pop() node {
	return heap.Pop(f).(node)
}

// peek returns the node with the smallest estimate without removing it.
func (f frontier) peek() node {
	return f[0]
}
