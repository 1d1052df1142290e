package settlement

import (
	"container/heap"

	"github.com/shopspring/decimal"
)

// party is one side of the matching: a debtor or creditor with the
// magnitude still outstanding.
type party struct {
	participant string
	order       int // position in the balance sheet
	remaining   decimal.Decimal
}

// partyQueue is a max-heap on remaining, ties going to the lower order.
type partyQueue []*party

func (q partyQueue) Len() int { return len(q) }

func (q partyQueue) Less(i, j int) bool {
	if c := q[i].remaining.Cmp(q[j].remaining); c != 0 {
		return c > 0
	}
	return q[i].order < q[j].order
}

func (q partyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *partyQueue) Push(x any) { *q = append(*q, x.(*party)) }

func (q *partyQueue) Pop() any {
	old := *q
	n := len(old)
	p := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return p
}

func newPartyQueue(parties []*party) *partyQueue {
	q := partyQueue(parties)
	heap.Init(&q)
	return &q
}

// peek returns the largest party without removing it.
func (q *partyQueue) peek() *party { return (*q)[0] }

// open reports whether the largest party is still beyond Epsilon.
func (q *partyQueue) open() bool {
	return q.Len() > 0 && !IsSettled(q.peek().remaining)
}

// add pushes parties onto the queue.
func (q *partyQueue) add(parties []*party) {
	for _, p := range parties {
		heap.Push(q, p)
	}
}

// settle reduces the head by amount. Once the head is within Epsilon it is
// removed and returned; otherwise settle returns nil.
func (q *partyQueue) settle(amount decimal.Decimal) *party {
	head := q.peek()
	head.remaining = head.remaining.Sub(amount)
	if IsSettled(head.remaining) {
		return heap.Pop(q).(*party)
	}
	heap.Fix(q, 0)
	return nil
}
