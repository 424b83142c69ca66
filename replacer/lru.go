package replacer

import "github.com/lkim94gatech/buzzpage/page"

// LRU is the buffer pool's default ReplacementPolicy: most-recently
// touched id at the front, least-recently touched evicted from the
// back.
type LRU struct {
	q *queue
}

func NewLRU(capacity int) *LRU {
	return &LRU{q: newQueue(capacity)}
}

func (l *LRU) Touch(id page.ID) bool {
	if n, ok := l.q.byID[id]; ok {
		l.q.unlink(n)
		l.q.pushFront(n)
		return true
	}

	if l.q.len() >= l.q.capacity {
		l.Evict()
	}

	n := &node{id: id}
	l.q.byID[id] = n
	l.q.pushFront(n)
	return false
}

func (l *LRU) Evict() (page.ID, bool) {
	victim, ok := l.q.popBack()
	if !ok {
		return 0, false
	}
	delete(l.q.byID, victim.id)
	return victim.id, true
}
