package cache

import "sync"

type lruNode struct {
	key   string
	entry Entry
	prev  *lruNode
	next  *lruNode
}

// lruStore is the bounded in-memory tier. A doubly-linked list tracks
// usage order so eviction of the least recently used entry is O(1).
type lruStore struct {
	mu       sync.Mutex
	capacity int
	nodes    map[string]*lruNode
	head     *lruNode // most recently used
	tail     *lruNode // least recently used
}

func newLRUStore(capacity int) *lruStore {
	if capacity < 1 {
		capacity = 1
	}
	return &lruStore{capacity: capacity, nodes: make(map[string]*lruNode)}
}

func (l *lruStore) Get(key string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.nodes[key]
	if !ok {
		return Entry{}, false
	}
	l.moveToFront(n)
	return n.entry, true
}

func (l *lruStore) Put(key string, e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n, ok := l.nodes[key]; ok {
		n.entry = e
		l.moveToFront(n)
		return
	}
	n := &lruNode{key: key, entry: e}
	l.nodes[key] = n
	l.addFront(n)
	if len(l.nodes) > l.capacity && l.tail != nil {
		evicted := l.tail
		l.remove(evicted)
		delete(l.nodes, evicted.key)
	}
}

func (l *lruStore) Delete(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n, ok := l.nodes[key]; ok {
		l.remove(n)
		delete(l.nodes, key)
	}
}

func (l *lruStore) addFront(n *lruNode) {
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

func (l *lruStore) remove(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (l *lruStore) moveToFront(n *lruNode) {
	if l.head == n {
		return
	}
	l.remove(n)
	l.addFront(n)
}
