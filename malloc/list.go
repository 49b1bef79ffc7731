package malloc

// list is an intrusive, address-ordered doubly linked list of headers.
// A block is a member of exactly one list at a time — the arena's used
// list or its free list — so the header's own prev/next fields serve
// whichever list currently owns it.
type list struct {
	head *header
}

// insert places h in address order and returns the block immediately
// before it in the list, if any. Current callers ignore the result;
// the free-list coalesce path reads h.prev instead.
func (l *list) insert(h *header) *header {
	var before *header
	cur := l.head
	for cur != nil && addrOf(cur) < addrOf(h) {
		before = cur
		cur = cur.next
	}
	h.prev, h.next = before, cur
	if before != nil {
		before.next = h
	} else {
		l.head = h
	}
	if cur != nil {
		cur.prev = h
	}
	return before
}

// remove unlinks h from the list. h must currently be a member.
func (l *list) remove(h *header) {
	if h.prev != nil {
		h.prev.next = h.next
	} else {
		l.head = h.next
	}
	if h.next != nil {
		h.next.prev = h.prev
	}
	h.prev, h.next = nil, nil
}

// each walks the list in address order, stopping early if fn returns
// false.
func (l *list) each(fn func(*header) bool) {
	for cur := l.head; cur != nil; cur = cur.next {
		if !fn(cur) {
			return
		}
	}
}

// tail returns the highest-addressed member, or nil if the list is
// empty.
func (l *list) tail() *header {
	var last *header
	l.each(func(h *header) bool {
		last = h
		return true
	})
	return last
}

// count returns the number of members, for accounting/stats only.
func (l *list) count() int {
	n := 0
	l.each(func(*header) bool {
		n++
		return true
	})
	return n
}
