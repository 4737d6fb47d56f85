package gc

// 对象集合（from/to space）是一个哨兵头的双向环形链表。哨兵本身复用
// header 的布局，永远不会被上色或传给 free/visitor——poisonVisitID
// 保证了这一点。
//
// push/unlink/clear 都是 O(1)：unlink 不需要清空被摘除对象自身的
// next/prev，调用方随后一定会把它重新挂到另一个集合上。

// newSentinel 在给定地址上原地初始化一个空集合的哨兵头。
func newSentinel(addr uintptr) *header {
	s := headerAt(addr)
	s.visitID = poisonVisitID
	clear(s)
	return s
}

// clear 把 sentinel 重置为空集合：next 和 prev 都指向自己。
func clear(sentinel *header) {
	self := addrOf(sentinel)
	sentinel.setNextAddr(self)
	sentinel.prev = self
}

// push 把 obj 插入到 set（以 sentinel 为哨兵）的尾部，即哨兵之前。
func push(sentinel, obj *header) {
	last := headerAt(sentinel.prev)
	obj.setNextAddr(addrOf(sentinel))
	obj.prev = addrOf(last)
	last.setNextAddr(addrOf(obj))
	sentinel.prev = addrOf(obj)
}

// unlink 把 obj 从它当前所在的集合中摘除。
func unlink(obj *header) {
	prev := headerAt(obj.prev)
	next := headerAt(obj.nextAddr())
	prev.setNextAddr(addrOf(next))
	next.prev = addrOf(prev)
}
