// Package gcroots 实现了收集器核心（internal/gc）消费的"根枚举"外部
// 协作者：栈槽、全局变量、寄存器溢出这些收集器自身不知道的来源，统一
// 通过 Source.IterateRoots 报告给收集器。
//
// 默认实现 Set 的设计直接对应教师仓库 internal/vm/gc_stw.go 里
// collectAllRoots/collectWorkerRoots/collectGoroutineRoots 的做法：
// 分别遍历全局变量、各个 Worker 的操作数栈和调用帧、各个协程的栈帧，
// 把其中引用到堆对象的槽位收集成根集合。这里把"遍历哪些来源"收敛成一
// 个通用的注册表，嵌入运行时负责在恰当的时候注册/反注册根槽位。
package gcroots

import "sync"

// Source 是 internal/gc.RootSource 的具体化版本。
type Source interface {
	IterateRoots(cb func(ref uintptr))
}

// Handle 是 RegisterRoot 返回的不透明句柄，用来在之后 UnregisterRoot。
type Handle uint64

// Set 是 Source 的默认实现：一个并发安全的根槽位注册表。
//
// 注册/反注册可能来自嵌入运行时里跟 mutator 不同的逻辑线程（例如一个
// 信号处理器里反注册某个根），所以这里用锁保护簿记；但这跟收集器核心
// 本身的单线程模型（spec.md §5）是两回事——IterateRoots 在被
// Collector 调用期间读到的是一份内部快照，调用 cb 本身不持锁。
type Set struct {
	mu    sync.RWMutex
	next  Handle
	slots map[Handle]uintptr
}

// NewSet 创建一个空的根集合。
func NewSet() *Set {
	return &Set{slots: make(map[Handle]uintptr, 64)}
}

// RegisterRoot 把 ref 登记为一个根引用，返回可用于 UnregisterRoot 的
// 句柄。同一个 payload 引用可以被多次注册（比如同一个对象被好几个栈
// 槽引用），每次注册都拿到独立的句柄。
func (s *Set) RegisterRoot(ref uintptr) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	h := s.next
	s.slots[h] = ref
	return h
}

// UnregisterRoot 撤销一次 RegisterRoot。未知句柄会被安静地忽略。
func (s *Set) UnregisterRoot(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, h)
}

// UpdateRoot 原地更新一个已注册根槽位指向的引用,用于模拟"同一个栈槽
// 被重新赋值"这种场景,不需要反注册再注册。
func (s *Set) UpdateRoot(h Handle, ref uintptr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[h]; ok {
		s.slots[h] = ref
	}
}

// IterateRoots 对每一个登记在案、非空（非 0）的根引用调用一次 cb。
// 空引用被静默跳过——跟 spec.md §6 允许的"非引用根/空引用不需要过滤"
// 一致，调用方也不需要自己判空。
func (s *Set) IterateRoots(cb func(ref uintptr)) {
	s.mu.RLock()
	refs := make([]uintptr, 0, len(s.slots))
	for _, ref := range s.slots {
		if ref != 0 {
			refs = append(refs, ref)
		}
	}
	s.mu.RUnlock()

	for _, ref := range refs {
		cb(ref)
	}
}

// Len 返回当前登记的根槽位数量(含已置空但未反注册的槽位)，用于调试。
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}
