package pagealloc

import (
	"sync"
	"unsafe"
)

// defaultChunkSize 是 ArenaAllocator 每个内存块的默认大小：64KB，跟教
// 师仓库 internal/ast/arena.go 的 defaultChunkSize 选用同一个数字，
// 权衡理由也一样——太小会频繁分配新块，太大浪费内存。
const defaultChunkSize = 64 * 1024

// ArenaAllocator 是一个进程内的 bump 分配器，外加一个按申请字节数分桶
// 的空闲链表用于复用已释放的块——复用链表的设计直接对应教师仓库
// internal/vm/gc.go 里的 ObjectPool/ArgsPoolManager：按大小分档，命中
// 就直接复用，不命中才真正从当前块里切一段新内存。
//
// 底层存储用 []uint64 而不是 []byte：uint64 元素天然按 8 字节对齐，
// 这样从块里切出来的每一段地址也都是 8 字节对齐的，满足
// internal/gc 头部要求的"低 2 位恒为 0"的前提，不需要额外的对齐计算。
//
// Allocate、Free 和 Stats 都在持有 mu 的情况下执行，所以同一个实例上
// 的并发调用会被串行化。
type ArenaAllocator struct {
	chunkSize int
	chunks    [][]uint64 // 钉住所有块，防止宿主 Go GC 回收仍在被收集器认为存活的内存
	cur       []uint64   // 当前块的剩余容量视图

	sizes map[uintptr]uintptr   // 已分配地址 -> 申请字节数，Free 时用来找回对应的分桶
	free  map[uintptr][]uintptr // 申请字节数 -> 该大小下可复用的已释放地址

	hits, misses int64

	mu sync.Mutex
}

// NewArenaAllocator 创建一个 arena 分配器。chunkSize<=0 时使用默认值。
func NewArenaAllocator(chunkSize int) *ArenaAllocator {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &ArenaAllocator{
		chunkSize: chunkSize,
		sizes:     make(map[uintptr]uintptr, 128),
		free:      make(map[uintptr][]uintptr, 8),
	}
}

// Allocate 返回至少 n 字节、8 字节对齐的原始内存地址。优先从同大小的
// 空闲链表复用；链表为空时从当前块切一段，块不够就新开一块。
func (a *ArenaAllocator) Allocate(n uintptr) (uintptr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if bucket := a.free[n]; len(bucket) > 0 {
		addr := bucket[len(bucket)-1]
		a.free[n] = bucket[:len(bucket)-1]
		a.hits++
		a.sizes[addr] = n
		return addr, nil
	}
	a.misses++

	words := (n + 7) / 8
	if words == 0 {
		words = 1
	}
	if uintptr(len(a.cur)) < words {
		chunkWords := uintptr(a.chunkSize) / 8
		if chunkWords < words {
			chunkWords = words
		}
		chunk := make([]uint64, chunkWords)
		a.chunks = append(a.chunks, chunk)
		a.cur = chunk
	}

	block := a.cur[:words]
	a.cur = a.cur[words:]

	addr := uintptr(unsafe.Pointer(&block[0]))
	a.sizes[addr] = n
	return addr, nil
}

// Free 把 addr 归还给空闲链表，供后续相同大小的 Allocate 复用。对底层
// []uint64 块本身并不做任何事——bump 分配器从不收缩，块会随着整个
// ArenaAllocator 一起被宿主 GC 回收。
func (a *ArenaAllocator) Free(addr uintptr) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n, ok := a.sizes[addr]
	if !ok {
		// 未知地址（重复释放或者不是本分配器分配的），没有大小信息可
		// 复用，直接忽略——跟教师仓库 ObjectPool.Put 在池满时"丢弃对象
		// 让 GC 回收"是同一个保守策略。
		return
	}
	delete(a.sizes, addr)
	a.free[n] = append(a.free[n], addr)
}

// Stats 返回复用链表的命中/未命中次数，用于调试观测。
func (a *ArenaAllocator) Stats() (hits, misses int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits, a.misses
}
