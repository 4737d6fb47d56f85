package pagealloc

import "sync"

// MmapAllocator 是生产环境使用的页分配器：每次 Allocate 向操作系统要
// 整数个页（mmap/VirtualAlloc），Free 把页还给操作系统（munmap/
// VirtualFree）。平台相关的系统调用分别在 mmap_unix.go（经由
// golang.org/x/sys/unix）和 mmap_windows.go（经由
// golang.org/x/sys/windows，跟教师仓库 internal/jit/mmap_windows.go
// 用的是同一个包）里实现；本文件只放跟平台无关的簿记逻辑。
type MmapAllocator struct {
	mu       sync.Mutex
	pageSize uintptr
	mappings map[uintptr]uintptr // 地址 -> 实际映射的对齐长度，Free 时用来确定 munmap 的长度
}

// NewMmapAllocator 创建一个按 OS 页粒度工作的分配器。
func NewMmapAllocator() *MmapAllocator {
	return &MmapAllocator{
		pageSize: platformPageSize(),
		mappings: make(map[uintptr]uintptr, 32),
	}
}

func (a *MmapAllocator) alignUp(n uintptr) uintptr {
	return (n + a.pageSize - 1) &^ (a.pageSize - 1)
}

// Allocate 向操作系统申请至少 n 字节、按页对齐的原始内存。
func (a *MmapAllocator) Allocate(n uintptr) (uintptr, error) {
	aligned := a.alignUp(n)

	addr, err := platformMmap(aligned)
	if err != nil {
		return 0, &AllocError{Requested: n, Reason: err.Error()}
	}

	a.mu.Lock()
	a.mappings[addr] = aligned
	a.mu.Unlock()

	return addr, nil
}

// Free 把之前 Allocate 返回的地址对应的页还给操作系统。
func (a *MmapAllocator) Free(addr uintptr) {
	a.mu.Lock()
	length, ok := a.mappings[addr]
	if ok {
		delete(a.mappings, addr)
	}
	a.mu.Unlock()

	if !ok {
		return
	}
	platformMunmap(addr, length)
}
