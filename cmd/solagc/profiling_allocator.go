package main

import (
	"sync"

	"github.com/tangzhangming/solagc/internal/gc"
	"github.com/tangzhangming/solagc/internal/gcprofile"
)

// profilingAllocator 把每一次 Allocate/Free 都转发给底层分配器，同时喂
// 给 gcprofile.Profiler 一份记录。它本身也满足 gc.PageAllocator，所以
// 可以原样塞进 gc.New 而不需要改动收集器核心。
//
// gc.PageAllocator.Free 只拿得到地址、拿不到大小，所以这里自己记一份
// 地址到大小的映射，在 Free 时查回来喂给 RecordFree。
type profilingAllocator struct {
	gc.PageAllocator
	profile *gcprofile.Profiler

	mu    sync.Mutex
	sizes map[uintptr]uintptr
}

func newProfilingAllocator(backing gc.PageAllocator, profile *gcprofile.Profiler) *profilingAllocator {
	return &profilingAllocator{
		PageAllocator: backing,
		profile:       profile,
		sizes:         make(map[uintptr]uintptr, 256),
	}
}

func (p *profilingAllocator) Allocate(n uintptr) (uintptr, error) {
	addr, err := p.PageAllocator.Allocate(n)
	if err != nil {
		return 0, err
	}
	p.profile.RecordAllocation(n)

	p.mu.Lock()
	p.sizes[addr] = n
	p.mu.Unlock()
	return addr, nil
}

func (p *profilingAllocator) Free(addr uintptr) {
	p.PageAllocator.Free(addr)

	p.mu.Lock()
	size, ok := p.sizes[addr]
	delete(p.sizes, addr)
	p.mu.Unlock()
	if ok {
		p.profile.RecordFree(size)
	}
}
