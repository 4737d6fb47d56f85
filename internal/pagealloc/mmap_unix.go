//go:build !windows

package pagealloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// platformPageSize 返回 Unix 平台的页大小，取代教师仓库
// internal/jit/mmap_unix.go 里手写的 syscall.Getpagesize()。
func platformPageSize() uintptr {
	return uintptr(unix.Getpagesize())
}

// platformMmap 通过匿名私有映射申请可读写内存（不需要可执行，跟
// internal/jit/mmap_unix.go 给 JIT 代码申请的 PROT_EXEC 映射不同——
// 托管堆对象不执行代码）。
func platformMmap(size uintptr) (uintptr, error) {
	b, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return 0, err
	}
	return uintptr(unsafe.Pointer(&b[0])), nil
}

// platformMunmap 取消映射，归还给操作系统。
func platformMunmap(addr, size uintptr) {
	b := unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size))
	_ = unix.Munmap(b)
}
