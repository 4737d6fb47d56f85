//go:build windows

package pagealloc

import (
	"golang.org/x/sys/windows"
)

const (
	memCommit    = 0x1000
	memReserve   = 0x2000
	memRelease   = 0x8000
	pageReadWrite = 0x04
)

// platformPageSize 返回 Windows 平台的分配粒度。VirtualAlloc 本身就
// 按系统分配粒度对齐，这里取标准 4KB 页大小，跟教师仓库
// internal/jit/mmap_windows.go 的 pageSize 常量一致。
func platformPageSize() uintptr {
	return 4096
}

// platformMmap 通过 VirtualAlloc 申请可读写内存（跟教师仓库用
// PAGE_EXECUTE_READWRITE 给 JIT 代码申请可执行页不同，托管堆对象只需
// 要读写权限）。
func platformMmap(size uintptr) (uintptr, error) {
	addr, err := windows.VirtualAlloc(0, size, memCommit|memReserve, pageReadWrite)
	if err != nil {
		return 0, err
	}
	return addr, nil
}

// platformMunmap 通过 VirtualFree 释放内存。
func platformMunmap(addr, _ uintptr) {
	_ = windows.VirtualFree(addr, 0, memRelease)
}
