package main

import "unsafe"

// cell 是演示程序里唯一的受管对象形状：一对 car/cdr 引用，足以搭出链表
// 和环。收集器核心本身对载荷布局一无所知——这里的编码方式是宿主程序
// 自己的约定，不是 internal/gc 包的一部分。
const cellSize = unsafe.Sizeof(cellLayout{})

type cellLayout struct {
	car uintptr
	cdr uintptr
}

func cellAt(ref uintptr) *cellLayout {
	return (*cellLayout)(unsafe.Pointer(ref))
}

func setCar(ref, car uintptr) { cellAt(ref).car = car }
func setCdr(ref, cdr uintptr) { cellAt(ref).cdr = cdr }

// visitCell 是每个 cell 的访问者：把 car/cdr 都汇报给收集器。在分配时
// 绑定到具体的 *gc.Collector 上，存进访问者表。
func visitCell(mark func(ref uintptr)) func(ref uintptr) {
	return func(ref uintptr) {
		c := cellAt(ref)
		mark(c.car)
		mark(c.cdr)
	}
}
