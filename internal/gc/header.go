// Package gc 实现了一个增量三色标记-清除垃圾回收器的核心状态机。
//
// 本包只负责收集器自身的语义：对象头、from/to 双向环形链表、写屏障
// 以及驱动增量进度的状态机。原始内存的申请/释放和根集合的枚举被当作
// 外部协作者对待，分别对应 internal/pagealloc 和 internal/gcroots 中
// 定义的接口——本包从不直接调用操作系统分配内存。
package gc

import "unsafe"

// header 是每个受管对象前缀的固定布局头部。
//
// 三个字段都是机器字长（uintptr），这样头部本身天然按照平台指针对齐，
// 也让 nextWithColor 的低 2 位可以安全地用来打包颜色标记：调用方申请
// 的每一段原始内存都经由 pagealloc.Allocator 返回，按 8 字节对齐（见
// internal/pagealloc 的实现说明），满足"低 2 位恒为 0"的前提。
//
// visitID 不直接存储访问者函数的机器码地址——Go 闭包不是可重定位的裸
// 指针，没有稳定的"地址"可言。这里改为存储一个到 Collector 内部访问者
// 表的索引（1-based，0 保留给哨兵的"毒化"访问者），语义上仍然是"头部
// 携带一个可调用的访问者"，调用方式从直接跳转变成一次表查找。
type header struct {
	nextWithColor uintptr // 高位 = 所属集合中下一个头部的地址，低 2 位 = 颜色标记
	prev          uintptr // 所属集合中上一个头部的地址
	visitID       uintptr // 访问者表索引；0 是哨兵专用的"毒化"值，绝不会被调用
}

// headerSize 是头部在目标平台上的大小，分配时要加到有效载荷大小之上。
const headerSize = unsafe.Sizeof(header{})

// poisonVisitID 是哨兵头部携带的访问者索引，访问者表中没有任何条目
// 对应这个值，任何意外调用都会在 visitor 查找处直接 panic。
const poisonVisitID uintptr = 0

const colorMask uintptr = 0x3

// Color 是三色标记里的颜色标记。白色不是固定的比特模式，而是
// Collector.white 这个每个周期翻转一次的值；黑色永远是 !white。
// 灰色是固定的常量标记值 2，两者都不会与之混淆。
type Color uintptr

const (
	colorTag0 Color = 0
	colorTag1 Color = 1
	// ColorGray 是灰色的固定标记值，白/黑使用 colorTag0/colorTag1 中
	// 当前未被 white 占用的那一个，随周期交替含义。
	ColorGray Color = 2
)

func headerAt(addr uintptr) *header {
	return (*header)(unsafe.Pointer(addr))
}

func addrOf(h *header) uintptr {
	return uintptr(unsafe.Pointer(h))
}

// payloadRef 返回紧随头部之后的有效载荷地址。
func payloadRef(h *header) uintptr {
	return addrOf(h) + headerSize
}

// headerFromPayload 是 payloadRef 的逆运算，所有公开 API 用它把调用方
// 交来的载荷引用转换回内部头部指针。
func headerFromPayload(ref uintptr) *header {
	return headerAt(ref - headerSize)
}

func (h *header) nextAddr() uintptr {
	return h.nextWithColor &^ colorMask
}

func (h *header) setNextAddr(addr uintptr) {
	h.nextWithColor = (addr &^ colorMask) | (h.nextWithColor & colorMask)
}

func (h *header) colorTag() Color {
	return Color(h.nextWithColor & colorMask)
}

func (h *header) setColorTag(c Color) {
	h.nextWithColor = h.nextAddr() | (uintptr(c) & colorMask)
}
