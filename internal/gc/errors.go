package gc

import "fmt"

// ErrOversizeAllocation 在请求的载荷大小加上头部大小溢出地址空间时返回。
// spec.md §7 把这归为致命、不可恢复的情况——调用方不应该试图重试或者
// 降级处理，而是让进程终止（Allocate 对此直接 panic，不返回 error 给
// 调用方去"优雅处理"）。收集器的其它致命路径——页分配器返回错误、
// 哨兵分配失败、查到无效的访问者索引——也用它作为被包裹的基础错误。
var ErrOversizeAllocation = fmt.Errorf("gc: requested allocation exceeds address space")

// fatalf 统一致命路径：用 %w 包裹后 panic，方便顶层用
// recover + errors.Is/As 做诊断，但绝不允许被当作软错误静默吞掉。
func fatalf(base error, format string, args ...interface{}) {
	panic(fmt.Errorf("%w: "+format, append([]interface{}{base}, args...)...))
}
