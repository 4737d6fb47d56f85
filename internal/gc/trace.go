package gc

import "go.uber.org/zap"

// traceLogger 是 Collector 内部用来打点的最小接口，真正的实现要么是
// noopLogger（默认，零开销），要么是包着 *zap.Logger 的 zapTraceLogger。
// spec.md §6 提到"唯一隐含的可调项是编译期 trace 开关"；这里把它做成
// 运行时开关（SetLogger/DisableTrace），但默认关闭时走 noopLogger，不产生任何
// 格式化或者分配开销，精神上等价于编译期常量。
type traceLogger interface {
	Debugw(msg string, kv ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugw(string, ...interface{}) {}

type zapTraceLogger struct{ l *zap.Logger }

func (z zapTraceLogger) Debugw(msg string, kv ...interface{}) {
	z.l.Sugar().Debugw(msg, kv...)
}

// SetLogger 把收集器的调试打点接到一个 zap.Logger 上；传 nil 等价于
// DisableTrace。每次状态转移、sweep 释放计数、写屏障触发都会在
// Debug 级别打一条结构化日志，字段跟教师仓库 internal/vm/gc.go 里
// CollectYoung 的 println 调试块一一对应，只是换成了结构化字段。
func (c *Collector) SetLogger(l *zap.Logger) {
	if l == nil {
		c.logger = noopLogger{}
		return
	}
	c.logger = zapTraceLogger{l: l}
}

// DisableTrace 关闭调试打点，回到零开销的 noopLogger。
func (c *Collector) DisableTrace() {
	c.logger = noopLogger{}
}
