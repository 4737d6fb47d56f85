package gc

// maxUintptr is the largest representable address-sized value on the
// host platform; used to detect size_t overflow before it can wrap.
const maxUintptr = ^uintptr(0)

// PageAllocator 是收集器消费的"无类型分配器"外部协作者（spec.md §6）。
// internal/pagealloc 中的两个实现（mmap 与 arena）都满足这个接口；本
// 包只依赖接口本身，从不假设具体后端。
type PageAllocator interface {
	// Allocate 返回至少 n 字节、地址按平台指针对齐的原始内存。
	// 分配失败是致命的：实现返回非 nil error 时，收集器直接 panic，不会重试。
	Allocate(n uintptr) (uintptr, error)
	// Free 释放之前由 Allocate 返回的地址。
	Free(addr uintptr)
}

// RootSource 是收集器消费的"根枚举"外部协作者（spec.md §6）。
type RootSource interface {
	// IterateRoots 对每一个当前存活的根引用调用一次 cb。
	IterateRoots(cb func(ref uintptr))
}

// VisitFunc 是对象的子引用访问者：对该对象引用的每一个子对象调用一次
// Collector.Mark。
type VisitFunc func(ref uintptr)

// State 是驱动增量进度的四个收集器状态之一。
type State byte

const (
	StateInit State = iota
	StateIdle
	StateMark
	StateSweep
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateIdle:
		return "idle"
	case StateMark:
		return "mark"
	case StateSweep:
		return "sweep"
	default:
		return "unknown"
	}
}

// Stats 是 Collector 对外暴露的累计统计信息，用于调试/观测，不参与
// 任何收集决策。
type Stats struct {
	Allocations int64
	Collections int64
	Freed       int64
}

// Collector 是三色标记-清除收集器的状态机实例。它拥有 from、to、iter、
// white 这几个 spec.md §2 中列出的核心全局量，以及驱动它们所需要的
// 外部协作者引用。
//
// Collector 不是并发安全的：spec.md §5 把它定义为严格单线程协作式的——
// 所有 Allocate/Link/Mark/Collect 调用必须来自同一个逻辑线程，访问者
// 里也不能反过来调用这四者之一。需要多线程 STW 包装的场景不在本包范围
// 内（见 SPEC_FULL.md §5）。
type Collector struct {
	alloc PageAllocator
	roots RootSource

	from *header
	to   *header
	iter *header
	white Color

	state State

	visitors       []VisitFunc
	freeVisitorIDs []uintptr

	stats Stats

	logger traceLogger
}

// New 创建一个尚未初始化（State 为 StateInit）的收集器。第一次调用
// Allocate/Collect/Step 时会完成两个哨兵的分配并转入 StateIdle。
func New(alloc PageAllocator, roots RootSource) *Collector {
	return &Collector{
		alloc:  alloc,
		roots:  roots,
		white:  colorTag0,
		state:  StateInit,
		logger: noopLogger{},
	}
}

// State 返回当前状态机状态。
func (c *Collector) State() State { return c.state }

// Stats 返回收集器的累计统计信息快照。
func (c *Collector) Stats() Stats { return c.stats }

func (c *Collector) black() Color { return Color(uintptr(c.white) ^ 1) }

// registerVisitor 把 visit 存入访问者表，返回它的 1-based 索引。优先
// 复用 stepSweep 回收的旧槽位，否则访问者表会随着"总分配次数"无限增长，
// 而不是随存活对象数增长——长期运行的嵌入场景里这等于一个永不释放的
// 内存泄漏。
func (c *Collector) registerVisitor(visit VisitFunc) uintptr {
	if n := len(c.freeVisitorIDs); n > 0 {
		id := c.freeVisitorIDs[n-1]
		c.freeVisitorIDs = c.freeVisitorIDs[:n-1]
		c.visitors[id-1] = visit
		return id
	}
	c.visitors = append(c.visitors, visit)
	return uintptr(len(c.visitors))
}

func (c *Collector) visitorAt(id uintptr) VisitFunc {
	if id == poisonVisitID || int(id) > len(c.visitors) {
		fatalf(ErrOversizeAllocation, "invalid visitor id %d (sentinel or freed header scanned)", id)
	}
	return c.visitors[id-1]
}

// Allocate 返回一段新的受管载荷引用，初始颜色为当前白色，挂在 from
// 集合中；同时执行一次收集器步进（spec.md §4.6）。
func (c *Collector) Allocate(size uintptr, visit VisitFunc) uintptr {
	if size > maxUintptr-headerSize {
		fatalf(ErrOversizeAllocation, "size=%d header=%d", size, headerSize)
	}

	c.Step()

	total := headerSize + size
	raw, err := c.alloc.Allocate(total)
	if err != nil {
		fatalf(ErrOversizeAllocation, "allocator: %w", err)
	}

	h := headerAt(raw)
	h.visitID = c.registerVisitor(visit)
	h.setColorTag(c.white)
	push(c.from, h)

	c.stats.Allocations++
	c.logger.Debugw("allocate", "size", size, "state", c.state.String())

	return payloadRef(h)
}

// Link 是写屏障（spec.md §4.2）：mutator 在把 child 存入 parent 的字段
// 之后必须调用它，用来维护"黑色对象不能直接引用白色对象"的三色不变量。
func (c *Collector) Link(parent, child uintptr) {
	if parent == 0 || child == 0 {
		return
	}
	p := headerFromPayload(parent)
	ch := headerFromPayload(child)
	if p.colorTag() == c.black() && ch.colorTag() == Color(c.white) {
		c.logger.Debugw("barrier", "action", "gray-parent")
		c.makeGray(p)
	}
}

// Mark 把一个白色对象变灰（spec.md §4.4）。根枚举和对象访问者都通过它
// 来汇报一个可达的子引用；ref 为 0（null）时直接返回。
func (c *Collector) Mark(ref uintptr) {
	if ref == 0 {
		return
	}
	h := headerFromPayload(ref)
	if h.colorTag() == Color(c.white) {
		c.makeGray(h)
	}
}

// makeGray 把 obj 从它当前所在的集合迁移到 to 集合，并涂灰
// （spec.md §4.3）。如果 obj 正好是 MARK 正在扫描的游标，必须先把游标
// 退回到它的前驱，否则游标会悬空。
func (c *Collector) makeGray(obj *header) {
	if obj == c.iter {
		c.iter = headerAt(obj.prev)
	}
	unlink(obj)
	push(c.to, obj)
	obj.setColorTag(ColorGray)
}

// Step 执行一个有界的收集单元（spec.md §4.5），返回步进之后的状态。
func (c *Collector) Step() State {
	switch c.state {
	case StateInit:
		c.initSentinels()
		c.state = StateIdle
		return c.stepIdle()

	case StateIdle:
		return c.stepIdle()

	case StateMark:
		return c.stepMark()

	case StateSweep:
		return c.stepSweep()
	}
	return c.state
}

func (c *Collector) initSentinels() {
	fromAddr, err := c.alloc.Allocate(headerSize)
	if err != nil {
		fatalf(ErrOversizeAllocation, "sentinel alloc: %w", err)
	}
	toAddr, err := c.alloc.Allocate(headerSize)
	if err != nil {
		fatalf(ErrOversizeAllocation, "sentinel alloc: %w", err)
	}

	c.from = newSentinel(fromAddr)
	c.to = newSentinel(toAddr)
	// iter = to：第一次 MARK 会立刻发现灰色队列已经耗尽并触发交换，
	// 这正是空堆情况下"立即完成一轮"的预期行为。
	c.iter = c.to
}

// stepIdle 枚举根集合，把每个可达的白色对象涂灰并转入 MARK；本步不做
// 任何逐对象扫描，只负责给灰色队列"播种"。
func (c *Collector) stepIdle() State {
	c.roots.IterateRoots(c.Mark)
	c.state = StateMark
	c.logger.Debugw("transition", "to", "mark")
	return c.state
}

// stepMark 把游标前进一个对象；游标追到哨兵时代表灰色队列暂时耗尽，
// 重新枚举一次根集合兜底，如果仍然耗尽就完成 from/to 交换并翻转白色。
func (c *Collector) stepMark() State {
	obj := headerAt(c.iter.nextAddr())
	if obj != c.to {
		c.iter = obj
		obj.setColorTag(c.black())
		visit := c.visitorAt(obj.visitID)
		visit(payloadRef(obj))
		return c.state
	}

	c.roots.IterateRoots(c.Mark)
	if headerAt(c.iter.nextAddr()) != c.to {
		// 重新枚举根集合后又出现了新的灰色对象，继续留在 MARK。
		return c.state
	}

	c.from, c.to = c.to, c.from
	c.white = Color(uintptr(c.white) ^ 1)
	c.iter = headerAt(c.to.nextAddr())
	c.state = StateSweep
	c.logger.Debugw("transition", "to", "sweep", "white", uintptr(c.white))
	return c.state
}

// stepSweep 释放一个 to 集合中的对象（即上一轮从未被标记过的白色对
// 象），游标追到哨兵时代表清除完成，回到 IDLE。
func (c *Collector) stepSweep() State {
	obj := c.iter
	if obj != c.to {
		c.iter = headerAt(obj.nextAddr())
		c.visitors[obj.visitID-1] = nil
		c.freeVisitorIDs = append(c.freeVisitorIDs, obj.visitID)
		c.alloc.Free(addrOf(obj))
		c.stats.Freed++
		return c.state
	}

	clear(c.to)
	c.state = StateIdle
	c.stats.Collections++
	c.logger.Debugw("transition", "to", "idle", "freed", c.stats.Freed)
	return c.state
}

// Collect 驱动状态机跑完一整个周期（spec.md §4.7）：如果当前处于
// INIT/IDLE 就先走一步进入 MARK，然后持续 Step 直到重新回到 IDLE。
func (c *Collector) Collect() {
	if c.state == StateInit || c.state == StateIdle {
		c.Step()
	}
	for c.state != StateIdle {
		c.Step()
	}
}
