// solagc 是三色标记-清除收集器核心（internal/gc）的演示宿主：搭一条
// cell 组成的链表，交替运行 mutator 式的分配/连接和收集器的增量步
// 进，然后打印收集前后的统计信息。
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tangzhangming/solagc/internal/gc"
	"github.com/tangzhangming/solagc/internal/gcconfig"
	"github.com/tangzhangming/solagc/internal/gcprofile"
	"github.com/tangzhangming/solagc/internal/gcroots"
	"github.com/tangzhangming/solagc/internal/pagealloc"
)

var (
	configPath  = flag.String("config", gcconfig.ConfigFileName, "path to solagc.toml")
	numCells    = flag.Int("cells", 64, "number of cells to allocate into a chain")
	traceFlag   = flag.Bool("trace", false, "force debug trace logging regardless of config")
	profileFlag = flag.Bool("profile", false, "record an allocation-size profile and print it at exit")
	profileJSON = flag.Bool("profile-json", false, "print the allocation profile as JSON instead of text")
)

func main() {
	flag.Parse()

	cfg, err := gcconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "solagc: %v\n", err)
		os.Exit(1)
	}
	if *traceFlag {
		cfg.Trace.Enabled = true
	}

	alloc, err := buildAllocator(cfg.Allocator)
	if err != nil {
		fmt.Fprintf(os.Stderr, "solagc: %v\n", err)
		os.Exit(1)
	}

	var profile *gcprofile.Profiler
	if *profileFlag {
		profile = gcprofile.New()
		alloc = newProfilingAllocator(alloc, profile)
	}

	roots := gcroots.NewSet()
	collector := gc.New(alloc, roots)

	if cfg.Trace.Enabled {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "solagc: build logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		collector.SetLogger(logger)
	}

	rootHandle := buildChain(collector, roots, *numCells)

	fmt.Printf("allocated %d cells\n", *numCells)
	printStats("after allocation", collector)

	collector.Collect()
	printStats("after first collect (chain still rooted)", collector)

	roots.UnregisterRoot(rootHandle)
	collector.Collect()
	collector.Collect()
	printStats("after unrooting and two more collects", collector)

	if profile != nil {
		format := gcprofile.FormatText
		if *profileJSON {
			format = gcprofile.FormatJSON
		}
		if err := profile.WriteProfile(os.Stdout, format); err != nil {
			fmt.Fprintf(os.Stderr, "solagc: write profile: %v\n", err)
			os.Exit(1)
		}
	}
}

func buildAllocator(cfg gcconfig.AllocatorConfig) (gc.PageAllocator, error) {
	switch cfg.Backend {
	case gcconfig.BackendMmap:
		return pagealloc.NewMmapAllocator(), nil
	case gcconfig.BackendArena, "":
		return pagealloc.NewArenaAllocator(cfg.ArenaChunkBytes), nil
	default:
		return nil, fmt.Errorf("unknown allocator backend %q", cfg.Backend)
	}
}

// buildChain 分配 n 个 cell，把每个的 cdr 指向下一个，car 留空，返回
// 挂住链表头部的根句柄。头部必须在分配下一个 cell 之前就登记成根——
// Allocate 本身会先跑一步收集器，如果这期间灰色队列因为完全没有根而
// 出现过"空"的瞬间，孤零零的头部就会被当成本轮没有任何东西存活而被
// 提前清除。
func buildChain(c *gc.Collector, roots *gcroots.Set, n int) gcroots.Handle {
	head := c.Allocate(cellSize, visitCell(c.Mark))
	handle := roots.RegisterRoot(head)

	prev := head
	for i := 1; i < n; i++ {
		ref := c.Allocate(cellSize, visitCell(c.Mark))
		setCdr(prev, ref)
		c.Link(prev, ref)
		prev = ref
	}
	return handle
}

func printStats(label string, c *gc.Collector) {
	s := c.Stats()
	fmt.Printf("[%s] state=%s allocations=%d collections=%d freed=%d\n",
		label, c.State(), s.Allocations, s.Collections, s.Freed)
}
