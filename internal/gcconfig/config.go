// Package gcconfig 为 cmd/solagc 演示程序加载 toml 配置：选用哪种页
// 分配器后端、arena 的块大小、是否打开收集器的调试追踪。收集器核心
// （internal/gc）本身不读取任何配置，这里只是嵌入它的宿主程序的配置层。
//
// 结构和加载方式直接对应教师仓库 internal/pkg/config.go 的
// PackageConfig/LoadConfig：toml 反序列化 + 默认值兜底，没有引入额外
// 的配置框架。
package gcconfig

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const ConfigFileName = "solagc.toml"

// Backend 选择 internal/pagealloc 的哪个实现。
type Backend string

const (
	BackendArena Backend = "arena"
	BackendMmap  Backend = "mmap"
)

// Config 是 solagc 演示程序的完整配置。
type Config struct {
	Allocator AllocatorConfig `toml:"allocator"`
	Trace     TraceConfig     `toml:"trace"`
}

// AllocatorConfig 控制页分配器的选型和参数。
type AllocatorConfig struct {
	// Backend 是 "arena" 或 "mmap"，留空时按 Default() 解析为 "arena"。
	Backend Backend `toml:"backend"`
	// ArenaChunkBytes 是 arena 后端每个内存块的大小，<=0 时使用
	// pagealloc 包自身的默认值。
	ArenaChunkBytes int `toml:"arena_chunk_bytes"`
}

// TraceConfig 控制收集器的调试日志。
type TraceConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default 返回跟教师仓库 GenerateDefault 一样用途的兜底配置：不存在
// 配置文件时，演示程序仍然能以合理的默认值跑起来。
func Default() *Config {
	return &Config{
		Allocator: AllocatorConfig{
			Backend:         BackendArena,
			ArenaChunkBytes: 64 * 1024,
		},
		Trace: TraceConfig{Enabled: false},
	}
}

// Load 从文件加载配置。文件不存在时返回 Default()，而不是报错——演示
// 程序的配置是可选的调优项，不是必需的启动前提。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("gcconfig: read %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("gcconfig: parse %s: %w", path, err)
	}
	if cfg.Allocator.Backend == "" {
		cfg.Allocator.Backend = BackendArena
	}
	return cfg, nil
}
