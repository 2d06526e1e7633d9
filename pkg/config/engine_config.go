package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/decker502/fx/pkg/embedded"
	"github.com/decker502/fx/pkg/fx"
	"gopkg.in/yaml.v3"
)

// DefaultEngineConfigPath 随二进制发布的引擎配置文件路径
const DefaultEngineConfigPath = "data/fx/engine.yaml"

// EngineConfig 特效引擎运行时配置
//
// 优先级从低到高：内置默认值、YAML 文件、FX_* 环境变量
//
// 配置文件位置：data/fx/engine.yaml
type EngineConfig struct {
	// DesiredFPS 固定模拟帧率
	DesiredFPS int `yaml:"desired_fps" env:"FX_DESIRED_FPS"`

	// MaxCatchUpSteps 每帧最多执行的模拟步数，0 表示不限制
	MaxCatchUpSteps int `yaml:"max_catch_up_steps" env:"FX_MAX_CATCH_UP_STEPS"`

	// SnapshotFPS 生成快照时使用的步进帧率
	SnapshotFPS int `yaml:"snapshot_fps" env:"FX_SNAPSHOT_FPS"`

	EffectsPath  string `yaml:"effects_path" env:"FX_EFFECTS_PATH"`
	TexturesPath string `yaml:"textures_path" env:"FX_TEXTURES_PATH"`

	// StoreAppName 保存烘焙快照的 gdata 存储名称
	StoreAppName string `yaml:"store_app_name" env:"FX_STORE_APP"`

	// MetricsAddr 非空时启用 prometheus 端点（如 ":9090"）
	MetricsAddr string `yaml:"metrics_addr" env:"FX_METRICS_ADDR"`

	Verbose bool `yaml:"verbose" env:"FX_VERBOSE"`
}

// DefaultEngineConfig 返回内置默认配置
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DesiredFPS:   60,
		SnapshotFPS:  60,
		EffectsPath:  "data/fx/effects.yaml",
		TexturesPath: "data/fx/textures.yaml",
		StoreAppName: "fx_snapshots",
	}
}

// LoadEngineConfig 从嵌入数据加载引擎配置
func LoadEngineConfig(path string) (*EngineConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config: %w", err)
	}
	return ParseEngineConfig(data)
}

// ParseEngineConfig 在默认值之上解析 YAML，再应用环境变量覆盖并校验结果
func ParseEngineConfig(data []byte) (*EngineConfig, error) {
	config := DefaultEngineConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse engine config: %w", err)
	}
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &config, nil
}

// Validate 检查配置取值范围
func (c *EngineConfig) Validate() error {
	if c.DesiredFPS <= 0 {
		return fmt.Errorf("desired_fps must be positive, got %d", c.DesiredFPS)
	}
	if c.SnapshotFPS <= 0 {
		return fmt.Errorf("snapshot_fps must be positive, got %d", c.SnapshotFPS)
	}
	if c.MaxCatchUpSteps < 0 {
		return fmt.Errorf("max_catch_up_steps must not be negative, got %d", c.MaxCatchUpSteps)
	}
	if c.EffectsPath == "" || c.TexturesPath == "" {
		return fmt.Errorf("effects_path and textures_path are required")
	}
	return nil
}

// ManagerOptions 将配置转换为 fx.Manager 选项
func (c *EngineConfig) ManagerOptions() []fx.Option {
	return []fx.Option{
		fx.WithMaxCatchUpSteps(c.MaxCatchUpSteps),
		fx.WithSnapshotFPS(c.SnapshotFPS),
		fx.WithVerbose(c.Verbose),
	}
}
