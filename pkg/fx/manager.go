package fx

import (
	"fmt"
	"log"
)

// ParticleSystemId 粒子系统池槽位的句柄，零值永远无效
// 槽位复用时代数递增，旧句柄因此保持无效
type ParticleSystemId struct {
	Index      int
	Generation uint32
}

type slot struct {
	system     ParticleSystem
	generation uint32
	assigned   bool
}

// Option Manager 配置选项
type Option func(*Manager)

// WithMaxCatchUpSteps 限制单次 SimulateStable 调用执行的固定步数
// 超出上限的步数被丢弃，0 表示不限制
func WithMaxCatchUpSteps(n int) Option {
	return func(m *Manager) { m.sched.maxCatch = max(n, 0) }
}

// WithSnapshotFPS 设置生成快照时的步进帧率
func WithSnapshotFPS(fps int) Option {
	return func(m *Manager) {
		if fps > 0 {
			m.snapshotFps = fps
		}
	}
}

// WithVerbose 启用生命周期日志
func WithVerbose(verbose bool) Option {
	return func(m *Manager) { m.verbose = verbose }
}

// Manager 粒子系统管理器
// 职责：
//   - 管理粒子系统池（槽位分配与回收）
//   - 驱动模拟并生成绘制批次
//
// 非并发安全
type Manager struct {
	defs  *DefinitionRegistry
	slots []slot

	spawnClock uint32
	spawnSeq   uint64

	sched        scheduler
	steps        uint64
	droppedSteps uint64
	snapshotFps  int

	snapshots *SnapshotCache
	quads     []DrawParticle
	buffers   DrawBuffers
	verbose   bool
}

// NewManager 基于 defs 创建空的管理器
func NewManager(defs *DefinitionRegistry, opts ...Option) *Manager {
	m := &Manager{
		defs:        defs,
		spawnClock:  1,
		sched:       newScheduler(0),
		snapshotFps: 60,
		snapshots:   newDefinitionCache(defs),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Definitions 返回管理器使用的定义注册表
func (m *Manager) Definitions() *DefinitionRegistry {
	return m.defs
}

// SpawnClock 返回当前生成时钟，从 1 开始，每次 Simulate 加一
func (m *Manager) SpawnClock() uint32 {
	return m.spawnClock
}

// AddSystem 创建 effect 的新实例，优先复用索引最小的空闲槽位
func (m *Manager) AddSystem(effect EffectName, cfg InitConfig) ParticleSystemId {
	def := m.defs.Effect(effect)
	idx := -1
	for i := range m.slots {
		if !m.slots[i].assigned {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.slots = append(m.slots, slot{})
		idx = len(m.slots) - 1
	}
	m.spawnSeq++
	s := &m.slots[idx]
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	s.assigned = true
	s.system = NewParticleSystem(def, m.spawnClock, cfg, mix(m.spawnSeq))
	return ParticleSystemId{Index: idx, Generation: s.generation}
}

// AddVariant 按变体的着色和强度创建其特效实例
func (m *Manager) AddVariant(variant VariantName, cfg InitConfig) ParticleSystemId {
	v := VariantDef(variant)
	return m.AddSystem(v.Effect, v.Apply(cfg))
}

// Kill 停止实例
// immediate 为 true 时立即死亡，否则停止发射，等粒子全部消失后死亡
// 无效句柄被忽略
func (m *Manager) Kill(id ParticleSystemId, immediate bool) {
	if !m.Valid(id) {
		return
	}
	ps := &m.slots[id.Index].system
	switch {
	case immediate:
		ps.Status = StatusDead
		for i := range ps.SubSystems {
			ps.SubSystems[i].Particles = nil
		}
	case ps.Status == StatusAlive:
		ps.Status = StatusDying
	}
}

// KillAll 停止所有有效实例
func (m *Manager) KillAll(immediate bool) {
	for _, id := range m.Systems() {
		m.Kill(id, immediate)
	}
}

// Valid 检查 id 是否指向已分配的槽位（包括尚未回收的死亡系统）
func (m *Manager) Valid(id ParticleSystemId) bool {
	if id.Index < 0 || id.Index >= len(m.slots) || id.Generation == 0 {
		return false
	}
	s := &m.slots[id.Index]
	return s.assigned && s.generation == id.Generation
}

func (m *Manager) status(id ParticleSystemId) Status {
	if !m.Valid(id) {
		return StatusDead
	}
	return m.slots[id.Index].system.Status
}

// Alive 检查 id 是否有效且未死亡
// 正在消亡的系统在最后一个粒子消失前仍然存活
func (m *Manager) Alive(id ParticleSystemId) bool { return m.status(id) != StatusDead }

// Dying 检查 id 是否已停止发射但仍有粒子
func (m *Manager) Dying(id ParticleSystemId) bool { return m.status(id) == StatusDying }

// Emitting 检查 id 是否存活且未在消亡
func (m *Manager) Emitting(id ParticleSystemId) bool { return m.status(id) == StatusAlive }

// Dead 检查 id 是否已死亡，无效句柄视为死亡
func (m *Manager) Dead(id ParticleSystemId) bool { return m.status(id) == StatusDead }

// Get 返回 id 对应的粒子系统，调用方需先检查 Valid
func (m *Manager) Get(id ParticleSystemId) *ParticleSystem {
	if !m.Valid(id) {
		panic(fmt.Sprintf("fx: invalid particle system id %+v", id))
	}
	return &m.slots[id.Index].system
}

// Simulate 按槽位顺序将所有存活和消亡中的系统推进 dt 秒，然后回收死亡系统的槽位
func (m *Manager) Simulate(dt float64) {
	for i := range m.slots {
		s := &m.slots[i]
		if s.assigned && s.system.Status != StatusDead {
			s.system.Advance(m.defs.Effect(s.system.Effect), dt)
		}
	}
	reaped := 0
	for i := range m.slots {
		s := &m.slots[i]
		if s.assigned && s.system.Status == StatusDead {
			s.assigned = false
			s.system = ParticleSystem{}
			reaped++
		}
	}
	if reaped > 0 && m.verbose {
		log.Printf("[FXManager] reaped %d systems at clock %d", reaped, m.spawnClock)
	}
	m.spawnClock++
	m.steps++
}

// AliveSystems 按槽位顺序返回存活（含消亡中）系统的句柄
func (m *Manager) AliveSystems() []ParticleSystemId {
	var ids []ParticleSystemId
	for i := range m.slots {
		s := &m.slots[i]
		if s.assigned && s.system.Status != StatusDead {
			ids = append(ids, ParticleSystemId{Index: i, Generation: s.generation})
		}
	}
	return ids
}

// Systems 按槽位顺序返回所有有效句柄
func (m *Manager) Systems() []ParticleSystemId {
	var ids []ParticleSystemId
	for i := range m.slots {
		s := &m.slots[i]
		if s.assigned {
			ids = append(ids, ParticleSystemId{Index: i, Generation: s.generation})
		}
	}
	return ids
}

// GenQuads 为存活和消亡中系统的每个粒子生成一个 DrawParticle
// 顺序为槽位、子系统、发射顺序；返回的切片在下次调用时复用
func (m *Manager) GenQuads() []DrawParticle {
	m.quads = m.quads[:0]
	for i := range m.slots {
		s := &m.slots[i]
		if s.assigned && s.system.Status != StatusDead {
			m.quads = AppendQuads(m.quads, m.defs, &s.system)
		}
	}
	return m.quads
}

// GenBuffers 将当前粒子合批，缓冲区在下次调用时复用
func (m *Manager) GenBuffers() *DrawBuffers {
	m.buffers.Fill(m.GenQuads())
	return &m.buffers
}
