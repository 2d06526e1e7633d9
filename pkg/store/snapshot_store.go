// Package store 使用 gdata 存储持久化烘焙好的快照组
package store

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"

	"github.com/decker502/fx/pkg/fx"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	snapshotsObject = "snapshots"
	indexProperty   = "index"

	// formatVersion 快照编码格式变化时递增
	formatVersion = 1
)

// ErrNotFound 指定特效和键没有已保存的快照组
var ErrNotFound = errors.New("snapshot group not found")

// GroupRef 已保存快照组的索引项
type GroupRef struct {
	Effect string     `yaml:"effect"`
	Key    [2]float64 `yaml:"key"`
}

type snapshotRecord struct {
	Version int
	Group   fx.SnapshotGroup
}

// SnapshotStore 快照组的保存和加载
//
// 没有 gdata 管理器时降级为空操作：保存直接成功，加载返回 ErrNotFound
type SnapshotStore struct {
	gdataManager *gdata.Manager
}

// New 包装 gdata 管理器（可以为 nil）
func New(gdataManager *gdata.Manager) *SnapshotStore {
	return &SnapshotStore{gdataManager: gdataManager}
}

// Open 打开 appName 对应的 gdata 存储
func Open(appName string) (*SnapshotStore, error) {
	gm, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot storage %s: %w", appName, err)
	}
	return New(gm), nil
}

func propertyName(effect fx.EffectName, key fx.SnapshotKey) string {
	return effect.String() + "_" +
		strconv.FormatFloat(key[0], 'g', -1, 64) + "_" +
		strconv.FormatFloat(key[1], 'g', -1, 64)
}

// Save 使用 gob 编码 g 并记录到索引
func (s *SnapshotStore) Save(g *fx.SnapshotGroup) error {
	if s.gdataManager == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snapshotRecord{Version: formatVersion, Group: *g}); err != nil {
		return fmt.Errorf("failed to encode snapshot group %s: %w", g.Effect, err)
	}
	prop := propertyName(g.Effect, g.Key)
	if err := s.gdataManager.SaveObjectProp(snapshotsObject, prop, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save snapshot group %s: %w", prop, err)
	}

	refs, err := s.List()
	if err != nil {
		return err
	}
	ref := GroupRef{Effect: g.Effect.String(), Key: g.Key}
	if !slices.Contains(refs, ref) {
		refs = append(refs, ref)
		if err := s.saveIndex(refs); err != nil {
			return err
		}
	}
	log.Printf("[SnapshotStore] saved %s (%d snapshots, %d bytes)", prop, len(g.Snapshots), buf.Len())
	return nil
}

// Load 解码指定特效和键的快照组，并检查格式版本和布局
func (s *SnapshotStore) Load(effect fx.EffectName, key fx.SnapshotKey) (*fx.SnapshotGroup, error) {
	if !s.Exists(effect, key) {
		return nil, ErrNotFound
	}
	prop := propertyName(effect, key)
	data, err := s.gdataManager.LoadObjectProp(snapshotsObject, prop)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot group %s: %w", prop, err)
	}
	var record snapshotRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot group %s: %w", prop, err)
	}
	if record.Version != formatVersion {
		return nil, fmt.Errorf("snapshot group %s has format version %d, want %d", prop, record.Version, formatVersion)
	}
	if record.Group.Effect != effect || record.Group.Key != key {
		return nil, fmt.Errorf("snapshot group %s holds %s %v", prop, record.Group.Effect, record.Group.Key)
	}
	if err := record.Group.Validate(nil); err != nil {
		return nil, fmt.Errorf("invalid snapshot group %s: %w", prop, err)
	}
	return &record.Group, nil
}

// Exists 检查指定特效和键的快照组是否存在
func (s *SnapshotStore) Exists(effect fx.EffectName, key fx.SnapshotKey) bool {
	if s.gdataManager == nil {
		return false
	}
	return s.gdataManager.ObjectPropExists(snapshotsObject, propertyName(effect, key))
}

// Delete 删除指定特效和键的快照组并更新索引
func (s *SnapshotStore) Delete(effect fx.EffectName, key fx.SnapshotKey) error {
	if !s.Exists(effect, key) {
		return nil
	}
	prop := propertyName(effect, key)
	if err := s.gdataManager.DeleteObjectProp(snapshotsObject, prop); err != nil {
		return fmt.Errorf("failed to delete snapshot group %s: %w", prop, err)
	}
	refs, err := s.List()
	if err != nil {
		return err
	}
	ref := GroupRef{Effect: effect.String(), Key: key}
	return s.saveIndex(slices.DeleteFunc(refs, func(r GroupRef) bool { return r == ref }))
}

// List 按保存顺序返回索引中的快照组
func (s *SnapshotStore) List() ([]GroupRef, error) {
	if s.gdataManager == nil || !s.gdataManager.ObjectPropExists(snapshotsObject, indexProperty) {
		return nil, nil
	}
	data, err := s.gdataManager.LoadObjectProp(snapshotsObject, indexProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot index: %w", err)
	}
	var refs []GroupRef
	if err := yaml.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot index: %w", err)
	}
	return refs, nil
}

func (s *SnapshotStore) saveIndex(refs []GroupRef) error {
	data, err := yaml.Marshal(refs)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot index: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(snapshotsObject, indexProperty, data); err != nil {
		return fmt.Errorf("failed to save snapshot index: %w", err)
	}
	return nil
}

// LoadAll 将所有已保存的快照组装入 cache，返回装入数量
// 未知特效、无法解码的快照组以及被 cache 拒绝的快照组（如旧版特效定义的烘焙结果）
// 记录日志后跳过
func (s *SnapshotStore) LoadAll(cache *fx.SnapshotCache) (int, error) {
	refs, err := s.List()
	if err != nil {
		return 0, err
	}
	loaded := 0
	for _, ref := range refs {
		effect, err := fx.ParseEffectName(ref.Effect)
		if err != nil {
			log.Printf("[SnapshotStore] skipping %s: %v", ref.Effect, err)
			continue
		}
		g, err := s.Load(effect, ref.Key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			log.Printf("[SnapshotStore] skipping %s %v: %v", ref.Effect, ref.Key, err)
			continue
		}
		if err := cache.Put(g); err != nil {
			log.Printf("[SnapshotStore] skipping stale %s %v: %v", ref.Effect, ref.Key, err)
			continue
		}
		loaded++
	}
	return loaded, nil
}
