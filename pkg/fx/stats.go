package fx

// Stats is a point-in-time summary of a Manager.
type Stats struct {
	Instances      int // valid ids, including dead ones awaiting reaping
	Emitting       int // alive and not dying
	Dying          int
	Particles      int
	Steps          uint64
	DroppedSteps   uint64
	SpawnClock     uint32
	SnapshotGroups int
}

// Stats summarizes the pool.
func (m *Manager) Stats() Stats {
	st := Stats{
		Steps:          m.steps,
		DroppedSteps:   m.droppedSteps,
		SpawnClock:     m.spawnClock,
		SnapshotGroups: m.snapshots.Len(),
	}
	for i := range m.slots {
		s := &m.slots[i]
		if !s.assigned {
			continue
		}
		st.Instances++
		switch s.system.Status {
		case StatusAlive:
			st.Emitting++
		case StatusDying:
			st.Dying++
		}
		st.Particles += s.system.ParticleCount()
	}
	return st
}
