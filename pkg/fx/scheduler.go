package fx

import (
	"fmt"
	"log"
	"math"
)

// stepUnits 一个固定步对应的累加器单位
// 累加器记录 纳秒 × 目标帧率，整步始终是精确整数
const stepUnits = int64(1e9)

// scheduler 将可变帧间隔转换为整数个固定步
type scheduler struct {
	accum     int64
	accumFps  int
	oldTime   float64
	maxCatch  int
	warnedNeg bool
}

func newScheduler(maxCatchUp int) scheduler {
	return scheduler{oldTime: -1, maxCatch: maxCatchUp}
}

// maxDueSteps 单次调用返回步数的上限，保证不溢出 int64
const maxDueSteps = int64(1) << 62

// steps 累加 dt 秒，返回应执行的固定步数以及被追赶上限丢弃的步数
//
// 整秒部分直接换算为步数，只有不足一秒的部分进入累加器，
// 因此任何有限的 dt 都不会导致整数乘法溢出
func (s *scheduler) steps(dt float64, fps int) (due, dropped int64) {
	if fps <= 0 {
		panic(fmt.Sprintf("fx: desired fps must be positive, got %d", fps))
	}
	if s.accumFps != fps {
		if s.accumFps > 0 {
			s.accum = s.accum * int64(fps) / int64(s.accumFps)
		}
		s.accumFps = fps
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		if !s.warnedNeg {
			s.warnedNeg = true
			log.Printf("[FXManager] ignoring invalid time delta %v", dt)
		}
		return 0, 0
	}

	secs := math.Floor(dt)
	if whole := secs * float64(fps); whole >= float64(maxDueSteps) {
		due = maxDueSteps
	} else {
		due = int64(whole)
	}
	s.accum += int64(math.Round((dt-secs)*1e9)) * int64(fps)
	carry := s.accum / stepUnits
	s.accum -= carry * stepUnits
	due = min(due+carry, maxDueSteps)

	if s.maxCatch > 0 && due > int64(s.maxCatch) {
		dropped = due - int64(s.maxCatch)
		due = int64(s.maxCatch)
	}
	return due, dropped
}

// remainder 返回尚未模拟的累积时间（秒）
func (s *scheduler) remainder() float64 {
	if s.accumFps == 0 {
		return 0
	}
	return float64(s.accum) / (1e9 * float64(s.accumFps))
}

// SimulateStable 累加 dt 秒，执行尽可能多的 1/desiredFps 秒固定步，余量留给后续调用
// 结果与总时间如何拆分到各次调用无关
// 返回实际执行的步数
func (m *Manager) SimulateStable(dt float64, desiredFps int) int {
	due, dropped := m.sched.steps(dt, desiredFps)
	if dropped > 0 {
		m.droppedSteps += uint64(dropped)
		log.Printf("[FXManager] dropped %d catch-up steps (cap %d)", dropped, m.sched.maxCatch)
	}
	step := 1 / float64(desiredFps)
	for range due {
		m.Simulate(step)
	}
	return int(due)
}

// SimulateStableTime 以绝对时钟（秒）驱动 SimulateStable，首次调用只记录时间
func (m *Manager) SimulateStableTime(t float64, desiredFps int) int {
	if m.sched.oldTime < 0 {
		m.sched.oldTime = t
		return 0
	}
	dt := t - m.sched.oldTime
	m.sched.oldTime = t
	return m.SimulateStable(dt, desiredFps)
}

// Remainder 返回尚未凑成固定步的累积时间（秒）
func (m *Manager) Remainder() float64 {
	return m.sched.remainder()
}
