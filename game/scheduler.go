package game

import (
	"context"
	"fmt"
	"time"
)

// Start starts or resumes the level: every live actor gets a task and the spawners are
// armed. Starting a running level has no effect.
func (l *Level) Start() {
	l.startStopLock.Lock()
	defer l.startStopLock.Unlock()
	if l.inProgress.Load() {
		return
	}

	l.run++
	l.inProgress.Store(true)
	l.startTasks()

	first := l.tuning.FirstSpawnDelay + jitter(l.tuning.FirstSpawnJitter)
	l.timers[evFruit] = l.post(first, event{kind: evFruit, gen: l.run})
	if l.infinite {
		l.timers[evHunter] = l.post(first, event{kind: evHunter, gen: l.run})
		l.timers[evRamp] = l.post(l.tuning.RampPeriod, event{kind: evRamp, gen: l.run})
	}
	l.logger.Info(fmt.Sprintf("Level %s started", l.ID))
}

// Stop stops or pauses the level: every actor task and spawner is cancelled. A task in
// the middle of a step finishes it. Stopping a stopped level has no effect.
func (l *Level) Stop() {
	l.startStopLock.Lock()
	defer l.startStopLock.Unlock()
	if !l.inProgress.Load() {
		return
	}

	l.stopTasks()
	for kind, t := range l.timers {
		t.Stop()
		delete(l.timers, kind)
	}
	l.inProgress.Store(false)
	l.logger.Info(fmt.Sprintf("Level %s stopped", l.ID))
}

// IsRunning reports whether the level is in progress.
func (l *Level) IsRunning() bool {
	return l.inProgress.Load()
}

// startTasks starts a task for every live actor. The caller holds the start/stop lock.
func (l *Level) startTasks() {
	for u, s := range l.schedules {
		if u.Alive() {
			l.startTask(u, s)
		}
	}
}

// stopTasks cancels every actor task. The caller holds the start/stop lock.
func (l *Level) stopTasks() {
	for _, s := range l.schedules {
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
	}
}

// restartTasks gives every live actor a fresh task when the level runs.
func (l *Level) restartTasks() {
	l.startStopLock.Lock()
	defer l.startStopLock.Unlock()
	if !l.inProgress.Load() {
		return
	}
	l.stopTasks()
	l.startTasks()
}

// runningTasks counts the actors that currently have a task.
func (l *Level) runningTasks() int {
	l.startStopLock.Lock()
	defer l.startStopLock.Unlock()
	n := 0
	for _, s := range l.schedules {
		if s.cancel != nil {
			n++
		}
	}
	return n
}

// startTask runs the step loop of u on its own goroutine until cancelled.
// The caller holds the start/stop lock.
func (l *Level) startTask(u *Unit, s *schedule) {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go l.loop(ctx, u)
}

func (l *Level) loop(ctx context.Context, u *Unit) {
	timer := time.NewTimer(u.Interval() / 2)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		l.step(ctx, u)
		if u.Kind == KindProjectile && !u.Alive() {
			return
		}
		timer.Reset(u.Interval())
	}
}

// step asks the policy of u for a direction and moves u under the move lock.
func (l *Level) step(ctx context.Context, u *Unit) {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()
	if ctx.Err() != nil || u.Cell() == nil || u.policy == nil {
		return
	}
	d, ok := u.policy.NextMove(u, levelView{l})
	if !ok {
		return
	}
	l.move(u, d)
}
