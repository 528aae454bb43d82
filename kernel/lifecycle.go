package kernel

import "fmt"

// Locker is the minimal interface Sleep needs from a caller-held lock,
// satisfied by *sync.Mutex among others. Passing nil means the caller
// holds no other lock, which is the common case in this simulator.
type Locker interface {
	Lock()
	Unlock()
}

// Fork implements spec.md §4.3: allocate a new slot, duplicate the
// parent's address space and resources, and publish the child RUNNABLE.
// The child's trap-frame return value is zeroed so the child "observes"
// the fork-equivalent return value of 0, matching the original.
func (t *Table) Fork(parent *Proc) (*Proc, error) {
	child, err := t.Allocate()
	if err != nil {
		return nil, fmt.Errorf("kernel: fork: %w", err)
	}

	t.mu.Lock()
	child.Name = parent.Name
	child.Parent = parent
	child.pgdir = &addressSpace{size: parent.pgdir.size}
	child.tf = &trapFrame{returnValue: 0}
	for i, f := range parent.ofile {
		if f != nil {
			f.refs++
			child.ofile[i] = f
		}
	}
	if parent.cwd != nil {
		parent.cwd.refs++
		child.cwd = parent.cwd
	}
	child.State = StateRunnable
	t.mu.Unlock()

	Logger.Debug().Int("parent", parent.PID).Int("child", child.PID).Msg("forked")
	return child, nil
}

// GrowProc adjusts a process's user-memory size by n bytes (which may be
// negative), matching sbrk's use of growproc. There is no real memory to
// grow in this simulator; only the bookkeeping size field moves.
func (t *Table) GrowProc(p *Proc, n int) (oldSize int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	oldSize = p.pgdir.size
	newSize := oldSize + n
	if newSize < 0 {
		return 0, fmt.Errorf("kernel: growproc: negative size")
	}
	p.pgdir.size = newSize
	return oldSize, nil
}

// Exit implements spec.md §4.4. It must never be called on the init
// process (fatal), releases p's resources, wakes the parent (which may be
// blocked in Wait), reparents children to init, and publishes ZOMBIE.
func (t *Table) Exit(p *Proc, code int) {
	t.mu.Lock()
	if p == t.init {
		t.mu.Unlock()
		panic("kernel: init exiting")
	}
	for i, f := range p.ofile {
		if f != nil {
			f.refs--
			p.ofile[i] = nil
		}
	}
	if p.cwd != nil {
		p.cwd.refs--
		p.cwd = nil
	}

	for _, s := range t.slots {
		if s.State != StateUnused && s.Parent == p {
			s.Parent = t.init
			if s.State == StateZombie {
				t.wakeLocked(t.init)
			}
		}
	}

	p.exitCode = code
	p.State = StateZombie
	t.wakeLocked(p.Parent)
	t.mu.Unlock()

	Logger.Info().Int("pid", p.PID).Int("code", code).Msg("exited")
}

// Wait implements spec.md §4.5: repeatedly scan for a ZOMBIE child,
// reaping the first one found; block on the caller's own slot address
// (its "channel") between scans otherwise.
func (t *Table) Wait(p *Proc) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for {
		haveChildren := false
		for _, s := range t.slots {
			if s.State == StateUnused || s.Parent != p {
				continue
			}
			haveChildren = true
			if s.State == StateZombie {
				pid := s.PID
				code := s.exitCode
				s.reset()
				Logger.Debug().Int("parent", p.PID).Int("child", pid).Msg("reaped")
				_ = code
				return pid, nil
			}
		}
		if !haveChildren {
			return -1, ErrNoChildren
		}
		if p.Killed {
			return -1, ErrKilled
		}
		p.State = StateSleeping
		p.Chan = p
		t.cond.Wait()
		p.Chan = nil
	}
}

// Sleep implements spec.md §4.6. lk is a lock the caller holds protecting
// the predicate it just observed (nil if none); Sleep atomically hands
// over to the table lock, suspends on chanKey, and on wake reacquires lk.
// sync.Cond gives us this atomicity natively: Wait releases the table
// mutex and re-acquires it before returning, so no waker can slip a
// wakeup between the predicate check and the suspend.
func (t *Table) Sleep(p *Proc, chanKey any, lk Locker) {
	t.mu.Lock()
	if lk != nil {
		lk.Unlock()
	}
	p.State = StateSleeping
	p.Chan = chanKey
	for p.State == StateSleeping {
		t.cond.Wait()
	}
	p.Chan = nil
	t.mu.Unlock()
	if lk != nil {
		lk.Lock()
	}
}

// Wakeup implements spec.md §4.6: every SLEEPING slot with a matching
// channel becomes RUNNABLE. Spurious wakeups are fine; Sleep's callers
// loop on their own predicate.
func (t *Table) Wakeup(chanKey any) {
	t.mu.Lock()
	t.wakeLocked(chanKey)
	t.mu.Unlock()
}

// wakeLocked is Wakeup's body, reusable by call sites (Exit) that already
// hold the lock. Must be called with the lock held.
func (t *Table) wakeLocked(chanKey any) {
	if chanKey == nil {
		return
	}
	woke := false
	for _, s := range t.slots {
		if s.State == StateSleeping && s.Chan == chanKey {
			s.State = StateRunnable
			woke = true
		}
	}
	if woke {
		t.cond.Broadcast()
	}
}

// Kill implements spec.md §4.7: non-synchronously mark pid killed,
// promoting it out of SLEEPING so it observes the flag on its next
// scheduling boundary.
func (t *Table) Kill(pid int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.byPID(pid)
	if p == nil {
		return ErrNotFound
	}
	p.Killed = true
	if p.State == StateSleeping {
		p.State = StateRunnable
		t.cond.Broadcast()
	}
	Logger.Debug().Int("pid", pid).Msg("killed")
	return nil
}

// Yield implements spec.md §4.8's public half: mark self RUNNABLE,
// relinquishing the CPU. (sched's handoff itself is a no-op in this
// simulator; see scheduler.go and DESIGN.md.)
func (t *Table) Yield(p *Proc) {
	t.mu.Lock()
	if p.State != StateRunning {
		t.mu.Unlock()
		panic("kernel: yield: process not RUNNING")
	}
	p.State = StateRunnable
	t.mu.Unlock()
}

// SleepTicks blocks p for approximately n ticks, mirroring sys_sleep's
// loop over the shared tick counter. It returns early if p is killed.
func (t *Table) SleepTicks(p *Proc, n uint64) {
	t.tickMu.Lock()
	target := t.ticks + n
	for t.ticks < target && !t.killedSnapshot(p) {
		t.tickC.Wait()
	}
	t.tickMu.Unlock()
}

func (t *Table) killedSnapshot(p *Proc) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return p.Killed
}

// Tick advances the shared tick counter by one and wakes every caller
// blocked in SleepTicks, mirroring the timer interrupt handler's
// wakeup(&ticks).
func (t *Table) Tick() {
	t.tickMu.Lock()
	t.ticks++
	t.tickC.Broadcast()
	t.tickMu.Unlock()
}

// Ticks returns the current tick count (sys_uptime).
func (t *Table) Ticks() uint64 {
	t.tickMu.Lock()
	defer t.tickMu.Unlock()
	return t.ticks
}
