package globe

// Task is a per-frame state machine driven by a Scheduler. Step advances the
// task by dt seconds and reports whether it wants another frame.
type Task interface {
	Step(dt float64) bool
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc func(dt float64) bool

// Step calls f(dt).
func (f TaskFunc) Step(dt float64) bool { return f(dt) }

type scheduledTask struct {
	task     Task
	canceled bool
	done     bool
	onEnd    func()
}

// TaskHandle controls a task started on a Scheduler. The zero value is a
// handle to no task; Cancel and Active are safe on it.
type TaskHandle struct {
	st *scheduledTask
}

// Cancel stops the task. A canceled task is never stepped again, even if it
// is canceled from inside another task's Step during the same tick.
func (h TaskHandle) Cancel() {
	if h.st == nil || h.st.done {
		return
	}
	h.st.canceled = true
}

// Active reports whether the task is still scheduled.
func (h TaskHandle) Active() bool {
	return h.st != nil && !h.st.canceled && !h.st.done
}

// Scheduler runs independent tasks once per tick. It is driven from the
// game's Update and is not safe for concurrent use.
type Scheduler struct {
	tasks []*scheduledTask
	buf   []*scheduledTask
}

// Start schedules t. It is first stepped on the next Tick.
func (s *Scheduler) Start(t Task) TaskHandle {
	return s.StartFunc(t, nil)
}

// StartFunc schedules t and calls onEnd once when it finishes on its own.
// onEnd is not called for canceled tasks.
func (s *Scheduler) StartFunc(t Task, onEnd func()) TaskHandle {
	st := &scheduledTask{task: t, onEnd: onEnd}
	s.tasks = append(s.tasks, st)
	return TaskHandle{st: st}
}

// Tick steps every active task by dt seconds and drops finished or canceled
// ones.
func (s *Scheduler) Tick(dt float64) {
	if len(s.tasks) == 0 {
		return
	}
	// Tasks started during this tick wait for the next one.
	s.buf = append(s.buf[:0], s.tasks...)
	for _, st := range s.buf {
		if st.canceled || st.done {
			continue
		}
		if !st.task.Step(dt) {
			st.done = true
			if st.onEnd != nil {
				st.onEnd()
			}
		}
	}

	live := s.tasks[:0]
	for _, st := range s.tasks {
		if !st.canceled && !st.done {
			live = append(live, st)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}

// Len returns the number of scheduled tasks.
func (s *Scheduler) Len() int {
	n := 0
	for _, st := range s.tasks {
		if !st.canceled && !st.done {
			n++
		}
	}
	return n
}
