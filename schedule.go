package fieldfx

import (
	"sort"
	"time"
)

// TimerID identifies a pending one-shot timer. The zero value is never issued.
type TimerID uint64

// FrameID identifies a pending frame request. The zero value is never issued.
type FrameID uint64

type timer struct {
	id  TimerID
	due time.Time
	fn  func()
}

type frameRequest struct {
	id FrameID
	fn func(now time.Time)
}

// scheduler holds the host's timers and frame requests. Everything runs on
// the goroutine calling Host.Step; there is no locking.
type scheduler struct {
	now    time.Time
	nextID uint64
	timers []timer // sorted by due, then id
	frames []frameRequest
}

func (s *scheduler) issue() uint64 {
	s.nextID++
	return s.nextID
}

func (s *scheduler) afterFunc(d time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	t := timer{id: TimerID(s.issue()), due: s.now.Add(d), fn: fn}
	i := sort.Search(len(s.timers), func(i int) bool {
		return s.timers[i].due.After(t.due)
	})
	s.timers = append(s.timers, timer{})
	copy(s.timers[i+1:], s.timers[i:])
	s.timers[i] = t
	return t.id
}

func (s *scheduler) clearTimer(id TimerID) bool {
	for i := range s.timers {
		if s.timers[i].id == id {
			copy(s.timers[i:], s.timers[i+1:])
			s.timers[len(s.timers)-1] = timer{}
			s.timers = s.timers[:len(s.timers)-1]
			return true
		}
	}
	return false
}

func (s *scheduler) requestFrame(fn func(time.Time)) FrameID {
	id := FrameID(s.issue())
	s.frames = append(s.frames, frameRequest{id: id, fn: fn})
	return id
}

func (s *scheduler) cancelFrame(id FrameID) bool {
	for i := range s.frames {
		if s.frames[i].id == id {
			copy(s.frames[i:], s.frames[i+1:])
			s.frames[len(s.frames)-1] = frameRequest{}
			s.frames = s.frames[:len(s.frames)-1]
			return true
		}
	}
	return false
}

// runTimers fires every timer due at or before now, in due order. Timers
// created while firing run on a later step even if already due.
func (s *scheduler) runTimers(now time.Time) int {
	limit := TimerID(s.nextID)
	fired := 0
	for {
		idx := -1
		for i := range s.timers {
			if s.timers[i].due.After(now) {
				break
			}
			if s.timers[i].id <= limit {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fired
		}
		t := s.timers[idx]
		copy(s.timers[idx:], s.timers[idx+1:])
		s.timers[len(s.timers)-1] = timer{}
		s.timers = s.timers[:len(s.timers)-1]
		t.fn()
		fired++
	}
}

// runFrames fires the frame requests queued before this call. Requests made
// by the callbacks wait for the next step.
func (s *scheduler) runFrames(now time.Time) int {
	if len(s.frames) == 0 {
		return 0
	}
	batch := s.frames
	s.frames = nil
	for _, f := range batch {
		f.fn(now)
	}
	return len(batch)
}
