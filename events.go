package nbody

// Event is one row of a close-encounter or collision buffer: the
// model time of detection, the two particle indices (0 <= i < j < N)
// and their separation.
type Event struct {
	Time       float64
	I, J       int
	Separation float64
}

// eventBuffer is a fixed-capacity, last-event-wins event log. Writes
// fill the buffer from index 0; once full, further writes overwrite
// the final slot so the most recently detected event is always the
// last readable row. Overflow past capacity is non-fatal and only
// bumps a counter.
type eventBuffer struct {
	rows     []Event
	cursor   int
	overflow int
}

func newEventBuffer(capacity int) *eventBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &eventBuffer{rows: make([]Event, 0, capacity)}
}

func (b *eventBuffer) push(e Event) {
	if len(b.rows) < cap(b.rows) {
		b.rows = append(b.rows, e)
		b.cursor = len(b.rows)
		return
	}
	b.rows[len(b.rows)-1] = e
	b.overflow++
}

func (b *eventBuffer) reset() {
	b.rows = b.rows[:0]
	b.cursor = 0
	b.overflow = 0
}

// Snapshot returns a defensive copy of the buffer's rows, each as
// (time, i, j, separation).
func (b *eventBuffer) Snapshot() [][4]float64 {
	out := make([][4]float64, len(b.rows))
	for k, e := range b.rows {
		out[k] = [4]float64{e.Time, float64(e.I), float64(e.J), e.Separation}
	}
	return out
}

// Overflowed reports whether any write has been dropped (overwritten)
// since the last reset.
func (b *eventBuffer) Overflowed() bool {
	return b.overflow > 0
}

// detectEvents scans all unordered pairs (i,j) of the current
// (inertial-frame) state for collisions and close encounters,
// appending to the supplied buffers. Returns the dominant status for
// this step: collision beats close-encounter beats ok.
func detectEvents(pos []float64, radius []float64, n int, ceDist float64, t float64, ceBuf, colBuf *eventBuffer) Status {
	status := StatusOK
	for i := 0; i < n; i++ {
		ri := vecAt(pos, i)
		for j := i + 1; j < n; j++ {
			d := ri.Sub(vecAt(pos, j)).Norm()
			if d <= radius[i]+radius[j] {
				colBuf.push(Event{Time: t, I: i, J: j, Separation: d})
				status = StatusCollision
				continue
			}
			if ceDist > 0 && d <= ceDist {
				ceBuf.push(Event{Time: t, I: i, J: j, Separation: d})
				if status != StatusCollision {
					status = StatusCloseEncounter
				}
			}
		}
	}
	return status
}
