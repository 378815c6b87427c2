package nbody

import "testing"

func TestEventBufferLastEventWins(t *testing.T) {
	b := newEventBuffer(2)
	b.push(Event{Time: 1, I: 0, J: 1, Separation: 10})
	b.push(Event{Time: 2, I: 0, J: 2, Separation: 20})
	if b.Overflowed() {
		t.Fatal("should not be overflowed before exceeding capacity")
	}
	b.push(Event{Time: 3, I: 0, J: 3, Separation: 30})
	if !b.Overflowed() {
		t.Fatal("should report overflow once capacity is exceeded")
	}
	rows := b.Snapshot()
	if len(rows) != 2 {
		t.Fatalf("snapshot len = %d, want 2", len(rows))
	}
	if rows[1][0] != 3 {
		t.Fatalf("last row should be the most recent event, got %v", rows[1])
	}
	if rows[0][0] != 1 {
		t.Fatalf("first row should be untouched, got %v", rows[0])
	}
}

func TestEventBufferReset(t *testing.T) {
	b := newEventBuffer(4)
	b.push(Event{Time: 1})
	b.reset()
	if len(b.Snapshot()) != 0 || b.Overflowed() {
		t.Fatal("reset should clear rows and overflow flag")
	}
}

func TestDetectEventsCollisionDominatesCloseEncounter(t *testing.T) {
	pos := []float64{
		0, 0, 0,
		0.5, 0, 0, // collides with body 0
		5, 0, 0, // close encounter with body 0
	}
	radius := []float64{1, 1, 0.1}
	ceBuf := newEventBuffer(8)
	colBuf := newEventBuffer(8)
	status := detectEvents(pos, radius, 3, 10, 1.5, ceBuf, colBuf)
	if status != StatusCollision {
		t.Fatalf("status = %v, want StatusCollision", status)
	}
	if len(colBuf.Snapshot()) != 1 {
		t.Fatalf("expected one collision row, got %d", len(colBuf.Snapshot()))
	}
	if len(ceBuf.Snapshot()) == 0 {
		t.Fatal("expected at least one close-encounter row alongside the collision")
	}
}

func TestDetectEventsDisabledCloseEncounter(t *testing.T) {
	pos := []float64{0, 0, 0, 5, 0, 0}
	radius := []float64{0.01, 0.01}
	ceBuf := newEventBuffer(4)
	colBuf := newEventBuffer(4)
	status := detectEvents(pos, radius, 2, 0, 1.0, ceBuf, colBuf)
	if status != StatusOK {
		t.Fatalf("status = %v, want StatusOK with close-encounter reporting disabled", status)
	}
	if len(ceBuf.Snapshot()) != 0 {
		t.Fatal("ceDist <= 0 must disable close-encounter reporting entirely")
	}
}
