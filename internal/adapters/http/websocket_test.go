package http

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// newTestSession builds a mapSession whose enqueue records commands
// without running them and whose writeJSON records outgoing frames.
func newTestSession() (*mapSession, *[]fiber.Map, *[]func()) {
	var writes []fiber.Map
	var queued []func()
	s := &mapSession{
		ctx: context.Background(),
		enqueue: func(fn func()) {
			queued = append(queued, fn)
		},
		writeJSON: func(v interface{}) {
			if m, ok := v.(fiber.Map); ok {
				writes = append(writes, m)
			}
		},
	}
	return s, &writes, &queued
}

func TestMapSession_PositionErrorNoticeOnlyOnce(t *testing.T) {
	s, writes, queued := newTestSession()

	s.handle(clientMessage{Type: "position_error"})
	s.handle(clientMessage{Type: "position_error"})

	notices := 0
	for _, w := range *writes {
		if w["type"] == "notice" && w["kind"] == "location_denied" {
			notices++
		}
	}
	if notices != 1 {
		t.Fatalf("expected exactly 1 location notice, got %d", notices)
	}

	// The session keeps working without a fix.
	s.handle(clientMessage{Type: "filter", Filter: "parking"})
	if len(*queued) != 1 {
		t.Fatalf("expected the filter command to be queued, got %d commands", len(*queued))
	}
	if s.userPosition() != nil {
		t.Errorf("denied geolocation must leave the position unset")
	}
}

// The chat sampler reads the read loop's own copy of the last fix, so a
// turn started while the dashboard worker is busy never touches
// dashboard state.
func TestMapSession_PositionVisibleToSamplerBeforeWorkerRuns(t *testing.T) {
	s, _, queued := newTestSession()

	if s.userPosition() != nil {
		t.Fatalf("expected no fix before the first position message")
	}

	s.handle(clientMessage{Type: "position", Lat: 23.1843, Lng: 75.7668})

	pos := s.userPosition()
	if pos == nil || pos.Lat != 23.1843 || pos.Lng != 75.7668 {
		t.Fatalf("position not recorded for the sampler: %+v", pos)
	}
	if len(*queued) != 1 {
		t.Fatalf("expected one queued dashboard command, got %d", len(*queued))
	}

	// A later fix replaces the sample without mutating the one already
	// handed out.
	s.handle(clientMessage{Type: "position", Lat: 23.19, Lng: 75.78})
	if pos.Lat != 23.1843 {
		t.Errorf("earlier sample mutated: %+v", pos)
	}
	if got := s.userPosition(); got == nil || got.Lat != 23.19 {
		t.Errorf("latest fix not sampled: %+v", got)
	}
}
