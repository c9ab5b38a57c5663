package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTimer_StopWithContext(t *testing.T) {
	tests := []struct {
		name      string
		elapsed   time.Duration
		wantLevel string
		wantMsg   string
	}{
		{"fast", 20 * time.Millisecond, `"level":"debug"`, "Operation completed"},
		{"slow", 6 * time.Second, `"level":"warn"`, "Slow operation detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := zerolog.New(&buf).Level(zerolog.DebugLevel)

			start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			timer := NewTimer("recommend", log)
			timer.start = start
			timer.now = func() time.Time { return start.Add(tt.elapsed) }

			d := timer.StopWithContext(map[string]interface{}{"plan_id": "plan-1", "goals": 3})

			assert.Equal(t, tt.elapsed, d)
			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, tt.wantMsg)
			assert.Contains(t, out, `"plan_id":"plan-1"`)
			assert.Contains(t, out, `"goals":3`)
			assert.Contains(t, out, `"operation":"recommend"`)
		})
	}
}

func TestOperationTimer(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := OperationTimer("refresh_horizons", log)
	done()

	assert.Contains(t, buf.String(), `"operation":"refresh_horizons"`)
}
