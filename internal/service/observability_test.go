package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_WritesEvents(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "evm.report",
		Duration: 12 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"project_id": "p1"},
	})

	out := buf.String()
	assert.Contains(t, out, "use_case=evm.report")
	assert.Contains(t, out, "success=true")
	assert.Contains(t, out, "project_id=p1")
}

func TestLogUseCaseObserver_ErrorsLogAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "rates.add",
		Err:  errors.New("overlap"),
	})

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "error=overlap")
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))

	obs := NewLogUseCaseObserver(&bytes.Buffer{})
	assert.Equal(t, obs, useCaseObserverOrNoop([]UseCaseObserver{obs}))
}
