package escalation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from  State
		event Event
		want  State
	}{
		{Idle, EventStart, ScanningPassive},
		{ScanningPassive, EventPassiveDone, ScanningActive},
		{ScanningPassive, EventPassiveUnreachable, ConnectionError},
		{ScanningPassive, EventTransportFailure, ConnectionError},
		{ScanningActive, EventProbeDetected, Vulnerable},
		{ScanningActive, EventProbeClean, Safe},
		{ScanningActive, EventTransportFailure, ConnectionError},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.event.String(), func(t *testing.T) {
			got, err := Transition(tt.from, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitionRejectsUnknownPairs(t *testing.T) {
	tests := []struct {
		from  State
		event Event
	}{
		{Idle, EventProbeDetected},
		{Idle, EventTransportFailure},
		{ScanningPassive, EventProbeClean},
		{ScanningActive, EventStart},
		{Safe, EventStart},
		{Vulnerable, EventTransportFailure},
		{ConnectionError, EventPassiveDone},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.event.String(), func(t *testing.T) {
			got, err := Transition(tt.from, tt.event)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, got)
		})
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []State{Safe, Vulnerable, ConnectionError} {
		assert.True(t, s.Terminal(), s.String())
	}
	for _, s := range []State{Idle, ScanningPassive, ScanningActive} {
		assert.False(t, s.Terminal(), s.String())
	}
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "Vulnerable", Vulnerable.String())
	assert.Equal(t, "State(42)", State(42).String())
	assert.Equal(t, "ProbeClean", EventProbeClean.String())
}
