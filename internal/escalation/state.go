package escalation

import (
	"errors"
	"fmt"
)

// State is a step of the escalation cycle
type State int

const (
	Idle State = iota
	ScanningPassive
	ScanningActive
	Safe
	Vulnerable
	ConnectionError
)

var stateNames = map[State]string{
	Idle:            "Idle",
	ScanningPassive: "ScanningPassive",
	ScanningActive:  "ScanningActive",
	Safe:            "Safe",
	Vulnerable:      "Vulnerable",
	ConnectionError: "ConnectionError",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether a cycle ends in s
func (s State) Terminal() bool {
	return s == Safe || s == Vulnerable || s == ConnectionError
}

// Event drives a transition
type Event int

const (
	EventStart Event = iota
	EventPassiveDone
	EventPassiveUnreachable
	EventProbeDetected
	EventProbeClean
	EventTransportFailure
)

var eventNames = map[Event]string{
	EventStart:              "Start",
	EventPassiveDone:        "PassiveDone",
	EventPassiveUnreachable: "PassiveUnreachable",
	EventProbeDetected:      "ProbeDetected",
	EventProbeClean:         "ProbeClean",
	EventTransportFailure:   "TransportFailure",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// ErrInvalidTransition is returned for an event the current state does not accept
var ErrInvalidTransition = errors.New("invalid transition")

// Transition is the whole policy. It is pure.
func Transition(s State, e Event) (State, error) {
	if e == EventTransportFailure && !s.Terminal() && s != Idle {
		return ConnectionError, nil
	}

	switch {
	case s == Idle && e == EventStart:
		return ScanningPassive, nil
	case s == ScanningPassive && e == EventPassiveUnreachable:
		return ConnectionError, nil
	case s == ScanningPassive && e == EventPassiveDone:
		// the passive score is advisory and never gates the active probe
		return ScanningActive, nil
	case s == ScanningActive && e == EventProbeDetected:
		return Vulnerable, nil
	case s == ScanningActive && e == EventProbeClean:
		return Safe, nil
	}

	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
}
