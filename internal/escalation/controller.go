// Package escalation drives one detection cycle: passive scan, then active
// probe. Steps run strictly in sequence and each result gates the next.
package escalation

import (
	"context"
	"time"

	"github.com/rsc-sentinel/internal/logger"
	"github.com/rsc-sentinel/internal/probe"
	"github.com/rsc-sentinel/internal/relay"
	"github.com/rsc-sentinel/pkg/models"
)

// PageContext is everything the controller may ask of the loaded page
type PageContext interface {
	GetPassiveFinding(ctx context.Context) (models.PassiveFinding, error)
	RunActiveProbe(ctx context.Context) (models.ProbeResult, error)
}

// Controller owns the state of one cycle at a time. It is not safe for
// concurrent use; callers run cycles one after another.
type Controller struct {
	log         logger.Logger
	callTimeout time.Duration
	state       State

	// OnTransition, when set, observes every state change
	OnTransition func(from, to State)
}

// NewController creates a controller in the Idle state
func NewController(log logger.Logger, callTimeout time.Duration) *Controller {
	return &Controller{
		log:         log.WithField("component", "escalation"),
		callTimeout: callTimeout,
		state:       Idle,
	}
}

// State returns the current state
func (c *Controller) State() State {
	return c.state
}

// Run performs a full cycle against page. Prior state is discarded.
func (c *Controller) Run(ctx context.Context, target string, page PageContext) models.Assessment {
	c.state = Idle
	assessment := models.Assessment{
		Target:    target,
		StartTime: time.Now(),
	}
	defer func() {
		assessment.State = c.state.String()
		assessment.Duration = time.Since(assessment.StartTime)
	}()

	c.fire(EventStart)

	finding, err := relay.Call(ctx, c.callTimeout, page.GetPassiveFinding)
	if err != nil {
		c.log.Warn("Passive finding unavailable", "target", target, "error", err)
		assessment.Error = err.Error()
		c.fire(EventPassiveUnreachable)
		return assessment
	}
	assessment.Passive = &finding
	c.log.Info("Passive scan finished",
		"target", target,
		"score", finding.Score,
		"signal", finding.IsVulnerableSignal)
	c.fire(EventPassiveDone)

	result, err := relay.Call(ctx, c.callTimeout, page.RunActiveProbe)
	if err != nil {
		c.log.Warn("Active probe unavailable", "target", target, "error", err)
		assessment.Error = err.Error()
		c.fire(EventTransportFailure)
		return assessment
	}
	assessment.Probe = &result

	if probe.IsNetworkFailure(result) {
		assessment.Error = probe.NetworkError
		c.fire(EventTransportFailure)
		return assessment
	}

	if result.Detected {
		c.log.Info("Target speaks the component stream", "target", target, "details", result.Details)
		c.fire(EventProbeDetected)
	} else {
		c.fire(EventProbeClean)
	}

	return assessment
}

func (c *Controller) fire(e Event) {
	next, err := Transition(c.state, e)
	if err != nil {
		// unreachable from Run
		c.log.Error("Rejected transition", "error", err)
		return
	}
	c.log.Debug("State transition", "from", c.state, "to", next, "event", e)
	if c.OnTransition != nil {
		c.OnTransition(c.state, next)
	}
	c.state = next
}
