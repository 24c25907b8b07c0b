package wizard

import (
	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/validation"
)

// StepView is the display state of one step.
type StepView struct {
	Step    domain.Step
	Status  domain.StepStatus
	Current bool
}

// View is a read-only copy of the controller state for rendering. Step
// statuses and visible errors are derived on every call.
type View struct {
	Step        domain.Step
	Steps       []StepView
	Snapshot    *domain.Snapshot
	Errors      map[domain.Field]string
	Banner      *Banner
	Attempted   bool
	Submitting  bool
	Downloading bool
	Submitted   bool
	ArtifactURL string
}

// Error returns the visible error of f, or "".
func (v View) Error(f domain.Field) string { return v.Errors[f] }

// LinkErrors returns the advisory messages for the owner's links, one per
// link ("" for a valid link).
func (v View) LinkErrors(o domain.LinkOwner) []string {
	return validation.LinkErrors(v.Snapshot.Links(o))
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Step:        c.step,
		Snapshot:    c.snap.Clone(),
		Errors:      map[domain.Field]string{},
		Attempted:   c.attempted,
		Submitting:  c.submitting,
		Downloading: c.downloading,
		Submitted:   c.submitted,
		ArtifactURL: c.artifactURL,
	}
	if c.banner != nil {
		b := *c.banner
		v.Banner = &b
	}
	for _, s := range domain.Steps() {
		v.Steps = append(v.Steps, StepView{
			Step:    s,
			Status:  validation.Status(s, c.snap, c.interacted[s], c.attempted),
			Current: s == c.step,
		})
	}
	for f, msg := range c.errs {
		if c.visible(f) {
			v.Errors[f] = msg
		}
	}
	return v
}

// VisibleError returns the error of f if it may be shown: the field was
// touched and its step was worked on or a submit was attempted.
func (c *Controller) VisibleError(f domain.Field) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.visible(f) {
		return ""
	}
	return c.errs[f]
}

func (c *Controller) visible(f domain.Field) bool {
	return c.touched[f] && (c.interacted[f.Step()] || c.attempted)
}
