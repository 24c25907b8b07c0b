package domain

import "fmt"

// Step is an index into the fixed, ordered list of report sections.
type Step int

const (
	StepGeneral Step = iota
	StepActivity
	StepLegislation
	StepStats
	StepExamples
	StepSVO
	StepProjects
	StepOrders
	StepOther

	StepCount = 9
)

var stepIDs = [StepCount]string{
	"general",
	"activity_links",
	"legislation",
	"stats",
	"examples",
	"svo",
	"projects",
	"orders",
	"other",
}

// Steps returns every step in wizard order.
func Steps() []Step {
	out := make([]Step, StepCount)
	for i := range out {
		out[i] = Step(i)
	}
	return out
}

func (s Step) Valid() bool { return s >= 0 && s < StepCount }

// ID is the stable section identifier, also used as the catalog key for titles.
func (s Step) ID() string {
	if !s.Valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepIDs[s]
}

func (s Step) String() string { return s.ID() }

// StepFlags holds one boolean per step.
type StepFlags [StepCount]bool

// Slice returns the flags as a slice, the persisted JSON shape.
func (f StepFlags) Slice() []bool {
	return append([]bool{}, f[:]...)
}

// StepFlagsFrom copies up to StepCount values from in; missing entries stay false.
func StepFlagsFrom(in []bool) StepFlags {
	var f StepFlags
	copy(f[:], in)
	return f
}

// StepStatus is the derived display status of a step.
type StepStatus int

const (
	StatusNeutral StepStatus = iota
	StatusError
	StatusSuccess
)

func (s StepStatus) String() string {
	switch s {
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "neutral"
	}
}
