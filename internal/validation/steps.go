package validation

import (
	"strings"

	"github.com/csg33k/ldpr-reports/internal/domain"
)

var generalFields = []domain.FieldKind{
	domain.FieldFullName,
	domain.FieldDistrict,
	domain.FieldRegion,
	domain.FieldRepresentativeLevel,
	domain.FieldAuthorityName,
	domain.FieldTermStart,
	domain.FieldTermEnd,
	domain.FieldPosition,
	domain.FieldLDPRPosition,
}

var attendanceFields = []domain.FieldKind{
	domain.FieldSessionsTotal,
	domain.FieldSessionsAttended,
	domain.FieldCommitteeTotal,
	domain.FieldCommitteeAttended,
	domain.FieldLDPRTotal,
	domain.FieldLDPRAttended,
}

// StepFields lists the validated fields of a step for the current snapshot.
// List-backed steps yield the required fields of every existing item.
func StepFields(step domain.Step, s *domain.Snapshot) []domain.Field {
	var out []domain.Field
	switch step {
	case domain.StepGeneral:
		for _, k := range generalFields {
			out = append(out, domain.F(k))
		}
	case domain.StepActivity:
		for _, k := range attendanceFields {
			out = append(out, domain.F(k))
		}
	case domain.StepLegislation:
		for i := range s.Legislation {
			out = append(out,
				domain.Item(domain.FieldLegislationTitle, i),
				domain.Item(domain.FieldLegislationSummary, i),
				domain.Item(domain.FieldLegislationStatus, i),
				domain.Item(domain.FieldLegislationRejectionReason, i),
			)
		}
	case domain.StepStats:
		out = append(out,
			domain.F(domain.FieldPersonalMeetings),
			domain.F(domain.FieldResponses),
			domain.F(domain.FieldOfficialQueries),
		)
		for _, t := range domain.Topics() {
			out = append(out, domain.TopicField(t))
		}
	case domain.StepExamples:
		for i := range s.CitizenRequests.Examples {
			out = append(out, domain.Item(domain.FieldExampleText, i))
		}
	case domain.StepSVO:
		for i := range s.SVOSupport.Projects {
			out = append(out, domain.Item(domain.FieldSVOProjectText, i))
		}
	case domain.StepProjects:
		for i := range s.ProjectActivity {
			out = append(out,
				domain.Item(domain.FieldProjectName, i),
				domain.Item(domain.FieldProjectResult, i),
			)
		}
	case domain.StepOrders:
		for i := range s.LDPROrders {
			out = append(out,
				domain.Item(domain.FieldOrderInstruction, i),
				domain.Item(domain.FieldOrderAction, i),
			)
		}
	}
	return out
}

// StepEmpty reports whether an optional step has no content. Steps with
// mandatory fields are never empty.
func StepEmpty(step domain.Step, s *domain.Snapshot) bool {
	switch step {
	case domain.StepLegislation:
		return len(s.Legislation) == 0
	case domain.StepExamples:
		return len(s.CitizenRequests.Examples) == 0
	case domain.StepSVO:
		return len(s.SVOSupport.Projects) == 0
	case domain.StepProjects:
		return len(s.ProjectActivity) == 0
	case domain.StepOrders:
		return len(s.LDPROrders) == 0
	case domain.StepOther:
		return strings.TrimSpace(s.OtherInfo) == ""
	}
	return false
}

// StepValid reports whether every validated field of the step passes.
func StepValid(step domain.Step, s *domain.Snapshot) bool {
	for _, f := range StepFields(step, s) {
		if Validate(f, s) != "" {
			return false
		}
	}
	return true
}

// Status derives the display status of a step. A step shows an error only
// once the user interacted with it or attempted to submit.
func Status(step domain.Step, s *domain.Snapshot, interacted, attempted bool) domain.StepStatus {
	valid := StepValid(step, s)
	switch {
	case !valid && (interacted || attempted):
		return domain.StatusError
	case valid && !StepEmpty(step, s):
		return domain.StatusSuccess
	default:
		return domain.StatusNeutral
	}
}

// Problem is one failing field.
type Problem struct {
	Field   domain.Field
	Message string
}

// Check validates the whole snapshot and returns every failing field in
// step order.
func Check(s *domain.Snapshot) []Problem {
	var out []Problem
	for _, step := range domain.Steps() {
		for _, f := range StepFields(step, s) {
			if msg := Validate(f, s); msg != "" {
				out = append(out, Problem{Field: f, Message: msg})
			}
		}
	}
	return out
}

// InvalidSteps returns the steps that fail validation.
func InvalidSteps(s *domain.Snapshot) []domain.Step {
	var out []domain.Step
	for _, step := range domain.Steps() {
		if !StepValid(step, s) {
			out = append(out, step)
		}
	}
	return out
}
