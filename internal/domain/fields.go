package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldKind enumerates every editable scalar of the report form.
type FieldKind int

const (
	FieldFullName FieldKind = iota
	FieldDistrict
	FieldRegion
	FieldRepresentativeLevel
	FieldAuthorityName
	FieldTermStart
	FieldTermEnd
	FieldPosition
	FieldLDPRPosition

	FieldSessionsTotal
	FieldSessionsAttended
	FieldCommitteeTotal
	FieldCommitteeAttended
	FieldLDPRTotal
	FieldLDPRAttended

	FieldCommittee // indexed

	FieldPersonalMeetings
	FieldResponses
	FieldOfficialQueries
	FieldRequestTopic // carries Topic

	FieldLegislationTitle // indexed
	FieldLegislationSummary
	FieldLegislationStatus
	FieldLegislationRejectionReason

	FieldExampleText    // indexed
	FieldSVOProjectText // indexed
	FieldProjectName    // indexed
	FieldProjectResult
	FieldOrderInstruction // indexed
	FieldOrderAction

	FieldOtherInfo
)

// Field identifies one form value. Index addresses list items for indexed
// kinds; Topic is only meaningful for FieldRequestTopic.
type Field struct {
	Kind  FieldKind
	Index int
	Topic Topic
}

// F builds a non-indexed field.
func F(k FieldKind) Field { return Field{Kind: k} }

// Item builds a list-item field.
func Item(k FieldKind, index int) Field { return Field{Kind: k, Index: index} }

// TopicField builds the counter field of a request topic.
func TopicField(t Topic) Field { return Field{Kind: FieldRequestTopic, Topic: t} }

var scalarPaths = map[FieldKind]string{
	FieldFullName:            "general_info.full_name",
	FieldDistrict:            "general_info.district",
	FieldRegion:              "general_info.region",
	FieldRepresentativeLevel: "general_info.representative_level",
	FieldAuthorityName:       "general_info.authority_name",
	FieldTermStart:           "general_info.term_start",
	FieldTermEnd:             "general_info.term_end",
	FieldPosition:            "general_info.position",
	FieldLDPRPosition:        "general_info.ldpr_position",
	FieldSessionsTotal:       "general_info.sessions_attended.total",
	FieldSessionsAttended:    "general_info.sessions_attended.attended",
	FieldCommitteeTotal:      "general_info.sessions_attended.committee_total",
	FieldCommitteeAttended:   "general_info.sessions_attended.committee_attended",
	FieldLDPRTotal:           "general_info.sessions_attended.ldpr_total",
	FieldLDPRAttended:        "general_info.sessions_attended.ldpr_attended",
	FieldPersonalMeetings:    "citizen_requests.personal_meetings",
	FieldResponses:           "citizen_requests.responses",
	FieldOfficialQueries:     "citizen_requests.official_queries",
	FieldOtherInfo:           "other_info",
}

type itemPath struct {
	list  string
	field string
}

var itemPaths = map[FieldKind]itemPath{
	FieldCommittee:                  {"general_info.committees", ""},
	FieldLegislationTitle:           {"legislation", "title"},
	FieldLegislationSummary:         {"legislation", "summary"},
	FieldLegislationStatus:          {"legislation", "status"},
	FieldLegislationRejectionReason: {"legislation", "rejection_reason"},
	FieldExampleText:                {"citizen_requests.examples", "text"},
	FieldSVOProjectText:             {"svo_support.projects", "text"},
	FieldProjectName:                {"project_activity", "name"},
	FieldProjectResult:              {"project_activity", "result"},
	FieldOrderInstruction:           {"ldpr_orders", "instruction"},
	FieldOrderAction:                {"ldpr_orders", "action"},
}

const topicPrefix = "citizen_requests.requests."

// Indexed reports whether the field addresses a list item.
func (f Field) Indexed() bool {
	_, ok := itemPaths[f.Kind]
	return ok
}

// Path renders the dotted path used by the wire format and the HTML form.
func (f Field) Path() string {
	if p, ok := scalarPaths[f.Kind]; ok {
		return p
	}
	if f.Kind == FieldRequestTopic {
		return topicPrefix + f.Topic.Key()
	}
	if p, ok := itemPaths[f.Kind]; ok {
		if p.field == "" {
			return p.list + "." + strconv.Itoa(f.Index)
		}
		return p.list + "." + strconv.Itoa(f.Index) + "." + p.field
	}
	return fmt.Sprintf("field(%d)", int(f.Kind))
}

func (f Field) String() string { return f.Path() }

// Step returns the wizard step that owns the field.
func (f Field) Step() Step {
	switch f.Kind {
	case FieldFullName, FieldDistrict, FieldRegion, FieldRepresentativeLevel,
		FieldAuthorityName, FieldTermStart, FieldTermEnd, FieldPosition, FieldLDPRPosition:
		return StepGeneral
	case FieldSessionsTotal, FieldSessionsAttended, FieldCommitteeTotal,
		FieldCommitteeAttended, FieldLDPRTotal, FieldLDPRAttended, FieldCommittee:
		return StepActivity
	case FieldLegislationTitle, FieldLegislationSummary, FieldLegislationStatus,
		FieldLegislationRejectionReason:
		return StepLegislation
	case FieldPersonalMeetings, FieldResponses, FieldOfficialQueries, FieldRequestTopic:
		return StepStats
	case FieldExampleText:
		return StepExamples
	case FieldSVOProjectText:
		return StepSVO
	case FieldProjectName, FieldProjectResult:
		return StepProjects
	case FieldOrderInstruction, FieldOrderAction:
		return StepOrders
	default:
		return StepOther
	}
}

// List returns the list kind an indexed field belongs to.
func (f Field) List() (ListKind, bool) {
	switch f.Kind {
	case FieldCommittee:
		return ListCommittees, true
	case FieldLegislationTitle, FieldLegislationSummary, FieldLegislationStatus,
		FieldLegislationRejectionReason:
		return ListLegislation, true
	case FieldExampleText:
		return ListExamples, true
	case FieldSVOProjectText:
		return ListSVOProjects, true
	case FieldProjectName, FieldProjectResult:
		return ListProjects, true
	case FieldOrderInstruction, FieldOrderAction:
		return ListOrders, true
	}
	return 0, false
}

// ParseField is the inverse of Field.Path.
func ParseField(path string) (Field, error) {
	for k, p := range scalarPaths {
		if p == path {
			return F(k), nil
		}
	}
	if strings.HasPrefix(path, topicPrefix) {
		t, ok := TopicByKey(strings.TrimPrefix(path, topicPrefix))
		if !ok {
			return Field{}, fmt.Errorf("%w: %q", ErrUnknownField, path)
		}
		return TopicField(t), nil
	}
	for k, p := range itemPaths {
		rest, ok := strings.CutPrefix(path, p.list+".")
		if !ok {
			continue
		}
		idxStr, field, _ := strings.Cut(rest, ".")
		if field != p.field {
			continue
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 {
			return Field{}, fmt.Errorf("%w: %q", ErrUnknownField, path)
		}
		return Item(k, idx), nil
	}
	return Field{}, fmt.Errorf("%w: %q", ErrUnknownField, path)
}

// Value reads the field's current value from s. Out-of-range items read as "".
func (s *Snapshot) Value(f Field) string {
	g := &s.GeneralInfo
	sa := &g.SessionsAttended
	switch f.Kind {
	case FieldFullName:
		return g.FullName
	case FieldDistrict:
		return g.District
	case FieldRegion:
		return g.Region
	case FieldRepresentativeLevel:
		return g.RepresentativeLevel
	case FieldAuthorityName:
		return g.AuthorityName
	case FieldTermStart:
		return g.TermStart
	case FieldTermEnd:
		return g.TermEnd
	case FieldPosition:
		return g.Position
	case FieldLDPRPosition:
		return g.LDPRPosition
	case FieldSessionsTotal:
		return sa.Total
	case FieldSessionsAttended:
		return sa.Attended
	case FieldCommitteeTotal:
		return sa.CommitteeTotal
	case FieldCommitteeAttended:
		return sa.CommitteeAttended
	case FieldLDPRTotal:
		return sa.LDPRTotal
	case FieldLDPRAttended:
		return sa.LDPRAttended
	case FieldCommittee:
		if inRange(f.Index, len(g.Committees)) {
			return g.Committees[f.Index]
		}
	case FieldPersonalMeetings:
		return s.CitizenRequests.PersonalMeetings
	case FieldResponses:
		return s.CitizenRequests.Responses
	case FieldOfficialQueries:
		return s.CitizenRequests.OfficialQueries
	case FieldRequestTopic:
		if p := s.CitizenRequests.Requests.topic(f.Topic); p != nil {
			return *p
		}
	case FieldLegislationTitle, FieldLegislationSummary, FieldLegislationStatus,
		FieldLegislationRejectionReason:
		if inRange(f.Index, len(s.Legislation)) {
			return *legislationField(&s.Legislation[f.Index], f.Kind)
		}
	case FieldExampleText:
		if inRange(f.Index, len(s.CitizenRequests.Examples)) {
			return s.CitizenRequests.Examples[f.Index].Text
		}
	case FieldSVOProjectText:
		if inRange(f.Index, len(s.SVOSupport.Projects)) {
			return s.SVOSupport.Projects[f.Index].Text
		}
	case FieldProjectName:
		if inRange(f.Index, len(s.ProjectActivity)) {
			return s.ProjectActivity[f.Index].Name
		}
	case FieldProjectResult:
		if inRange(f.Index, len(s.ProjectActivity)) {
			return s.ProjectActivity[f.Index].Result
		}
	case FieldOrderInstruction:
		if inRange(f.Index, len(s.LDPROrders)) {
			return s.LDPROrders[f.Index].Instruction
		}
	case FieldOrderAction:
		if inRange(f.Index, len(s.LDPROrders)) {
			return s.LDPROrders[f.Index].Action
		}
	case FieldOtherInfo:
		return s.OtherInfo
	}
	return ""
}

// Set writes value into the field. Writing to a list item that does not
// exist returns ErrItemOutOfRange.
func (s *Snapshot) Set(f Field, value string) error {
	p, err := s.ref(f)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

func (s *Snapshot) ref(f Field) (*string, error) {
	g := &s.GeneralInfo
	sa := &g.SessionsAttended
	switch f.Kind {
	case FieldFullName:
		return &g.FullName, nil
	case FieldDistrict:
		return &g.District, nil
	case FieldRegion:
		return &g.Region, nil
	case FieldRepresentativeLevel:
		return &g.RepresentativeLevel, nil
	case FieldAuthorityName:
		return &g.AuthorityName, nil
	case FieldTermStart:
		return &g.TermStart, nil
	case FieldTermEnd:
		return &g.TermEnd, nil
	case FieldPosition:
		return &g.Position, nil
	case FieldLDPRPosition:
		return &g.LDPRPosition, nil
	case FieldSessionsTotal:
		return &sa.Total, nil
	case FieldSessionsAttended:
		return &sa.Attended, nil
	case FieldCommitteeTotal:
		return &sa.CommitteeTotal, nil
	case FieldCommitteeAttended:
		return &sa.CommitteeAttended, nil
	case FieldLDPRTotal:
		return &sa.LDPRTotal, nil
	case FieldLDPRAttended:
		return &sa.LDPRAttended, nil
	case FieldCommittee:
		if inRange(f.Index, len(g.Committees)) {
			return &g.Committees[f.Index], nil
		}
	case FieldPersonalMeetings:
		return &s.CitizenRequests.PersonalMeetings, nil
	case FieldResponses:
		return &s.CitizenRequests.Responses, nil
	case FieldOfficialQueries:
		return &s.CitizenRequests.OfficialQueries, nil
	case FieldRequestTopic:
		if p := s.CitizenRequests.Requests.topic(f.Topic); p != nil {
			return p, nil
		}
		return nil, fmt.Errorf("%w: topic %d", ErrUnknownField, int(f.Topic))
	case FieldLegislationTitle, FieldLegislationSummary, FieldLegislationStatus,
		FieldLegislationRejectionReason:
		if inRange(f.Index, len(s.Legislation)) {
			return legislationField(&s.Legislation[f.Index], f.Kind), nil
		}
	case FieldExampleText:
		if inRange(f.Index, len(s.CitizenRequests.Examples)) {
			return &s.CitizenRequests.Examples[f.Index].Text, nil
		}
	case FieldSVOProjectText:
		if inRange(f.Index, len(s.SVOSupport.Projects)) {
			return &s.SVOSupport.Projects[f.Index].Text, nil
		}
	case FieldProjectName:
		if inRange(f.Index, len(s.ProjectActivity)) {
			return &s.ProjectActivity[f.Index].Name, nil
		}
	case FieldProjectResult:
		if inRange(f.Index, len(s.ProjectActivity)) {
			return &s.ProjectActivity[f.Index].Result, nil
		}
	case FieldOrderInstruction:
		if inRange(f.Index, len(s.LDPROrders)) {
			return &s.LDPROrders[f.Index].Instruction, nil
		}
	case FieldOrderAction:
		if inRange(f.Index, len(s.LDPROrders)) {
			return &s.LDPROrders[f.Index].Action, nil
		}
	case FieldOtherInfo:
		return &s.OtherInfo, nil
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownField, int(f.Kind))
	}
	return nil, fmt.Errorf("%w: %s", ErrItemOutOfRange, f.Path())
}

func legislationField(item *LegislationItem, k FieldKind) *string {
	switch k {
	case FieldLegislationTitle:
		return &item.Title
	case FieldLegislationSummary:
		return &item.Summary
	case FieldLegislationStatus:
		return &item.Status
	default:
		return &item.RejectionReason
	}
}

func inRange(i, n int) bool { return i >= 0 && i < n }
