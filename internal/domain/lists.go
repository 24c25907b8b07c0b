package domain

import "fmt"

// ListKind names a repeatable sub-section of the form.
type ListKind int

const (
	ListLegislation ListKind = iota
	ListExamples
	ListSVOProjects
	ListProjects
	ListOrders
	ListCommittees
)

var listKeys = map[ListKind]string{
	ListLegislation: "legislation",
	ListExamples:    "examples",
	ListSVOProjects: "svo_projects",
	ListProjects:    "projects",
	ListOrders:      "orders",
	ListCommittees:  "committees",
}

func (k ListKind) Key() string { return listKeys[k] }

func ListByKey(key string) (ListKind, bool) {
	for k, v := range listKeys {
		if v == key {
			return k, true
		}
	}
	return 0, false
}

// Step returns the step that owns the list.
func (k ListKind) Step() Step {
	switch k {
	case ListLegislation:
		return StepLegislation
	case ListExamples:
		return StepExamples
	case ListSVOProjects:
		return StepSVO
	case ListProjects:
		return StepProjects
	case ListOrders:
		return StepOrders
	default:
		return StepActivity
	}
}

// Len returns the number of items in the list.
func (s *Snapshot) Len(k ListKind) int {
	switch k {
	case ListLegislation:
		return len(s.Legislation)
	case ListExamples:
		return len(s.CitizenRequests.Examples)
	case ListSVOProjects:
		return len(s.SVOSupport.Projects)
	case ListProjects:
		return len(s.ProjectActivity)
	case ListOrders:
		return len(s.LDPROrders)
	case ListCommittees:
		return len(s.GeneralInfo.Committees)
	}
	return 0
}

// AddItem appends a blank item. Items that carry links start with one empty
// link slot.
func (s *Snapshot) AddItem(k ListKind) {
	switch k {
	case ListLegislation:
		s.Legislation = append(s.Legislation, LegislationItem{Links: []string{""}})
	case ListExamples:
		s.CitizenRequests.Examples = append(s.CitizenRequests.Examples, CitizenExample{Links: []string{""}})
	case ListSVOProjects:
		s.SVOSupport.Projects = append(s.SVOSupport.Projects, SVOProject{Links: []string{""}})
	case ListProjects:
		s.ProjectActivity = append(s.ProjectActivity, ProjectActivityItem{})
	case ListOrders:
		s.LDPROrders = append(s.LDPROrders, LDPROrderItem{})
	case ListCommittees:
		s.GeneralInfo.Committees = append(s.GeneralInfo.Committees, "")
	}
}

// RemoveItem deletes the item at index, keeping the order of the rest.
func (s *Snapshot) RemoveItem(k ListKind, index int) error {
	if !inRange(index, s.Len(k)) {
		return fmt.Errorf("%w: %s[%d]", ErrItemOutOfRange, k.Key(), index)
	}
	switch k {
	case ListLegislation:
		s.Legislation = remove(s.Legislation, index)
	case ListExamples:
		s.CitizenRequests.Examples = remove(s.CitizenRequests.Examples, index)
	case ListSVOProjects:
		s.SVOSupport.Projects = remove(s.SVOSupport.Projects, index)
	case ListProjects:
		s.ProjectActivity = remove(s.ProjectActivity, index)
	case ListOrders:
		s.LDPROrders = remove(s.LDPROrders, index)
	case ListCommittees:
		s.GeneralInfo.Committees = remove(s.GeneralInfo.Committees, index)
	}
	return nil
}

func remove[T any](in []T, i int) []T {
	out := make([]T, 0, len(in)-1)
	out = append(out, in[:i]...)
	return append(out, in[i+1:]...)
}

// LinkOwnerKind names a part of the form that carries a list of links.
type LinkOwnerKind int

const (
	LinksProfile LinkOwnerKind = iota
	LinksLegislation
	LinksExample
	LinksSVOProject
)

// LinkOwner addresses one link list; Index is ignored for LinksProfile.
type LinkOwner struct {
	Kind  LinkOwnerKind
	Index int
}

func (o LinkOwner) Step() Step {
	switch o.Kind {
	case LinksLegislation:
		return StepLegislation
	case LinksExample:
		return StepExamples
	case LinksSVOProject:
		return StepSVO
	default:
		return StepActivity
	}
}

// Links returns the link list of owner, or nil if the owner item does not exist.
func (s *Snapshot) Links(o LinkOwner) []string {
	p := s.linksRef(o)
	if p == nil {
		return nil
	}
	return *p
}

// SetLinks replaces the owner's link list.
func (s *Snapshot) SetLinks(o LinkOwner, links []string) error {
	p := s.linksRef(o)
	if p == nil {
		return fmt.Errorf("%w: links %d[%d]", ErrItemOutOfRange, int(o.Kind), o.Index)
	}
	*p = append([]string{}, links...)
	return nil
}

func (s *Snapshot) linksRef(o LinkOwner) *[]string {
	switch o.Kind {
	case LinksProfile:
		return &s.GeneralInfo.Links
	case LinksLegislation:
		if inRange(o.Index, len(s.Legislation)) {
			return &s.Legislation[o.Index].Links
		}
	case LinksExample:
		if inRange(o.Index, len(s.CitizenRequests.Examples)) {
			return &s.CitizenRequests.Examples[o.Index].Links
		}
	case LinksSVOProject:
		if inRange(o.Index, len(s.SVOSupport.Projects)) {
			return &s.SVOSupport.Projects[o.Index].Links
		}
	}
	return nil
}
