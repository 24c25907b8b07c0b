package report

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/csg33k/ldpr-reports/internal/domain"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	policyOnce.Do(func() { policy = bluemonday.StrictPolicy() })
	return policy
}

// Sanitize strips markup from every text value of s in place. Entities the
// policy escapes are decoded again so the stored text stays plain.
func Sanitize(s *domain.Snapshot) {
	p := strictPolicy()
	clean := func(v *string) {
		if *v == "" {
			return
		}
		*v = strings.TrimSpace(html.UnescapeString(p.Sanitize(*v)))
	}
	cleanAll := func(vs []string) {
		for i := range vs {
			clean(&vs[i])
		}
	}

	g := &s.GeneralInfo
	for _, v := range []*string{
		&g.FullName, &g.District, &g.Region, &g.RepresentativeLevel, &g.AuthorityName,
		&g.TermStart, &g.TermEnd, &g.Position, &g.LDPRPosition,
		&g.SessionsAttended.Total, &g.SessionsAttended.Attended,
		&g.SessionsAttended.CommitteeTotal, &g.SessionsAttended.CommitteeAttended,
		&g.SessionsAttended.LDPRTotal, &g.SessionsAttended.LDPRAttended,
		&s.CitizenRequests.PersonalMeetings, &s.CitizenRequests.Responses,
		&s.CitizenRequests.OfficialQueries, &s.OtherInfo,
	} {
		clean(v)
	}
	cleanAll(g.Links)
	cleanAll(g.Committees)
	for _, t := range domain.Topics() {
		if v := s.Value(domain.TopicField(t)); v != "" {
			clean(&v)
			_ = s.Set(domain.TopicField(t), v)
		}
	}
	for i := range s.Legislation {
		it := &s.Legislation[i]
		clean(&it.Title)
		clean(&it.Summary)
		clean(&it.Status)
		clean(&it.RejectionReason)
		cleanAll(it.Links)
	}
	for i := range s.CitizenRequests.Examples {
		clean(&s.CitizenRequests.Examples[i].Text)
		cleanAll(s.CitizenRequests.Examples[i].Links)
	}
	for i := range s.SVOSupport.Projects {
		clean(&s.SVOSupport.Projects[i].Text)
		cleanAll(s.SVOSupport.Projects[i].Links)
	}
	for i := range s.ProjectActivity {
		clean(&s.ProjectActivity[i].Name)
		clean(&s.ProjectActivity[i].Result)
	}
	for i := range s.LDPROrders {
		clean(&s.LDPROrders[i].Instruction)
		clean(&s.LDPROrders[i].Action)
	}
}
