// Package testsupport provides report fixtures shared by package tests.
package testsupport

import "github.com/csg33k/ldpr-reports/internal/domain"

// FillGeneral fills the general section with valid values.
func FillGeneral(s *domain.Snapshot) {
	g := &s.GeneralInfo
	g.FullName = "Иванов Иван Иванович"
	g.District = "Округ №7"
	g.Region = "Московская область"
	g.RepresentativeLevel = "Региональный"
	g.AuthorityName = "Московская областная дума"
	g.TermStart = "15.01.2024"
	g.TermEnd = "15.01.2029"
	g.Position = "Депутат"
	g.LDPRPosition = "Руководитель фракции"
}

// FillAttendance fills the attendance step with valid counters.
func FillAttendance(s *domain.Snapshot) {
	s.GeneralInfo.SessionsAttended = domain.SessionsAttended{
		Total: "10", Attended: "9",
		CommitteeTotal: "5", CommitteeAttended: "5",
		LDPRTotal: "4", LDPRAttended: "0",
	}
}

// FillStats fills the citizen request counters, every topic set to "0".
func FillStats(s *domain.Snapshot) {
	s.CitizenRequests.PersonalMeetings = "12"
	s.CitizenRequests.Responses = "30"
	s.CitizenRequests.OfficialQueries = "4"
	for _, t := range domain.Topics() {
		_ = s.Set(domain.TopicField(t), "0")
	}
}

// ValidSnapshot returns a snapshot that passes every step, with one item in
// each list.
func ValidSnapshot() *domain.Snapshot {
	s := domain.NewSnapshot()
	FillGeneral(s)
	FillAttendance(s)
	FillStats(s)
	s.GeneralInfo.Links = []string{"https://vk.com/deputy"}
	s.GeneralInfo.Committees = []string{"Комитет по бюджету"}
	s.Legislation = []domain.LegislationItem{{
		Title:   "О благоустройстве",
		Summary: "Поправки в закон",
		Status:  "Принято",
		Links:   []string{"https://example.com/law"},
	}}
	s.CitizenRequests.Examples = []domain.CitizenExample{{Text: "Ремонт крыши", Links: []string{}}}
	s.SVOSupport.Projects = []domain.SVOProject{{Text: "Сбор гуманитарной помощи", Links: []string{}}}
	s.ProjectActivity = []domain.ProjectActivityItem{{Name: "Двор", Result: "Сделано"}}
	s.LDPROrders = []domain.LDPROrderItem{{Instruction: "Проверить", Action: "Проверено"}}
	s.OtherInfo = "Нет"
	return s
}
