package domain

import "time"

// SessionsAttended holds the three attended/total attendance pairs.
// Every counter is kept as the raw digit string the user typed.
type SessionsAttended struct {
	Total             string `json:"total"`
	Attended          string `json:"attended"`
	CommitteeTotal    string `json:"committee_total"`
	CommitteeAttended string `json:"committee_attended"`
	LDPRTotal         string `json:"ldpr_total"`
	LDPRAttended      string `json:"ldpr_attended"`
}

type GeneralInfo struct {
	FullName            string           `json:"full_name"`
	District            string           `json:"district"`
	Region              string           `json:"region"`
	RepresentativeLevel string           `json:"representative_level"`
	AuthorityName       string           `json:"authority_name"`
	TermStart           string           `json:"term_start"` // DD.MM.YYYY
	TermEnd             string           `json:"term_end"`   // DD.MM.YYYY
	Links               []string         `json:"links"`
	Position            string           `json:"position"`
	LDPRPosition        string           `json:"ldpr_position"`
	Committees          []string         `json:"committees"`
	SessionsAttended    SessionsAttended `json:"sessions_attended"`
}

// LegislationItem is one legislative initiative. RejectionReason is only
// required when Status is StatusRejected.
type LegislationItem struct {
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	Status          string   `json:"status"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
	Links           []string `json:"links"`
}

// StatusRejected is the legislation status that makes a rejection reason mandatory.
const StatusRejected = "Отклонено"

type CitizenRequestsStats struct {
	Utilities                      string `json:"utilities"`
	PensionsAndSocialPayments      string `json:"pensions_and_social_payments"`
	Improvement                    string `json:"improvement"`
	Education                      string `json:"education"`
	SVO                            string `json:"svo"`
	PublicTransport                string `json:"public_transport"`
	Ecology                        string `json:"ecology"`
	RoadMaintenance                string `json:"road_maintenance"`
	IllegalDumps                   string `json:"illegal_dumps"`
	AppealsToLDPRChairman          string `json:"appeals_to_ldpr_chairman"`
	LegalAidRequests               string `json:"legal_aid_requests"`
	LegislativeProposals           string `json:"legislative_proposals"`
	StrayAnimalIssues              string `json:"stray_animal_issues"`
	IntegratedTerritoryDevelopment string `json:"integrated_territory_development"`
	MedicineAndHealthcare          string `json:"medicine_and_healthcare"`
}

type CitizenExample struct {
	Text  string   `json:"text"`
	Links []string `json:"links"`
}

// CitizenReceptions flags which citizen-day receptions were held (0 or 1).
type CitizenReceptions struct {
	Aug22_23 int `json:"aug_22_23"`
	Aug29_30 int `json:"aug_29_30"`
	Sep5_8   int `json:"sep_5_8"`
	Sep19_20 int `json:"sep_19_20"`
	Oct17_18 int `json:"oct_17_18"`
	Nov14_15 int `json:"nov_14_15"`
	Dec5_6   int `json:"dec_5_6"`
}

type CitizenRequests struct {
	PersonalMeetings     string               `json:"personal_meetings"`
	Responses            string               `json:"responses"`
	OfficialQueries      string               `json:"official_queries"`
	Requests             CitizenRequestsStats `json:"requests"`
	CitizenDayReceptions CitizenReceptions    `json:"citizen_day_receptions"`
	Examples             []CitizenExample     `json:"examples"`
}

type SVOProject struct {
	Text  string   `json:"text"`
	Links []string `json:"links"`
}

type SVOSupport struct {
	Projects []SVOProject `json:"projects"`
}

type ProjectActivityItem struct {
	Name   string `json:"name"`
	Result string `json:"result"`
}

type LDPROrderItem struct {
	Instruction string `json:"instruction"`
	Action      string `json:"action"`
}

// Snapshot is the complete state of the report form at a point in time.
// Its JSON encoding is the wire format sent to the report endpoint.
type Snapshot struct {
	GeneralInfo     GeneralInfo           `json:"general_info"`
	Legislation     []LegislationItem     `json:"legislation"`
	CitizenRequests CitizenRequests       `json:"citizen_requests"`
	SVOSupport      SVOSupport            `json:"svo_support"`
	ProjectActivity []ProjectActivityItem `json:"project_activity"`
	LDPROrders      []LDPROrderItem       `json:"ldpr_orders"`
	OtherInfo       string                `json:"other_info"`
}

// NewSnapshot returns the empty form template. Lists are non-nil so the
// encoded form always carries arrays, never nulls.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		GeneralInfo: GeneralInfo{
			Links:      []string{},
			Committees: []string{},
		},
		Legislation: []LegislationItem{},
		CitizenRequests: CitizenRequests{
			Examples: []CitizenExample{},
		},
		SVOSupport:      SVOSupport{Projects: []SVOProject{}},
		ProjectActivity: []ProjectActivityItem{},
		LDPROrders:      []LDPROrderItem{},
	}
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.GeneralInfo.Links = cloneStrings(s.GeneralInfo.Links)
	c.GeneralInfo.Committees = cloneStrings(s.GeneralInfo.Committees)

	c.Legislation = make([]LegislationItem, len(s.Legislation))
	for i, item := range s.Legislation {
		item.Links = cloneStrings(item.Links)
		c.Legislation[i] = item
	}
	c.CitizenRequests.Examples = make([]CitizenExample, len(s.CitizenRequests.Examples))
	for i, ex := range s.CitizenRequests.Examples {
		ex.Links = cloneStrings(ex.Links)
		c.CitizenRequests.Examples[i] = ex
	}
	c.SVOSupport.Projects = make([]SVOProject, len(s.SVOSupport.Projects))
	for i, p := range s.SVOSupport.Projects {
		p.Links = cloneStrings(p.Links)
		c.SVOSupport.Projects[i] = p
	}
	c.ProjectActivity = append([]ProjectActivityItem{}, s.ProjectActivity...)
	c.LDPROrders = append([]LDPROrderItem{}, s.LDPROrders...)
	return &c
}

// Normalize replaces nil lists with empty ones, e.g. after decoding a
// payload that omitted them.
func (s *Snapshot) Normalize() {
	if s.GeneralInfo.Links == nil {
		s.GeneralInfo.Links = []string{}
	}
	if s.GeneralInfo.Committees == nil {
		s.GeneralInfo.Committees = []string{}
	}
	if s.Legislation == nil {
		s.Legislation = []LegislationItem{}
	}
	for i := range s.Legislation {
		if s.Legislation[i].Links == nil {
			s.Legislation[i].Links = []string{}
		}
	}
	if s.CitizenRequests.Examples == nil {
		s.CitizenRequests.Examples = []CitizenExample{}
	}
	for i := range s.CitizenRequests.Examples {
		if s.CitizenRequests.Examples[i].Links == nil {
			s.CitizenRequests.Examples[i].Links = []string{}
		}
	}
	if s.SVOSupport.Projects == nil {
		s.SVOSupport.Projects = []SVOProject{}
	}
	for i := range s.SVOSupport.Projects {
		if s.SVOSupport.Projects[i].Links == nil {
			s.SVOSupport.Projects[i].Links = []string{}
		}
	}
	if s.ProjectActivity == nil {
		s.ProjectActivity = []ProjectActivityItem{}
	}
	if s.LDPROrders == nil {
		s.LDPROrders = []LDPROrderItem{}
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string{}, in...)
}

// DeputyProfile is the registration data the host shell passes in for
// prefilling the general section.
type DeputyProfile struct {
	LastName                   string `json:"lastName"`
	FirstName                  string `json:"firstName"`
	MiddleName                 string `json:"middleName"`
	Region                     string `json:"region"`
	RepresentativeBodyLevel    string `json:"representativeBodyLevel"`
	RepresentativeBodyName     string `json:"representativeBodyName"`
	RepresentativeBodyPosition string `json:"representativeBodyPosition"`
	PartyPosition              string `json:"partyPosition"`
	CommitteeName              string `json:"committeeName"`
	VKPage                     string `json:"vkPage"`
	VKGroup                    string `json:"vkGroup"`
	TelegramChannel            string `json:"telegramChannel"`
	PersonalSite               string `json:"personalSite"`
}

// SubmissionStatus tags the outcome of a report submission.
type SubmissionStatus string

const (
	SubmissionSuccess SubmissionStatus = "Success"
	SubmissionFailure SubmissionStatus = "Error"
)

// SubmissionResult is what the report endpoint answers. ArtifactURL is only
// set when Status is SubmissionSuccess.
type SubmissionResult struct {
	Status      SubmissionStatus
	ArtifactURL string
}

// Report is a stored, generated report.
type Report struct {
	ID        int64
	UserID    int64
	Data      Snapshot
	PDFName   string
	CreatedAt time.Time
}
