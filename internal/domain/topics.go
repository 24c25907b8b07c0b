package domain

// Topic is one of the citizen request categories counted in the stats step.
type Topic int

const (
	TopicUtilities Topic = iota
	TopicPensionsAndSocialPayments
	TopicImprovement
	TopicEducation
	TopicSVO
	TopicPublicTransport
	TopicEcology
	TopicRoadMaintenance
	TopicIllegalDumps
	TopicAppealsToLDPRChairman
	TopicLegalAidRequests
	TopicLegislativeProposals
	TopicStrayAnimalIssues
	TopicIntegratedTerritoryDevelopment
	TopicMedicineAndHealthcare

	topicCount
)

var topicKeys = [topicCount]string{
	"utilities",
	"pensions_and_social_payments",
	"improvement",
	"education",
	"svo",
	"public_transport",
	"ecology",
	"road_maintenance",
	"illegal_dumps",
	"appeals_to_ldpr_chairman",
	"legal_aid_requests",
	"legislative_proposals",
	"stray_animal_issues",
	"integrated_territory_development",
	"medicine_and_healthcare",
}

// Topics returns all request topics in display order.
func Topics() []Topic {
	out := make([]Topic, topicCount)
	for i := range out {
		out[i] = Topic(i)
	}
	return out
}

// Key is the topic's JSON key inside citizen_requests.requests.
func (t Topic) Key() string {
	if t < 0 || t >= topicCount {
		return ""
	}
	return topicKeys[t]
}

func TopicByKey(key string) (Topic, bool) {
	for i, k := range topicKeys {
		if k == key {
			return Topic(i), true
		}
	}
	return 0, false
}

func (r *CitizenRequestsStats) topic(t Topic) *string {
	switch t {
	case TopicUtilities:
		return &r.Utilities
	case TopicPensionsAndSocialPayments:
		return &r.PensionsAndSocialPayments
	case TopicImprovement:
		return &r.Improvement
	case TopicEducation:
		return &r.Education
	case TopicSVO:
		return &r.SVO
	case TopicPublicTransport:
		return &r.PublicTransport
	case TopicEcology:
		return &r.Ecology
	case TopicRoadMaintenance:
		return &r.RoadMaintenance
	case TopicIllegalDumps:
		return &r.IllegalDumps
	case TopicAppealsToLDPRChairman:
		return &r.AppealsToLDPRChairman
	case TopicLegalAidRequests:
		return &r.LegalAidRequests
	case TopicLegislativeProposals:
		return &r.LegislativeProposals
	case TopicStrayAnimalIssues:
		return &r.StrayAnimalIssues
	case TopicIntegratedTerritoryDevelopment:
		return &r.IntegratedTerritoryDevelopment
	case TopicMedicineAndHealthcare:
		return &r.MedicineAndHealthcare
	}
	return nil
}

// Reception is one citizen-day reception date.
type Reception int

const (
	ReceptionAug22_23 Reception = iota
	ReceptionAug29_30
	ReceptionSep5_8
	ReceptionSep19_20
	ReceptionOct17_18
	ReceptionNov14_15
	ReceptionDec5_6

	receptionCount
)

var receptionKeys = [receptionCount]string{
	"aug_22_23", "aug_29_30", "sep_5_8", "sep_19_20", "oct_17_18", "nov_14_15", "dec_5_6",
}

func Receptions() []Reception {
	out := make([]Reception, receptionCount)
	for i := range out {
		out[i] = Reception(i)
	}
	return out
}

func (r Reception) Key() string {
	if r < 0 || r >= receptionCount {
		return ""
	}
	return receptionKeys[r]
}

func ReceptionByKey(key string) (Reception, bool) {
	for i, k := range receptionKeys {
		if k == key {
			return Reception(i), true
		}
	}
	return 0, false
}

func (c *CitizenReceptions) ref(r Reception) *int {
	switch r {
	case ReceptionAug22_23:
		return &c.Aug22_23
	case ReceptionAug29_30:
		return &c.Aug29_30
	case ReceptionSep5_8:
		return &c.Sep5_8
	case ReceptionSep19_20:
		return &c.Sep19_20
	case ReceptionOct17_18:
		return &c.Oct17_18
	case ReceptionNov14_15:
		return &c.Nov14_15
	case ReceptionDec5_6:
		return &c.Dec5_6
	}
	return nil
}

// Held reports whether the reception took place.
func (c *CitizenReceptions) Held(r Reception) bool {
	p := c.ref(r)
	return p != nil && *p != 0
}

// SetHeld stores the reception flag as 1 or 0.
func (c *CitizenReceptions) SetHeld(r Reception, held bool) {
	p := c.ref(r)
	if p == nil {
		return
	}
	if held {
		*p = 1
	} else {
		*p = 0
	}
}
