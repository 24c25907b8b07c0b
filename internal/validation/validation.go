// Package validation holds the report form rules. Every function here is a
// pure function of its arguments.
package validation

import (
	"regexp"
	"strings"

	"github.com/csg33k/ldpr-reports/internal/domain"
)

const (
	MsgRequired        = "Это поле обязательно"
	MsgCounterRequired = "Обязательно"
	MsgItemRequired    = "Обязательно"
	MsgDateFormat      = "Неверный формат (ДД.ММ.ГГГГ)"
	MsgDigitsOnly      = "Только цифры"
	MsgExceedsTotal    = "Не может быть больше общего"
	MsgLink            = "Ссылка должна начинаться с http:// или https:// (например: https://example.com)"
)

var (
	dateRe  = regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])\.(0[1-9]|1[0-2])\.(19|20)\d{2}$`)
	digitRe = regexp.MustCompile(`^\d+$`)
	linkRe  = regexp.MustCompile(`^https?://\S+$`)
)

// Validate returns the error message for field f in snapshot s, or "" when
// the value is acceptable.
func Validate(f domain.Field, s *domain.Snapshot) string {
	v := s.Value(f)
	switch f.Kind {
	case domain.FieldFullName, domain.FieldDistrict, domain.FieldRegion,
		domain.FieldRepresentativeLevel, domain.FieldAuthorityName,
		domain.FieldPosition, domain.FieldLDPRPosition:
		return required(v, MsgRequired)

	case domain.FieldTermStart, domain.FieldTermEnd:
		if msg := required(v, MsgRequired); msg != "" {
			return msg
		}
		if !dateRe.MatchString(v) {
			return MsgDateFormat
		}
		return ""

	case domain.FieldSessionsTotal, domain.FieldCommitteeTotal, domain.FieldLDPRTotal:
		return counter(v)

	case domain.FieldSessionsAttended, domain.FieldCommitteeAttended, domain.FieldLDPRAttended:
		if msg := counter(v); msg != "" {
			return msg
		}
		if p, ok := PairOf(f.Kind); ok && ExceedsTotal(p, s) {
			return MsgExceedsTotal
		}
		return ""

	case domain.FieldPersonalMeetings, domain.FieldResponses, domain.FieldOfficialQueries,
		domain.FieldRequestTopic:
		return counter(v)

	case domain.FieldLegislationTitle, domain.FieldLegislationSummary, domain.FieldLegislationStatus:
		if !itemExists(f, s) {
			return ""
		}
		return required(v, MsgItemRequired)

	case domain.FieldLegislationRejectionReason:
		if !itemExists(f, s) || s.Legislation[f.Index].Status != domain.StatusRejected {
			return ""
		}
		return required(v, MsgItemRequired)

	case domain.FieldExampleText, domain.FieldSVOProjectText,
		domain.FieldProjectName, domain.FieldProjectResult,
		domain.FieldOrderInstruction, domain.FieldOrderAction:
		if !itemExists(f, s) {
			return ""
		}
		return required(v, MsgItemRequired)

	case domain.FieldCommittee, domain.FieldOtherInfo:
		return ""
	}
	return ""
}

func required(v, msg string) string {
	if strings.TrimSpace(v) == "" {
		return msg
	}
	return ""
}

func counter(v string) string {
	if strings.TrimSpace(v) == "" {
		return MsgCounterRequired
	}
	if !digitRe.MatchString(v) {
		return MsgDigitsOnly
	}
	return ""
}

func itemExists(f domain.Field, s *domain.Snapshot) bool {
	k, ok := f.List()
	return ok && f.Index >= 0 && f.Index < s.Len(k)
}

// ValidateLink checks a single link. Empty links are allowed.
func ValidateLink(link string) string {
	if link == "" || linkRe.MatchString(link) {
		return ""
	}
	return MsgLink
}

// LinkErrors returns one message per link, "" where the link is fine.
func LinkErrors(links []string) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = ValidateLink(l)
	}
	return out
}

// ValidateLegislationItem returns the first problem with item.
func ValidateLegislationItem(item domain.LegislationItem) string {
	switch {
	case strings.TrimSpace(item.Title) == "":
		return "Название обязательно"
	case strings.TrimSpace(item.Summary) == "":
		return "Описание обязательно"
	case strings.TrimSpace(item.Status) == "":
		return "Статус обязателен"
	case item.Status == domain.StatusRejected && strings.TrimSpace(item.RejectionReason) == "":
		return "Укажите причину отказа"
	}
	return ""
}

func ValidateProjectItem(item domain.ProjectActivityItem) string {
	switch {
	case strings.TrimSpace(item.Name) == "":
		return "Наименование обязательно"
	case strings.TrimSpace(item.Result) == "":
		return "Результат обязателен"
	}
	return ""
}

func ValidateOrderItem(item domain.LDPROrderItem) string {
	switch {
	case strings.TrimSpace(item.Instruction) == "":
		return "Поручение обязательно"
	case strings.TrimSpace(item.Action) == "":
		return "Проделанная работа обязательна"
	}
	return ""
}

// ValidateTextItem covers citizen examples and SVO projects.
func ValidateTextItem(text string) string {
	if strings.TrimSpace(text) == "" {
		return "Описание обязательно"
	}
	return ""
}
