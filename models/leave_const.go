package models

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "PENDING"
	LeaveRequestStatusApproved  LeaveRequestStatus = "APPROVED"
	LeaveRequestStatusRejected  LeaveRequestStatus = "REJECTED"
	LeaveRequestStatusCancelled LeaveRequestStatus = "CANCELLED"
	LeaveRequestStatusEscalated LeaveRequestStatus = "ESCALATED"
)

var leaveRequestStatusHumanName = map[LeaveRequestStatus]string{
	LeaveRequestStatusPending:   "На согласовании",
	LeaveRequestStatusApproved:  "Согласована",
	LeaveRequestStatusRejected:  "Отклонена",
	LeaveRequestStatusCancelled: "Отменена",
	LeaveRequestStatusEscalated: "Эскалирована",
}

func (s LeaveRequestStatus) ToHuman() string {
	if human, exist := leaveRequestStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsDecidable - по заявке допускается решение согласующего
func (s LeaveRequestStatus) IsDecidable() bool {
	return s == LeaveRequestStatusPending || s == LeaveRequestStatusEscalated
}

func (s LeaveRequestStatus) IsTerminal() bool {
	return s == LeaveRequestStatusApproved ||
		s == LeaveRequestStatusRejected ||
		s == LeaveRequestStatusCancelled
}

// ActiveLeaveRequestStatuses - статусы, в которых заявка удерживает дни и
// учитывается при проверке пересечения периодов
var ActiveLeaveRequestStatuses = []LeaveRequestStatus{
	LeaveRequestStatusPending,
	LeaveRequestStatusApproved,
	LeaveRequestStatusEscalated,
}

type EscalationStatus string

const (
	EscalationStatusPending  EscalationStatus = "PENDING"
	EscalationStatusResolved EscalationStatus = "RESOLVED"
)

var escalationStatusHumanName = map[EscalationStatus]string{
	EscalationStatusPending:  "Ожидает решения",
	EscalationStatusResolved: "Решена",
}

func (s EscalationStatus) ToHuman() string {
	if human, exist := escalationStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// RuleKind - вид дополнительного правила политики отпуска.
// Закрытый набор известных видов плюс произвольное правило
type RuleKind string

const (
	// RuleKindMaxRequestsPerYear - максимум заявок на тип отпуска в год
	RuleKindMaxRequestsPerYear RuleKind = "MAX_REQUESTS_PER_YEAR"
	// RuleKindBlackoutMonths - месяцы (1-12 через запятую), в которые отпуск не может начинаться
	RuleKindBlackoutMonths RuleKind = "BLACKOUT_MONTHS"
	// RuleKindCustom - произвольное правило, движком не проверяется
	RuleKindCustom RuleKind = "CUSTOM"
)

func (k RuleKind) IsKnown() bool {
	switch k {
	case RuleKindMaxRequestsPerYear, RuleKindBlackoutMonths, RuleKindCustom:
		return true
	}
	return false
}
