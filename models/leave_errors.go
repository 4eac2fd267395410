package models

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Ошибки доменной валидации. Возвращаются вызывающему как есть,
// контроллер отдаёт их с кодом 400
var (
	ErrPolicyNotFound         = errors.New("политика отпуска не найдена")
	ErrInvalidLeaveType       = errors.New("тип отпуска не найден или неактивен")
	ErrNotEligible            = errors.New("тип отпуска недоступен для сотрудника")
	ErrInvalidDateRange       = errors.New("некорректный период отпуска")
	ErrOverlappingRequest     = errors.New("период пересекается с существующей заявкой")
	ErrNoWorkflowConfigured   = errors.New("для заявки не настроена цепочка согласования")
	ErrInvalidStateTransition = errors.New("недопустимый переход статуса заявки")
	ErrMissingRejectionReason = errors.New("не указана причина отклонения")
	ErrMissingResolutionNotes = errors.New("не указан комментарий решения по эскалации")
	ErrNotRequestOwner        = errors.New("заявка принадлежит другому сотруднику")
	ErrNotAllowedApprover     = errors.New("недостаточно прав для решения по заявке")
)

type NoticePeriodError struct {
	NoticeDays    int
	EarliestStart time.Time
}

func (e NoticePeriodError) Error() string {
	return fmt.Sprintf("не соблюдён срок подачи заявки (%d дн.), ближайшая допустимая дата начала %s",
		e.NoticeDays, e.EarliestStart.Format("2006-01-02"))
}

type MaxConsecutiveError struct {
	Max       int
	Requested int
}

func (e MaxConsecutiveError) Error() string {
	return fmt.Sprintf("запрошено %d дн. подряд при допустимых %d", e.Requested, e.Max)
}

type InsufficientBalanceError struct {
	Available int
	Requested int
}

func (e InsufficientBalanceError) Error() string {
	return fmt.Sprintf("недостаточно дней на балансе: доступно %d, запрошено %d", e.Available, e.Requested)
}

type RuleViolationError struct {
	Kind   RuleKind
	Detail string
}

func (e RuleViolationError) Error() string {
	return fmt.Sprintf("нарушено правило политики %s: %s", e.Kind, e.Detail)
}

// IsDomainError сообщает, относится ли ошибка к ошибкам валидации,
// которые показываются пользователю
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrPolicyNotFound, ErrInvalidLeaveType, ErrNotEligible,
		ErrInvalidDateRange, ErrOverlappingRequest, ErrNoWorkflowConfigured,
		ErrInvalidStateTransition, ErrMissingRejectionReason,
		ErrMissingResolutionNotes, ErrNotRequestOwner, ErrNotAllowedApprover,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	var noticeErr NoticePeriodError
	var maxErr MaxConsecutiveError
	var balanceErr InsufficientBalanceError
	var ruleErr RuleViolationError
	return errors.As(err, &noticeErr) ||
		errors.As(err, &maxErr) ||
		errors.As(err, &balanceErr) ||
		errors.As(err, &ruleErr)
}
