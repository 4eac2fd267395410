package leaveapimodels

import (
	"strings"

	"leave-tools-backend/models"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
)

type RuleData struct {
	Kind  models.RuleKind `json:"kind"`
	Value string          `json:"value"`
}

type PolicyData struct {
	DefaultDays        int           `json:"default_days"`
	CarryForwardDays   int           `json:"carry_forward_days"`
	MinServiceDays     int           `json:"min_service_days"`
	RequiresApproval   bool          `json:"requires_approval"`
	NoticePeriodDays   int           `json:"notice_period_days"`
	MaxConsecutiveDays int           `json:"max_consecutive_days"`
	GenderSpecific     models.Gender `json:"gender_specific"`
	ExcludeWeekends    bool          `json:"exclude_weekends"`
	IsActive           bool          `json:"is_active"`
	Rules              []RuleData    `json:"rules"`
}

func (r PolicyData) Validate() error {
	if r.DefaultDays < 0 || r.CarryForwardDays < 0 || r.MinServiceDays < 0 ||
		r.NoticePeriodDays < 0 || r.MaxConsecutiveDays < 0 {
		return errors.New("значения политики не могут быть отрицательными")
	}
	if !r.GenderSpecific.IsValid() {
		return errors.New("некорректное значение пола в политике")
	}
	for _, rule := range r.Rules {
		if !rule.Kind.IsKnown() {
			return errors.Errorf("неизвестный вид правила %v", rule.Kind)
		}
	}
	return nil
}

type LeaveTypeData struct {
	Name                  string `json:"name"`
	Description           string `json:"description"`
	RequiresDocumentation bool   `json:"requires_documentation"`
	MaxDays               int    `json:"max_days"`
	IsPaid                bool   `json:"is_paid"`
	IsActive              bool   `json:"is_active"`
}

func (r LeaveTypeData) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("не указано название типа отпуска")
	}
	if r.MaxDays <= 0 {
		return errors.New("максимум дней должен быть больше нуля")
	}
	return nil
}

// OverrideData - настройка типа отпуска внутри спейса. Применение к
// глобальному типу создаёт копию типа и политики в спейсе (copy-on-write)
type OverrideData struct {
	LeaveTypeData
	Policy PolicyData `json:"policy"`
}

func (r OverrideData) Validate() error {
	if err := r.LeaveTypeData.Validate(); err != nil {
		return err
	}
	return r.Policy.Validate()
}

type PolicyView struct {
	ID                 string        `json:"id"`
	DefaultDays        int           `json:"default_days"`
	CarryForwardDays   int           `json:"carry_forward_days"`
	MinServiceDays     int           `json:"min_service_days"`
	RequiresApproval   bool          `json:"requires_approval"`
	NoticePeriodDays   int           `json:"notice_period_days"`
	MaxConsecutiveDays int           `json:"max_consecutive_days"`
	GenderSpecific     models.Gender `json:"gender_specific"`
	ExcludeWeekends    bool          `json:"exclude_weekends"`
	IsActive           bool          `json:"is_active"`
	Rules              []RuleData    `json:"rules,omitempty"`
}

type LeaveTypeView struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	Description           string      `json:"description"`
	RequiresDocumentation bool        `json:"requires_documentation"`
	MaxDays               int         `json:"max_days"`
	IsPaid                bool        `json:"is_paid"`
	IsActive              bool        `json:"is_active"`
	IsGlobal              bool        `json:"is_global"`
	Policy                *PolicyView `json:"policy,omitempty"`
}

func LeaveTypeConvert(rec dbmodels.LeaveType) LeaveTypeView {
	view := LeaveTypeView{
		ID:                    rec.ID,
		Name:                  rec.Name,
		Description:           rec.Description,
		RequiresDocumentation: rec.RequiresDocumentation,
		MaxDays:               rec.MaxDays,
		IsPaid:                rec.IsPaid,
		IsActive:              rec.IsActive,
		IsGlobal:              rec.IsGlobal(),
	}
	if rec.Policy != nil {
		policyView := PolicyConvert(*rec.Policy)
		view.Policy = &policyView
	}
	return view
}

func PolicyConvert(rec dbmodels.LeavePolicy) PolicyView {
	view := PolicyView{
		ID:                 rec.ID,
		DefaultDays:        rec.DefaultDays,
		CarryForwardDays:   rec.CarryForwardDays,
		MinServiceDays:     rec.MinServiceDays,
		RequiresApproval:   rec.RequiresApproval,
		NoticePeriodDays:   rec.NoticePeriodDays,
		MaxConsecutiveDays: rec.MaxConsecutiveDays,
		GenderSpecific:     rec.GenderSpecific,
		ExcludeWeekends:    rec.ExcludeWeekends,
		IsActive:           rec.IsActive,
	}
	for _, rule := range rec.Rules {
		view.Rules = append(view.Rules, RuleData{Kind: rule.Kind, Value: rule.Value})
	}
	return view
}
