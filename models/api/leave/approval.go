package leaveapimodels

import (
	"strings"

	"leave-tools-backend/models"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
)

// DecisionData - данные решения согласующего. Для отклонения обязательна
// причина, для решения по эскалированной заявке - комментарий решения
type DecisionData struct {
	RejectionReason string `json:"rejection_reason"`
	ResolutionNotes string `json:"resolution_notes"`
}

type EscalationData struct {
	Reason string `json:"reason"`
}

func (r EscalationData) Validate() error {
	if strings.TrimSpace(r.Reason) == "" {
		return errors.New("не указана причина эскалации")
	}
	return nil
}

type LevelData struct {
	LevelOrder   int             `json:"level_order"`
	ApproverRole models.UserRole `json:"approver_role"`
}

type WorkflowData struct {
	LeaveTypeID string      `json:"leave_type_id"`
	Name        string      `json:"name"`
	MinDays     int         `json:"min_days"`
	MaxDays     int         `json:"max_days"`
	IsActive    bool        `json:"is_active"`
	Levels      []LevelData `json:"levels"`
}

func (r WorkflowData) Validate() error {
	if strings.TrimSpace(r.LeaveTypeID) == "" {
		return errors.New("не указан тип отпуска")
	}
	if r.MinDays < 0 || r.MaxDays < r.MinDays {
		return errors.New("некорректный диапазон дней цепочки согласования")
	}
	if len(r.Levels) == 0 {
		return errors.New("цепочка согласования должна содержать хотя бы один уровень")
	}
	seen := map[int]bool{}
	for _, level := range r.Levels {
		if level.ApproverRole == "" {
			return errors.New("не указана роль согласующего")
		}
		if seen[level.LevelOrder] {
			return errors.Errorf("уровень %d указан дважды", level.LevelOrder)
		}
		seen[level.LevelOrder] = true
	}
	return nil
}

type LevelView struct {
	ID           string `json:"id"`
	LevelOrder   int    `json:"level_order"`
	ApproverRole string `json:"approver_role"`
}

type WorkflowView struct {
	ID            string      `json:"id"`
	LeaveTypeID   string      `json:"leave_type_id"`
	LeaveTypeName string      `json:"leave_type_name,omitempty"`
	Name          string      `json:"name"`
	MinDays       int         `json:"min_days"`
	MaxDays       int         `json:"max_days"`
	IsActive      bool        `json:"is_active"`
	Levels        []LevelView `json:"levels"`
}

func WorkflowConvert(rec dbmodels.ApprovalWorkflow) WorkflowView {
	view := WorkflowView{
		ID:          rec.ID,
		LeaveTypeID: rec.LeaveTypeID,
		Name:        rec.Name,
		MinDays:     rec.MinDays,
		MaxDays:     rec.MaxDays,
		IsActive:    rec.IsActive,
	}
	for _, level := range rec.Levels {
		view.Levels = append(view.Levels, LevelView{
			ID:           level.ID,
			LevelOrder:   level.LevelOrder,
			ApproverRole: string(level.ApproverRole),
		})
	}
	return view
}
