package leaveapimodels

import dbmodels "leave-tools-backend/models/db"

type BalanceView struct {
	ID               string `json:"id"`
	LeaveTypeID      string `json:"leave_type_id"`
	LeaveTypeName    string `json:"leave_type_name,omitempty"`
	Year             int    `json:"year"`
	TotalDays        int    `json:"total_days"`
	UsedDays         int    `json:"used_days"`
	PendingDays      int    `json:"pending_days"`
	CarryForwardDays int    `json:"carry_forward_days"`
	AvailableDays    int    `json:"available_days"`
}

func BalanceConvert(rec dbmodels.LeaveBalance) BalanceView {
	view := BalanceView{
		ID:               rec.ID,
		LeaveTypeID:      rec.LeaveTypeID,
		Year:             rec.Year,
		TotalDays:        rec.TotalDays,
		UsedDays:         rec.UsedDays,
		PendingDays:      rec.PendingDays,
		CarryForwardDays: rec.CarryForwardDays,
		AvailableDays:    rec.AvailableDays(),
	}
	if rec.LeaveType != nil {
		view.LeaveTypeName = rec.LeaveType.Name
	}
	return view
}
