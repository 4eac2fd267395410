package leaveapimodels

import (
	"strings"
	"time"

	"leave-tools-backend/models"
	apimodels "leave-tools-backend/models/api"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

type DocumentData struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileData []byte `json:"file_data"`
}

type LeaveRequestCreateData struct {
	LeaveTypeID   string         `json:"leave_type_id"`
	StartDate     string         `json:"start_date"` // YYYY-MM-DD
	EndDate       string         `json:"end_date"`   // YYYY-MM-DD
	Reason        string         `json:"reason"`
	ContactNumber string         `json:"contact_number"`
	Documents     []DocumentData `json:"documents"`
}

func (r LeaveRequestCreateData) Validate() error {
	if strings.TrimSpace(r.LeaveTypeID) == "" {
		return errors.New("не указан тип отпуска")
	}
	if _, _, err := r.Period(); err != nil {
		return err
	}
	for _, doc := range r.Documents {
		if strings.TrimSpace(doc.FileName) == "" || len(doc.FileData) == 0 {
			return errors.New("приложен пустой документ")
		}
	}
	return nil
}

func (r LeaveRequestCreateData) Period() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("некорректная дата начала, ожидается формат YYYY-MM-DD")
	}
	end, err = time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("некорректная дата окончания, ожидается формат YYYY-MM-DD")
	}
	return start, end, nil
}

type DocumentView struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

type EscalationView struct {
	ID              string     `json:"id"`
	EscalatedBy     string     `json:"escalated_by"`
	EscalatedTo     string     `json:"escalated_to"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}

type LeaveRequestView struct {
	ID                    string           `json:"id"`
	UserID                string           `json:"user_id"`
	UserName              string           `json:"user_name,omitempty"`
	LeaveTypeID           string           `json:"leave_type_id"`
	LeaveTypeName         string           `json:"leave_type_name,omitempty"`
	StartDate             string           `json:"start_date"`
	EndDate               string           `json:"end_date"`
	DaysRequested         int              `json:"days_requested"`
	Reason                string           `json:"reason"`
	ContactNumber         string           `json:"contact_number,omitempty"`
	Status                string           `json:"status"`
	StatusName            string           `json:"status_name"`
	RequiresDocumentation bool             `json:"requires_documentation"`
	HasDocumentation      bool             `json:"has_documentation"`
	RejectionReason       string           `json:"rejection_reason,omitempty"`
	Documents             []DocumentView   `json:"documents,omitempty"`
	Escalations           []EscalationView `json:"escalations,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

func LeaveRequestConvert(rec dbmodels.LeaveRequest) LeaveRequestView {
	view := LeaveRequestView{
		ID:                    rec.ID,
		UserID:                rec.UserID,
		LeaveTypeID:           rec.LeaveTypeID,
		StartDate:             rec.StartDate.Format(dateLayout),
		EndDate:               rec.EndDate.Format(dateLayout),
		DaysRequested:         rec.DaysRequested,
		Reason:                rec.Reason,
		ContactNumber:         rec.ContactNumber,
		Status:                string(rec.Status),
		StatusName:            rec.Status.ToHuman(),
		RequiresDocumentation: rec.RequiresDocumentation,
		HasDocumentation:      rec.HasDocumentation,
		RejectionReason:       rec.RejectionReason,
		CreatedAt:             rec.CreatedAt,
		UpdatedAt:             rec.UpdatedAt,
	}
	if rec.User != nil {
		view.UserName = rec.User.GetFullName()
	}
	if rec.LeaveType != nil {
		view.LeaveTypeName = rec.LeaveType.Name
	}
	for _, doc := range rec.Documents {
		fileType := doc.ContentType
		if fileType == "" {
			fileType = string(doc.FileType)
		}
		view.Documents = append(view.Documents, DocumentView{
			ID:       doc.ID,
			FileName: doc.FileName,
			FileType: fileType,
			FileSize: doc.FileSize,
		})
	}
	for _, esc := range rec.Escalations {
		view.Escalations = append(view.Escalations, EscalationConvert(esc))
	}
	return view
}

func EscalationConvert(rec dbmodels.LeaveEscalation) EscalationView {
	return EscalationView{
		ID:              rec.ID,
		EscalatedBy:     rec.EscalatedBy,
		EscalatedTo:     string(rec.EscalatedTo),
		Reason:          rec.Reason,
		Status:          string(rec.Status),
		ResolutionNotes: rec.ResolutionNotes,
		ResolvedBy:      rec.ResolvedBy,
		ResolvedAt:      rec.ResolvedAt,
	}
}

type RequestFilter struct {
	apimodels.Pagination
	Status models.LeaveRequestStatus `json:"status"`
	Year   int                       `json:"year"`
}

func (r RequestFilter) Validate() error {
	if r.Status != "" && r.Status.ToHuman() == string(r.Status) {
		return errors.New("некорректный статус заявки")
	}
	return r.Pagination.Validate()
}
