package models

type LeaveEventCode string

const (
	EventLeaveRequestSubmitted   LeaveEventCode = "LeaveRequestSubmitted"
	EventLeaveRequestApproved    LeaveEventCode = "LeaveRequestApproved"
	EventLeaveRequestRejected    LeaveEventCode = "LeaveRequestRejected"
	EventLeaveRequestCancelled   LeaveEventCode = "LeaveRequestCancelled"
	EventLeaveRequestEscalated   LeaveEventCode = "LeaveRequestEscalated"
	EventLeaveEscalationResolved LeaveEventCode = "LeaveEscalationResolved"
)

type LeaveEventTpl struct {
	Name  string
	Title string
	// Msg - шаблон текста, подставляются тип отпуска, период и кол-во дней
	Msg string
}

var LeaveEventMap = map[LeaveEventCode]LeaveEventTpl{
	EventLeaveRequestSubmitted:   {Name: "Подача заявки на отпуск", Title: "Заявка подана", Msg: "Заявка на «%v» с %v по %v (%v дн.) подана и ожидает согласования."},
	EventLeaveRequestApproved:    {Name: "Согласование заявки на отпуск", Title: "Заявка согласована", Msg: "Заявка на «%v» с %v по %v (%v дн.) согласована."},
	EventLeaveRequestRejected:    {Name: "Отклонение заявки на отпуск", Title: "Заявка отклонена", Msg: "Заявка на «%v» с %v по %v (%v дн.) отклонена."},
	EventLeaveRequestCancelled:   {Name: "Отмена заявки на отпуск", Title: "Заявка отменена", Msg: "Заявка на «%v» с %v по %v (%v дн.) отменена сотрудником."},
	EventLeaveRequestEscalated:   {Name: "Эскалация заявки на отпуск", Title: "Заявка эскалирована", Msg: "Решение по заявке на «%v» с %v по %v (%v дн.) передано вышестоящему согласующему."},
	EventLeaveEscalationResolved: {Name: "Решение по эскалации", Title: "Эскалация решена", Msg: "По эскалированной заявке на «%v» с %v по %v (%v дн.) принято решение."},
}
