package leavebalancehandler

import (
	"time"

	"leave-tools-backend/db"
	leavebalancestore "leave-tools-backend/lib/leave-balance/store"
	leavetypestore "leave-tools-backend/lib/leave-type/store"
	spaceusersstore "leave-tools-backend/lib/space/users/store"
	"leave-tools-backend/models"
	leaveapimodels "leave-tools-backend/models/api/leave"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	// EnsureBalance лениво создаёт баланс года, перенося остаток
	// прошлого года в пределах CarryForwardDays политики
	EnsureBalance(spaceID, userID string, leaveType *dbmodels.LeaveType, year int) (*dbmodels.LeaveBalance, error)
	// Reserve удерживает дни под заявку в статусе PENDING
	Reserve(spaceID, userID string, leaveType *dbmodels.LeaveType, year, days int) error
	// Commit списывает удержанные дни при одобрении заявки
	Commit(spaceID, userID, leaveTypeID string, year, days int) error
	// Release возвращает удержанные дни при отклонении или отмене
	Release(spaceID, userID, leaveTypeID string, year, days int) error
	// RolloverYear создаёт балансы нового года по всем доступным
	// сотруднику типам отпуска. Повторный вызов ничего не меняет
	RolloverYear(spaceID, userID string, year int) error
	GetUserBalances(spaceID, userID string, year int) ([]leaveapimodels.BalanceView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewHandlerWithDB(db.DB)
}

func NewHandlerWithDB(database *gorm.DB) Provider {
	return impl{
		db: database,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) EnsureBalance(spaceID, userID string, leaveType *dbmodels.LeaveType, year int) (*dbmodels.LeaveBalance, error) {
	if leaveType.Policy == nil {
		return nil, models.ErrPolicyNotFound
	}
	store := leavebalancestore.NewInstance(i.db)
	rec, err := store.Get(spaceID, userID, leaveType.ID, year)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}
	carryForward := 0
	prior, err := store.Get(spaceID, userID, leaveType.ID, year-1)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		carryForward = prior.AvailableDays()
		if carryForward > leaveType.Policy.CarryForwardDays {
			carryForward = leaveType.Policy.CarryForwardDays
		}
		if carryForward < 0 {
			carryForward = 0
		}
	}
	rec = &dbmodels.LeaveBalance{
		BaseSpaceModel:   dbmodels.BaseSpaceModel{SpaceID: spaceID},
		UserID:           userID,
		LeaveTypeID:      leaveType.ID,
		Year:             year,
		TotalDays:        leaveType.Policy.DefaultDays,
		CarryForwardDays: carryForward,
	}
	id, err := store.Create(*rec)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания баланса отпуска")
	}
	rec.ID = id
	return rec, nil
}

func (i impl) Reserve(spaceID, userID string, leaveType *dbmodels.LeaveType, year, days int) error {
	if _, err := i.EnsureBalance(spaceID, userID, leaveType, year); err != nil {
		return err
	}
	store := leavebalancestore.NewInstance(i.db)
	ok, err := store.Reserve(spaceID, userID, leaveType.ID, year, days)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	// удержание не прошло предикат доступности, остаток перечитывается
	// уже после конкурентных изменений
	rec, err := store.Get(spaceID, userID, leaveType.ID, year)
	if err != nil {
		return err
	}
	available := 0
	if rec != nil {
		available = rec.AvailableDays()
	}
	return models.InsufficientBalanceError{
		Available: available,
		Requested: days,
	}
}

func (i impl) Commit(spaceID, userID, leaveTypeID string, year, days int) error {
	store := leavebalancestore.NewInstance(i.db)
	ok, err := store.Commit(spaceID, userID, leaveTypeID, year, days)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	rec, err := store.Get(spaceID, userID, leaveTypeID, year)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.Errorf("не найден баланс для списания: пользователь %v, тип %v, год %v", userID, leaveTypeID, year)
	}
	return errors.Errorf("нарушение баланса: удержано %d дн., списывается %d", rec.PendingDays, days)
}

func (i impl) Release(spaceID, userID, leaveTypeID string, year, days int) error {
	store := leavebalancestore.NewInstance(i.db)
	ok, err := store.Release(spaceID, userID, leaveTypeID, year, days)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	rec, err := store.Get(spaceID, userID, leaveTypeID, year)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.Errorf("не найден баланс для возврата: пользователь %v, тип %v, год %v", userID, leaveTypeID, year)
	}
	return errors.Errorf("нарушение баланса: удержано %d дн., возвращается %d", rec.PendingDays, days)
}

func (i impl) RolloverYear(spaceID, userID string, year int) error {
	if year == 0 {
		year = time.Now().Year()
	}
	user, err := spaceusersstore.NewInstance(i.db).GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive || user.SpaceID != spaceID {
		return nil
	}
	types, err := i.effectiveTypes(spaceID)
	if err != nil {
		return err
	}
	for idx := range types {
		leaveType := types[idx]
		if !leaveType.IsActive || leaveType.Policy == nil || !leaveType.Policy.IsActive {
			continue
		}
		if leaveType.Policy.GenderSpecific != models.GenderAny &&
			leaveType.Policy.GenderSpecific != user.Gender {
			continue
		}
		if _, err = i.EnsureBalance(spaceID, userID, &leaveType, year); err != nil {
			return err
		}
	}
	log.WithFields(log.Fields{
		"space_id": spaceID,
		"user_id":  userID,
		"year":     year,
	}).Debug("Выполнен перенос балансов сотрудника")
	return nil
}

func (i impl) GetUserBalances(spaceID, userID string, year int) ([]leaveapimodels.BalanceView, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	list, err := leavebalancestore.NewInstance(i.db).ListByUserYear(spaceID, userID, year)
	if err != nil {
		return nil, err
	}
	result := make([]leaveapimodels.BalanceView, 0, len(list))
	for _, rec := range list {
		result = append(result, leaveapimodels.BalanceConvert(rec))
	}
	return result, nil
}

// effectiveTypes - типы отпуска спейса с учётом затенения глобальных
func (i impl) effectiveTypes(spaceID string) ([]dbmodels.LeaveType, error) {
	store := leavetypestore.NewInstance(i.db)
	globalList, err := store.ListGlobal()
	if err != nil {
		return nil, err
	}
	tenantList, err := store.ListBySpace(spaceID)
	if err != nil {
		return nil, err
	}
	shadowed := make(map[string]bool, len(tenantList))
	for _, rec := range tenantList {
		shadowed[rec.Name] = true
	}
	result := tenantList
	for _, rec := range globalList {
		if !shadowed[rec.Name] {
			result = append(result, rec)
		}
	}
	return result, nil
}
