package leavetypeprovider

import (
	"leave-tools-backend/db"
	leavepolicystore "leave-tools-backend/lib/leave-policy/store"
	leavetypestore "leave-tools-backend/lib/leave-type/store"
	"leave-tools-backend/models"
	leaveapimodels "leave-tools-backend/models/api/leave"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	// List - эффективный набор типов отпуска спейса: глобальные типы
	// плюс типы спейса, тип спейса затеняет одноимённый глобальный
	List(spaceID string) ([]leaveapimodels.LeaveTypeView, error)
	// GetEffective - тип и политика для заявки. Затенённый глобальный
	// тип и неактивные записи не входят в эффективный набор
	GetEffective(spaceID, leaveTypeID string) (*dbmodels.LeaveType, *dbmodels.LeavePolicy, error)
	CreateType(spaceID string, data leaveapimodels.OverrideData) (id string, err error)
	UpsertOverride(spaceID string, data leaveapimodels.OverrideData) (id string, err error)
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

func (i impl) getLogger(spaceID string) *log.Entry {
	return log.WithField("space_id", spaceID)
}

func (i impl) List(spaceID string) ([]leaveapimodels.LeaveTypeView, error) {
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
	result := make([]leaveapimodels.LeaveTypeView, 0, len(globalList)+len(tenantList))
	for _, rec := range tenantList {
		result = append(result, leaveapimodels.LeaveTypeConvert(rec))
	}
	for _, rec := range globalList {
		if shadowed[rec.Name] {
			continue
		}
		result = append(result, leaveapimodels.LeaveTypeConvert(rec))
	}
	return result, nil
}

func (i impl) GetEffective(spaceID, leaveTypeID string) (*dbmodels.LeaveType, *dbmodels.LeavePolicy, error) {
	store := leavetypestore.NewInstance(i.db)
	rec, err := store.GetByID(leaveTypeID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil || !rec.IsActive {
		return nil, nil, models.ErrInvalidLeaveType
	}
	if rec.IsGlobal() {
		override, err := store.GetTenantByName(spaceID, rec.Name)
		if err != nil {
			return nil, nil, err
		}
		if override != nil {
			// глобальный тип затенён настройкой спейса
			return nil, nil, models.ErrInvalidLeaveType
		}
	} else if rec.SpaceID == nil || *rec.SpaceID != spaceID {
		return nil, nil, models.ErrInvalidLeaveType
	}
	if rec.Policy == nil || !rec.Policy.IsActive {
		return nil, nil, models.ErrPolicyNotFound
	}
	return rec, rec.Policy, nil
}

func (i impl) CreateType(spaceID string, data leaveapimodels.OverrideData) (id string, err error) {
	logger := i.getLogger(spaceID).WithField("leave_type", data.Name)
	err = i.db.Transaction(func(tx *gorm.DB) error {
		store := leavetypestore.NewInstance(tx)
		exist, err := store.GetTenantByName(spaceID, data.Name)
		if err != nil {
			return err
		}
		if exist != nil {
			return errors.New("тип отпуска с таким названием уже существует")
		}
		id, err = i.createTenantType(tx, spaceID, data)
		return err
	})
	if err != nil {
		return "", err
	}
	logger.
		WithField("rec_id", id).
		Info("Создан тип отпуска спейса")
	return id, nil
}

func (i impl) UpsertOverride(spaceID string, data leaveapimodels.OverrideData) (id string, err error) {
	logger := i.getLogger(spaceID).WithField("leave_type", data.Name)
	created := false
	err = i.db.Transaction(func(tx *gorm.DB) error {
		rec, wasMaterialized, err := i.materializeOverride(tx, spaceID, data.Name)
		if err != nil {
			return err
		}
		created = wasMaterialized
		id = rec.ID
		return i.applyOverride(tx, rec, data)
	})
	if err != nil {
		return "", err
	}
	if created {
		logger.
			WithField("rec_id", id).
			Info("Материализована настройка типа отпуска спейса")
	} else {
		logger.
			WithField("rec_id", id).
			Info("Обновлена настройка типа отпуска спейса")
	}
	return id, nil
}

// materializeOverride - copy-on-write: возвращает тип спейса с данным
// именем, при его отсутствии копирует глобальный тип и его политику в
// записи спейса. Глобальные записи при этом не изменяются.
// Повторный вызов возвращает уже созданную копию (идемпотентность
// обеспечена уникальностью (name, space_id))
func (i impl) materializeOverride(tx *gorm.DB, spaceID, name string) (rec *dbmodels.LeaveType, created bool, err error) {
	store := leavetypestore.NewInstance(tx)
	rec, err = store.GetTenantByName(spaceID, name)
	if err != nil {
		return nil, false, err
	}
	if rec != nil {
		return rec, false, nil
	}
	global, err := store.GetGlobalByName(name)
	if err != nil {
		return nil, false, err
	}
	if global == nil {
		return nil, false, models.ErrPolicyNotFound
	}
	clone := dbmodels.LeaveType{
		SpaceID:               &spaceID,
		Name:                  global.Name,
		Description:           global.Description,
		RequiresDocumentation: global.RequiresDocumentation,
		MaxDays:               global.MaxDays,
		IsPaid:                global.IsPaid,
		IsActive:              global.IsActive,
	}
	typeID, err := store.Create(clone)
	if err != nil {
		return nil, false, errors.Wrapf(err, "ошибка копирования типа отпуска %v", name)
	}
	if global.Policy != nil {
		policyStore := leavepolicystore.NewInstance(tx)
		policyClone := dbmodels.LeavePolicy{
			LeaveTypeID:        typeID,
			DefaultDays:        global.Policy.DefaultDays,
			CarryForwardDays:   global.Policy.CarryForwardDays,
			MinServiceDays:     global.Policy.MinServiceDays,
			RequiresApproval:   global.Policy.RequiresApproval,
			NoticePeriodDays:   global.Policy.NoticePeriodDays,
			MaxConsecutiveDays: global.Policy.MaxConsecutiveDays,
			GenderSpecific:     global.Policy.GenderSpecific,
			ExcludeWeekends:    global.Policy.ExcludeWeekends,
			IsActive:           global.Policy.IsActive,
		}
		policyID, err := policyStore.Create(policyClone)
		if err != nil {
			return nil, false, errors.Wrapf(err, "ошибка копирования политики типа отпуска %v", name)
		}
		rules := make([]dbmodels.PolicyRule, 0, len(global.Policy.Rules))
		for _, rule := range global.Policy.Rules {
			rules = append(rules, dbmodels.PolicyRule{Kind: rule.Kind, Value: rule.Value})
		}
		if err = policyStore.ReplaceRules(policyID, rules); err != nil {
			return nil, false, err
		}
	}
	rec, err = store.GetByID(typeID)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// applyOverride записывает поля настройки в тип и политику спейса,
// прижимая DefaultDays к новому MaxDays (не ниже нуля)
func (i impl) applyOverride(tx *gorm.DB, rec *dbmodels.LeaveType, data leaveapimodels.OverrideData) error {
	store := leavetypestore.NewInstance(tx)
	err := store.Update(rec.ID, map[string]interface{}{
		"description":            data.Description,
		"requires_documentation": data.RequiresDocumentation,
		"max_days":               data.MaxDays,
		"is_paid":                data.IsPaid,
		"is_active":              data.IsActive,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка обновления типа отпуска")
	}
	policyStore := leavepolicystore.NewInstance(tx)
	defaultDays := data.Policy.DefaultDays
	if defaultDays > data.MaxDays {
		defaultDays = data.MaxDays
	}
	if defaultDays < 0 {
		defaultDays = 0
	}
	if rec.Policy == nil {
		policyID, err := policyStore.Create(dbmodels.LeavePolicy{
			LeaveTypeID:        rec.ID,
			DefaultDays:        defaultDays,
			CarryForwardDays:   data.Policy.CarryForwardDays,
			MinServiceDays:     data.Policy.MinServiceDays,
			RequiresApproval:   data.Policy.RequiresApproval,
			NoticePeriodDays:   data.Policy.NoticePeriodDays,
			MaxConsecutiveDays: data.Policy.MaxConsecutiveDays,
			GenderSpecific:     data.Policy.GenderSpecific,
			ExcludeWeekends:    data.Policy.ExcludeWeekends,
			IsActive:           data.Policy.IsActive,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка создания политики типа отпуска")
		}
		return policyStore.ReplaceRules(policyID, rulesFromData(data.Policy.Rules))
	}
	err = policyStore.Update(rec.Policy.ID, map[string]interface{}{
		"default_days":         defaultDays,
		"carry_forward_days":   data.Policy.CarryForwardDays,
		"min_service_days":     data.Policy.MinServiceDays,
		"requires_approval":    data.Policy.RequiresApproval,
		"notice_period_days":   data.Policy.NoticePeriodDays,
		"max_consecutive_days": data.Policy.MaxConsecutiveDays,
		"gender_specific":      data.Policy.GenderSpecific,
		"exclude_weekends":     data.Policy.ExcludeWeekends,
		"is_active":            data.Policy.IsActive,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка обновления политики типа отпуска")
	}
	return policyStore.ReplaceRules(rec.Policy.ID, rulesFromData(data.Policy.Rules))
}

func (i impl) createTenantType(tx *gorm.DB, spaceID string, data leaveapimodels.OverrideData) (id string, err error) {
	store := leavetypestore.NewInstance(tx)
	defaultDays := data.Policy.DefaultDays
	if defaultDays > data.MaxDays {
		defaultDays = data.MaxDays
	}
	id, err = store.Create(dbmodels.LeaveType{
		SpaceID:               &spaceID,
		Name:                  data.Name,
		Description:           data.Description,
		RequiresDocumentation: data.RequiresDocumentation,
		MaxDays:               data.MaxDays,
		IsPaid:                data.IsPaid,
		IsActive:              data.IsActive,
	})
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания типа отпуска")
	}
	policyStore := leavepolicystore.NewInstance(tx)
	policyID, err := policyStore.Create(dbmodels.LeavePolicy{
		LeaveTypeID:        id,
		DefaultDays:        defaultDays,
		CarryForwardDays:   data.Policy.CarryForwardDays,
		MinServiceDays:     data.Policy.MinServiceDays,
		RequiresApproval:   data.Policy.RequiresApproval,
		NoticePeriodDays:   data.Policy.NoticePeriodDays,
		MaxConsecutiveDays: data.Policy.MaxConsecutiveDays,
		GenderSpecific:     data.Policy.GenderSpecific,
		ExcludeWeekends:    data.Policy.ExcludeWeekends,
		IsActive:           data.Policy.IsActive,
	})
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания политики типа отпуска")
	}
	return id, policyStore.ReplaceRules(policyID, rulesFromData(data.Policy.Rules))
}

func rulesFromData(rules []leaveapimodels.RuleData) []dbmodels.PolicyRule {
	result := make([]dbmodels.PolicyRule, 0, len(rules))
	for _, rule := range rules {
		result = append(result, dbmodels.PolicyRule{Kind: rule.Kind, Value: rule.Value})
	}
	return result
}
