package spaceauthhandler

import (
	"time"

	"leave-tools-backend/db"
	spaceusersstore "leave-tools-backend/lib/space/users/store"
	authutils "leave-tools-backend/lib/utils/auth-utils"
	authapimodels "leave-tools-backend/models/api/auth"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Login(data authapimodels.LoginData) (authapimodels.TokenResponse, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		spaceUsersStore: spaceusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	spaceUsersStore spaceusersstore.Provider
}

func (i impl) Login(data authapimodels.LoginData) (authapimodels.TokenResponse, error) {
	rec, err := i.spaceUsersStore.FindByEmail(data.Email)
	if err != nil {
		return authapimodels.TokenResponse{}, err
	}
	if rec == nil || !rec.IsActive {
		return authapimodels.TokenResponse{}, errors.New("неверная почта или пароль")
	}
	if rec.Password != authutils.GetMD5Hash(data.Password) {
		return authapimodels.TokenResponse{}, errors.New("неверная почта или пароль")
	}
	accessToken, err := authutils.GetToken(rec.ID, rec.GetFullName(), rec.SpaceID, rec.Role, rec.Gender)
	if err != nil {
		return authapimodels.TokenResponse{}, errors.Wrap(err, "ошибка генерации токена")
	}
	refreshToken, err := authutils.GetRefreshToken(rec.ID, rec.GetFullName())
	if err != nil {
		return authapimodels.TokenResponse{}, errors.Wrap(err, "ошибка генерации refresh токена")
	}
	err = i.spaceUsersStore.Update(rec.ID, map[string]interface{}{"last_login": time.Now()})
	if err != nil {
		log.WithError(err).
			WithField("user_id", rec.ID).
			Error("ошибка обновления времени входа")
	}
	return authapimodels.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
