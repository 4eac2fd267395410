package apiv1

import (
	"leave-tools-backend/controllers"
	spaceauthhandler "leave-tools-backend/lib/space/auth"
	spacehandler "leave-tools-backend/lib/space/handler"
	apimodels "leave-tools-backend/models/api"
	authapimodels "leave-tools-backend/models/api/auth"

	"github.com/gofiber/fiber/v2"
)

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(app *fiber.App) {
	controller := authApiController{}
	app.Route("auth", func(router fiber.Router) {
		router.Post("login", controller.login)
		router.Post("register", controller.registerSpace)
	})
}

// @Summary Аутентификация пользователя
// @Tags Аутентификация пользователей
// @Description Аутентификация пользователя
// @Param	body				body		authapimodels.LoginData	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.TokenResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/login [post]
func (c *authApiController) login(ctx *fiber.Ctx) error {
	var payload authapimodels.LoginData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := spaceauthhandler.Instance.Login(payload)
	if err != nil {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Регистрация спейса
// @Tags Аутентификация пользователей
// @Description Регистрация спейса организации с администратором
// @Param	body				body		authapimodels.RegisterSpaceData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/register [post]
func (c *authApiController) registerSpace(ctx *fiber.Ctx) error {
	var payload authapimodels.RegisterSpaceData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID, err := spacehandler.Instance.RegisterSpace(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка регистрации спейса")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(spaceID))
}
