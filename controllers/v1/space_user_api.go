package apiv1

import (
	"leave-tools-backend/controllers"
	spaceusershandler "leave-tools-backend/lib/space/users/handler"
	"leave-tools-backend/middleware"
	apimodels "leave-tools-backend/models/api"
	spaceapimodels "leave-tools-backend/models/api/space"

	"github.com/gofiber/fiber/v2"
)

type spaceUserApiController struct {
	controllers.BaseAPIController
}

func InitSpaceUserRouters(app *fiber.App) {
	controller := spaceUserApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Get("me", controller.me)
		router.Post("list", middleware.SpaceAdminRequired(), controller.list)
		router.Post("", middleware.SpaceAdminRequired(), controller.create)
		router.Route(":id", func(idRouter fiber.Router) {
			idRouter.Get("", controller.get)
			idRouter.Put("", middleware.SpaceAdminRequired(), controller.update)
		})
	})
}

// @Summary Текущий сотрудник
// @Tags Сотрудники спейса
// @Description Информация о текущем сотруднике
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=spaceapimodels.SpaceUser}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/users/me [get]
func (c *spaceUserApiController) me(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	resp, err := spaceusershandler.Instance.GetByID(userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список сотрудников
// @Tags Сотрудники спейса
// @Description Список сотрудников спейса
// @Param   Authorization		header	string						true	"Authorization token"
// @Param	body 				body	apimodels.Pagination		true	"request body"
// @Success 200 {object} apimodels.Response{data=[]spaceapimodels.SpaceUser}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/users/list [post]
func (c *spaceUserApiController) list(ctx *fiber.Ctx) error {
	var payload apimodels.Pagination
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	page, limit := payload.GetPage()
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := spaceusershandler.Instance.GetListUsers(spaceID, page, limit)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка сотрудников")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Создание сотрудника
// @Tags Сотрудники спейса
// @Description Создание сотрудника спейса
// @Param   Authorization		header	string						true	"Authorization token"
// @Param	body 				body	spaceapimodels.CreateUser	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/users [post]
func (c *spaceUserApiController) create(ctx *fiber.Ctx) error {
	var payload spaceapimodels.CreateUser
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	id, err := spaceusershandler.Instance.CreateUser(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Сотрудник
// @Tags Сотрудники спейса
// @Description Информация о сотруднике
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=spaceapimodels.SpaceUser}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/users/{id} [get]
func (c *spaceUserApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := spaceusershandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Обновление сотрудника
// @Tags Сотрудники спейса
// @Description Обновление сотрудника спейса
// @Param   Authorization		header	string						true	"Authorization token"
// @Param	body 				body	spaceapimodels.UpdateUser	true	"request body"
// @Param   id          		path    string						true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/users/{id} [put]
func (c *spaceUserApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload spaceapimodels.UpdateUser
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = spaceusershandler.Instance.UpdateUser(spaceID, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
