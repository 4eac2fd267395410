package apiv1

import (
	"leave-tools-backend/controllers"
	leavetypeprovider "leave-tools-backend/lib/leave-type"
	"leave-tools-backend/middleware"
	apimodels "leave-tools-backend/models/api"
	leaveapimodels "leave-tools-backend/models/api/leave"

	"github.com/gofiber/fiber/v2"
)

type leaveTypeApiController struct {
	controllers.BaseAPIController
}

func InitLeaveTypeApiRouters(app *fiber.App) {
	controller := leaveTypeApiController{}
	app.Route("leave_type", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", middleware.SpaceAdminRequired(), controller.create)
		router.Put("override", middleware.SpaceAdminRequired(), controller.override)
	})
}

// @Summary Типы отпусков
// @Tags Типы отпусков
// @Description Доступные спейсу типы отпусков с политиками
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]leaveapimodels.LeaveTypeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_type [get]
func (c *leaveTypeApiController) list(ctx *fiber.Ctx) error {
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := leavetypeprovider.Instance.List(spaceID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения типов отпусков")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Создание типа отпуска
// @Tags Типы отпусков
// @Description Создание типа отпуска спейса с политикой
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	leaveapimodels.OverrideData		true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_type [post]
func (c *leaveTypeApiController) create(ctx *fiber.Ctx) error {
	var payload leaveapimodels.OverrideData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	id, err := leavetypeprovider.Instance.CreateType(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания типа отпуска")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Настройка типа отпуска
// @Tags Типы отпусков
// @Description Настройка политики типа отпуска для спейса. Для
// @Description глобального типа создаётся копия спейса, глобальные
// @Description настройки не изменяются
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	leaveapimodels.OverrideData		true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_type/override [put]
func (c *leaveTypeApiController) override(ctx *fiber.Ctx) error {
	var payload leaveapimodels.OverrideData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	id, err := leavetypeprovider.Instance.UpsertOverride(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка настройки типа отпуска")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}
