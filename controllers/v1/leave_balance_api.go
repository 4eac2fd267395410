package apiv1

import (
	"strconv"

	leavebalancehandler "leave-tools-backend/lib/leave-balance"

	"leave-tools-backend/controllers"
	"leave-tools-backend/middleware"
	apimodels "leave-tools-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type leaveBalanceApiController struct {
	controllers.BaseAPIController
}

func InitLeaveBalanceApiRouters(app *fiber.App) {
	controller := leaveBalanceApiController{}
	app.Route("leave_balance", func(router fiber.Router) {
		router.Get("my", controller.my)
		router.Get("user/:id", middleware.SpaceAdminRequired(), controller.byUser)
		router.Post("user/:id/rollover", middleware.SpaceAdminRequired(), controller.rollover)
	})
}

// @Summary Мои балансы
// @Tags Балансы отпусков
// @Description Балансы текущего сотрудника за год (по умолчанию текущий)
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   year        		query   int		false   "год"
// @Success 200 {object} apimodels.Response{data=[]leaveapimodels.BalanceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_balance/my [get]
func (c *leaveBalanceApiController) my(ctx *fiber.Ctx) error {
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := leavebalancehandler.Instance.GetUserBalances(spaceID, userID, c.getYear(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения балансов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Балансы сотрудника
// @Tags Балансы отпусков
// @Description Балансы сотрудника за год (по умолчанию текущий)
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Param   year        		query   int		false   "год"
// @Success 200 {object} apimodels.Response{data=[]leaveapimodels.BalanceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_balance/user/{id} [get]
func (c *leaveBalanceApiController) byUser(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := leavebalancehandler.Instance.GetUserBalances(spaceID, id, c.getYear(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения балансов сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Перенос балансов сотрудника
// @Tags Балансы отпусков
// @Description Создание балансов сотрудника на год с переносом остатка.
// @Description Повторный вызов ничего не меняет
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Param   year        		query   int		false   "год"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_balance/user/{id}/rollover [post]
func (c *leaveBalanceApiController) rollover(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = leavebalancehandler.Instance.RolloverYear(spaceID, id, c.getYear(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка переноса балансов сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

func (c *leaveBalanceApiController) getYear(ctx *fiber.Ctx) int {
	year, err := strconv.Atoi(ctx.Query("year"))
	if err != nil {
		return 0
	}
	return year
}
