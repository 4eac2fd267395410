package apiv1

import (
	approvalhandler "leave-tools-backend/lib/approval"

	"leave-tools-backend/controllers"
	"leave-tools-backend/middleware"
	"leave-tools-backend/models"
	apimodels "leave-tools-backend/models/api"
	leaveapimodels "leave-tools-backend/models/api/leave"

	"github.com/gofiber/fiber/v2"
)

type leaveApprovalApiController struct {
	controllers.BaseAPIController
}

func InitLeaveApprovalApiRouters(app *fiber.App) {
	controller := leaveApprovalApiController{}
	app.Route("leave_request/:id", func(router fiber.Router) {
		router.Post("approve", controller.approve)
		router.Post("reject", controller.reject)
		router.Post("escalate", controller.escalate)
	})
	app.Route("approval_workflow", func(router fiber.Router) {
		router.Get("", middleware.SpaceAdminRequired(), controller.listWorkflows)
		router.Post("", middleware.SpaceAdminRequired(), controller.createWorkflow)
		router.Delete(":id", middleware.SpaceAdminRequired(), controller.deleteWorkflow)
	})
}

// @Summary Согласовать заявку
// @Tags Согласование отпусков
// @Description Решение согласующего по заявке. Для эскалированной
// @Description заявки обязателен комментарий решения
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	leaveapimodels.DecisionData		true	"request body"
// @Param   id          		path    string							true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_request/{id}/approve [post]
func (c *leaveApprovalApiController) approve(ctx *fiber.Ctx) error {
	id, payload, ok, err := c.decisionArgs(ctx)
	if !ok {
		return err
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = approvalhandler.Instance.Approve(spaceID, id, middleware.GetUserID(ctx), middleware.GetSpaceRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка согласования заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отклонить заявку
// @Tags Согласование отпусков
// @Description Отклонение заявки. Причина отклонения обязательна
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	leaveapimodels.DecisionData		true	"request body"
// @Param   id          		path    string							true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_request/{id}/reject [post]
func (c *leaveApprovalApiController) reject(ctx *fiber.Ctx) error {
	id, payload, ok, err := c.decisionArgs(ctx)
	if !ok {
		return err
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = approvalhandler.Instance.Reject(spaceID, id, middleware.GetUserID(ctx), middleware.GetSpaceRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Эскалировать заявку
// @Tags Согласование отпусков
// @Description Передача решения по заявке администратору спейса
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	leaveapimodels.EscalationData	true	"request body"
// @Param   id          		path    string							true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_request/{id}/escalate [post]
func (c *leaveApprovalApiController) escalate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if middleware.GetSpaceRole(ctx) == models.SpaceUserRole {
		return ctx.SendStatus(fiber.StatusForbidden)
	}
	var payload leaveapimodels.EscalationData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = approvalhandler.Instance.Escalate(spaceID, id, middleware.GetUserID(ctx), middleware.GetSpaceRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка эскалации заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Цепочки согласования
// @Tags Согласование отпусков
// @Description Цепочки согласования спейса
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]leaveapimodels.WorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval_workflow [get]
func (c *leaveApprovalApiController) listWorkflows(ctx *fiber.Ctx) error {
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := approvalhandler.Instance.ListWorkflows(spaceID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения цепочек согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Создание цепочки согласования
// @Tags Согласование отпусков
// @Description Создание цепочки согласования по типу отпуска и диапазону дней
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	leaveapimodels.WorkflowData		true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval_workflow [post]
func (c *leaveApprovalApiController) createWorkflow(ctx *fiber.Ctx) error {
	var payload leaveapimodels.WorkflowData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	id, err := approvalhandler.Instance.CreateWorkflow(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания цепочки согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Удаление цепочки согласования
// @Tags Согласование отпусков
// @Description Удаление цепочки согласования
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval_workflow/{id} [delete]
func (c *leaveApprovalApiController) deleteWorkflow(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = approvalhandler.Instance.DeleteWorkflow(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления цепочки согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

func (c *leaveApprovalApiController) decisionArgs(ctx *fiber.Ctx) (id string, payload leaveapimodels.DecisionData, ok bool, err error) {
	id, err = c.GetID(ctx)
	if err != nil {
		return "", payload, false, ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if middleware.GetSpaceRole(ctx) == models.SpaceUserRole {
		return "", payload, false, ctx.SendStatus(fiber.StatusForbidden)
	}
	if err = c.BodyParser(ctx, &payload); err != nil {
		return "", payload, false, ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	return id, payload, true, nil
}
