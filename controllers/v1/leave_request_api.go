package apiv1

import (
	filestorage "leave-tools-backend/lib/file-storage"
	leaverequesthandler "leave-tools-backend/lib/leave-request"

	"leave-tools-backend/controllers"
	"leave-tools-backend/middleware"
	"leave-tools-backend/models"
	apimodels "leave-tools-backend/models/api"
	leaveapimodels "leave-tools-backend/models/api/leave"

	"github.com/gofiber/fiber/v2"
)

type leaveRequestApiController struct {
	controllers.BaseAPIController
}

func InitLeaveRequestApiRouters(app *fiber.App) {
	controller := leaveRequestApiController{}
	app.Route("leave_request", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("my", controller.listMy)
		router.Post("queue", controller.queue)
		router.Route(":id", func(idRouter fiber.Router) {
			idRouter.Get("", controller.get)
			idRouter.Post("cancel", controller.cancel)
			idRouter.Get("doc/:docId", controller.getDoc)
		})
	})
}

// @Summary Подача заявки на отпуск
// @Tags Заявки на отпуск
// @Description Подача заявки на отпуск с документами
// @Param   Authorization		header	string									true	"Authorization token"
// @Param	body 				body	leaveapimodels.LeaveRequestCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=leaveapimodels.LeaveRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_request [post]
func (c *leaveRequestApiController) create(ctx *fiber.Ctx) error {
	var payload leaveapimodels.LeaveRequestCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := leaverequesthandler.Instance.Create(ctx.UserContext(), spaceID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка подачи заявки на отпуск")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Мои заявки
// @Tags Заявки на отпуск
// @Description Заявки текущего сотрудника
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	leaveapimodels.RequestFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]leaveapimodels.LeaveRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_request/my [post]
func (c *leaveRequestApiController) listMy(ctx *fiber.Ctx) error {
	var payload leaveapimodels.RequestFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := leaverequesthandler.Instance.ListMy(spaceID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Очередь согласования
// @Tags Заявки на отпуск
// @Description Заявки, ожидающие решения. Эскалированные заявки первыми
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	leaveapimodels.RequestFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]leaveapimodels.LeaveRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_request/queue [post]
func (c *leaveRequestApiController) queue(ctx *fiber.Ctx) error {
	if middleware.GetSpaceRole(ctx) == models.SpaceUserRole {
		return ctx.SendStatus(fiber.StatusForbidden)
	}
	var payload leaveapimodels.RequestFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := leaverequesthandler.Instance.ListForApprover(spaceID, middleware.GetSpaceRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения очереди согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Заявка
// @Tags Заявки на отпуск
// @Description Заявка с документами и эскалациями
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=leaveapimodels.LeaveRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_request/{id} [get]
func (c *leaveRequestApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := leaverequesthandler.Instance.GetByID(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения заявки")
	}
	// рядовой сотрудник видит только свои заявки
	if middleware.GetSpaceRole(ctx) == models.SpaceUserRole && resp.UserID != middleware.GetUserID(ctx) {
		return ctx.SendStatus(fiber.StatusForbidden)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Отмена заявки
// @Tags Заявки на отпуск
// @Description Отмена собственной заявки в статусе PENDING
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_request/{id}/cancel [post]
func (c *leaveRequestApiController) cancel(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	err = leaverequesthandler.Instance.Cancel(spaceID, userID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отмены заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Скачать документ заявки
// @Tags Заявки на отпуск
// @Description Скачать приложенный к заявке документ
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Param   docId          		path    string	true    "doc rec ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/leave_request/{id}/doc/{docId} [get]
func (c *leaveRequestApiController) getDoc(ctx *fiber.Ctx) error {
	docID, err := c.GetIDByKey(ctx, "docId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	body, rec, err := filestorage.Instance.GetFile(ctx.UserContext(), spaceID, docID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения документа")
	}
	ctx.Set(fiber.HeaderContentDisposition, "attachment; filename="+rec.FileName)
	if rec.ContentType != "" {
		ctx.Set(fiber.HeaderContentType, rec.ContentType)
	}
	return ctx.Status(fiber.StatusOK).Send(body)
}
