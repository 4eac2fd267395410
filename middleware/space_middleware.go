package middleware

import (
	authutils "leave-tools-backend/lib/utils/auth-utils"
	"leave-tools-backend/models"
	apimodels "leave-tools-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func GetUserSpace(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if space, exist := claims["space"]; exist {
		return space.(string)
	}
	return ""
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

func GetSpaceRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

func GetUserGender(ctx *fiber.Ctx) models.Gender {
	claims := authutils.GetClaims(ctx)
	if gender, exist := claims["gender"]; exist {
		if stringGender, ok := gender.(string); ok {
			return models.Gender(stringGender)
		}
	}
	return models.GenderAny
}

func SpaceAdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if GetSpaceRole(ctx) != models.SpaceAdminRole {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}
