package api

import (
	"bank-branches-backend/internal/catalog"

	"github.com/gofiber/fiber/v2"
)

// ----------------------------------------
// BANKS
// GET /api/banks
// GET /api/banks/:id
// ----------------------------------------

func ListBanksHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		banks, err := svc.Banks(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(banks)
	}
}

func GetBankHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "bank id must be an integer")
		}

		bank, err := svc.Bank(c.UserContext(), int64(id))
		if err != nil {
			return err
		}
		if bank == nil {
			return fiber.NewError(fiber.StatusNotFound, "bank not found")
		}
		return c.JSON(bank)
	}
}
