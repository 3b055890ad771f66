package api

import (
	"strconv"

	"bank-branches-backend/internal/catalog"

	"github.com/gofiber/fiber/v2"
)

// ----------------------------------------
// BRANCHES
// GET /api/branches?first=&bank_name=&city=&state=&ifsc=
// GET /api/branches/:ifsc
// ----------------------------------------

func optionalQuery(c *fiber.Ctx, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

func ListBranchesHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		args := catalog.BranchesArgs{
			BranchFilter: catalog.BranchFilter{
				BankName: optionalQuery(c, "bank_name"),
				City:     optionalQuery(c, "city"),
				State:    optionalQuery(c, "state"),
				IFSC:     optionalQuery(c, "ifsc"),
			},
		}
		if raw := c.Query("first"); raw != "" {
			first, err := strconv.Atoi(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "first must be an integer")
			}
			args.First = &first
		}

		conn, err := svc.Branches(c.UserContext(), args)
		if err != nil {
			return err
		}
		return c.JSON(conn)
	}
}

func GetBranchHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ifsc := c.Params("ifsc")

		branch, err := svc.BranchByIFSC(c.UserContext(), ifsc)
		if err != nil {
			return err
		}
		if branch == nil {
			return fiber.NewError(fiber.StatusNotFound, "branch not found")
		}
		return c.JSON(branch)
	}
}
