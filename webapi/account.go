// Package webapi is the REST edge over the ledger service. It owns request
// parsing, owner scoping and the mapping of domain errors to HTTP status
// codes; all business rules live below it.
package webapi

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sgbank/account-ledger/pkg/service/ledger"
)

// HeaderOwnerID carries the id of the requesting principal. It is set by
// an upstream gateway; this service scopes every operation by it but does
// not authenticate it.
const HeaderOwnerID = "X-Owner-ID"

// NewApp builds the fiber application with all ledger routes registered.
func NewApp(svc *ledger.Service, logger *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "account-ledger",
		DisableStartupMessage: true,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/accounts", CreateAccount(svc, logger))
	app.Get("/accounts/:id/balance", GetBalance(svc, logger))
	app.Post("/accounts/:id/deposit", Deposit(svc, logger))
	app.Post("/accounts/:id/withdraw", Withdraw(svc, logger))
	app.Get("/accounts/:id/transactions", GetTransactions(svc, logger))

	return app
}

func ownerID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Get(HeaderOwnerID)
	if raw == "" {
		return uuid.Nil, ProblemJSON(c, fiber.StatusBadRequest, "Missing owner", HeaderOwnerID+" header is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ProblemJSON(c, fiber.StatusBadRequest, "Invalid owner id", HeaderOwnerID+" must be a valid UUID")
	}
	return id, nil
}

func accountID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, ProblemJSON(c, fiber.StatusBadRequest, "Invalid account id", "account id must be a valid UUID")
	}
	return id, nil
}

// CreateAccount handles POST /accounts.
func CreateAccount(svc *ledger.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := ownerID(c)
		if err != nil {
			return err
		}
		view, err := svc.CreateAccount(c.Context(), owner)
		if err != nil {
			logger.Error("create account failed", "error", err)
			return DomainProblemJSON(c, "Failed to create account", err)
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "Account created", view)
	}
}

// GetBalance handles GET /accounts/:id/balance.
func GetBalance(svc *ledger.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := ownerID(c)
		if err != nil {
			return err
		}
		id, err := accountID(c)
		if err != nil {
			return err
		}
		view, err := svc.GetBalance(c.Context(), id, owner)
		if err != nil {
			return DomainProblemJSON(c, "Failed to fetch balance", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Balance fetched", view)
	}
}

// Deposit handles POST /accounts/:id/deposit.
func Deposit(svc *ledger.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := ownerID(c)
		if err != nil {
			return err
		}
		id, err := accountID(c)
		if err != nil {
			return err
		}
		input, err := BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		view, err := svc.Deposit(c.Context(), id, owner, input.Amount)
		if err != nil {
			logger.Error("deposit failed", "account_id", id, "error", err)
			return DomainProblemJSON(c, "Failed to deposit", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Deposit successful", view)
	}
}

// Withdraw handles POST /accounts/:id/withdraw.
func Withdraw(svc *ledger.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := ownerID(c)
		if err != nil {
			return err
		}
		id, err := accountID(c)
		if err != nil {
			return err
		}
		input, err := BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		view, err := svc.Withdraw(c.Context(), id, owner, input.Amount)
		if err != nil {
			logger.Error("withdraw failed", "account_id", id, "error", err)
			return DomainProblemJSON(c, "Failed to withdraw", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Withdrawal successful", view)
	}
}

// GetTransactions handles GET /accounts/:id/transactions.
func GetTransactions(svc *ledger.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := ownerID(c)
		if err != nil {
			return err
		}
		id, err := accountID(c)
		if err != nil {
			return err
		}
		txs, err := svc.GetTransactions(c.Context(), id, owner)
		if err != nil {
			return DomainProblemJSON(c, "Failed to list transactions", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", txs)
	}
}
