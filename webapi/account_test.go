package webapi_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sgbank/account-ledger/infra/eventbus"
	"github.com/sgbank/account-ledger/infra/repository/memory"
	"github.com/sgbank/account-ledger/pkg/service/ledger"
	"github.com/sgbank/account-ledger/webapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := ledger.New(memory.New(), eventbus.NewMemoryPublisher(), slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	return webapi.NewApp(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func doRequest(t *testing.T, app *fiber.App, method, path, owner, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if owner != "" {
		req.Header.Set(webapi.HeaderOwnerID, owner)
	}
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

func createAccount(t *testing.T, app *fiber.App, owner string) string {
	t.Helper()
	resp := doRequest(t, app, fiber.MethodPost, "/accounts", owner, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := decodeData(t, resp)
	id, ok := data["account_id"].(string)
	require.True(t, ok)
	return id
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp := doRequest(t, app, fiber.MethodGet, "/health", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreateAccount(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.NewString()

	resp := doRequest(t, app, fiber.MethodPost, "/accounts", owner, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := decodeData(t, resp)
	assert.NotEmpty(t, data["account_id"])
}

func TestCreateAccountRequiresOwnerHeader(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, fiber.MethodPost, "/accounts", "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, fiber.MethodPost, "/accounts", "not-a-uuid", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDepositAndBalance(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.NewString()
	id := createAccount(t, app, owner)

	resp := doRequest(t, app, fiber.MethodPost, "/accounts/"+id+"/deposit", owner, `{"amount":"150.25"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	assert.Equal(t, "150.25", data["balance"])

	resp = doRequest(t, app, fiber.MethodGet, "/accounts/"+id+"/balance", owner, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = decodeData(t, resp)
	assert.Equal(t, "150.25", data["balance"])
}

func TestDepositInvalidAmount(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.NewString()
	id := createAccount(t, app, owner)

	for _, body := range []string{
		`{"amount":"-5"}`,
		`{"amount":"0.00001"}`,
		`{"amount":"oops"}`,
		`{}`,
	} {
		resp := doRequest(t, app, fiber.MethodPost, "/accounts/"+id+"/deposit", owner, body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "body %s", body)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.NewString()
	id := createAccount(t, app, owner)

	resp := doRequest(t, app, fiber.MethodPost, "/accounts/"+id+"/deposit", owner, `{"amount":"100"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, fiber.MethodPost, "/accounts/"+id+"/withdraw", owner, `{"amount":"100.01"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = doRequest(t, app, fiber.MethodPost, "/accounts/"+id+"/withdraw", owner, `{"amount":"40.25"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	assert.Equal(t, "59.75", data["balance"])
}

func TestCrossOwnerAccessIsNotFound(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.NewString()
	id := createAccount(t, app, owner)

	other := uuid.NewString()
	resp := doRequest(t, app, fiber.MethodGet, "/accounts/"+id+"/balance", other, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, fiber.MethodPost, "/accounts/"+id+"/deposit", other, `{"amount":"10"}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetTransactions(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.NewString()
	id := createAccount(t, app, owner)

	for _, body := range []string{`{"amount":"10"}`, `{"amount":"20"}`} {
		resp := doRequest(t, app, fiber.MethodPost, "/accounts/"+id+"/deposit", owner, body)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp := doRequest(t, app, fiber.MethodPost, "/accounts/"+id+"/withdraw", owner, `{"amount":"5"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, fiber.MethodGet, "/accounts/"+id+"/transactions", owner, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	defer resp.Body.Close() //nolint:errcheck

	var envelope struct {
		Data []struct {
			Type         string          `json:"type"`
			Amount       decimal.Decimal `json:"amount"`
			BalanceAfter decimal.Decimal `json:"balance_after"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 3)
	assert.Equal(t, "Deposit", envelope.Data[0].Type)
	assert.Equal(t, "Withdrawal", envelope.Data[2].Type)
	assert.True(t, envelope.Data[2].BalanceAfter.Equal(decimal.RequireFromString("25")))
}
