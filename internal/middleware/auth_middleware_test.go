package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"go-itstock/internal/model"
	"go-itstock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	user *model.User
}

func (s stubAuth) Authenticate(token string) (*model.User, error) {
	if token != "good" {
		return nil, errors.Join(service.ErrAuthenticationRequired, service.ErrSessionReplaced)
	}
	return s.user, nil
}

func newApp(t *testing.T, handlers ...fiber.Handler) *fiber.App {
	t.Helper()
	user := &model.User{
		Username: "operator",
		FullName: "Ops",
		Role: &model.Role{Code: model.RoleUser, Privileges: []model.Privilege{
			{Code: model.PrivProductView},
		}},
	}
	user.ID = uuid.New()

	app := fiber.New()
	chain := append([]fiber.Handler{RequireAuth(stubAuth{user: user})}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"username": c.Locals("username"), "role": c.Locals("role_code")})
	})
	app.Get("/", chain...)
	return app
}

func get(t *testing.T, app *fiber.App, authorization string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireAuth(t *testing.T) {
	app := newApp(t)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "Token good"))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "Bearer stale"))
	assert.Equal(t, fiber.StatusOK, get(t, app, "Bearer good"))
}

func TestRequirePrivilege(t *testing.T) {
	allowed := newApp(t, RequirePrivilege(model.PrivProductView))
	assert.Equal(t, fiber.StatusOK, get(t, allowed, "Bearer good"))

	denied := newApp(t, RequirePrivilege(model.PrivProductDelete))
	assert.Equal(t, fiber.StatusForbidden, get(t, denied, "Bearer good"))

	either := newApp(t, RequireAnyPrivilege(model.PrivUserView, model.PrivProductView))
	assert.Equal(t, fiber.StatusOK, get(t, either, "Bearer good"))
}
