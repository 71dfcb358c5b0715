package handlers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "vl_token" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestRegisterLoginMe(t *testing.T) {
	ta := newTestApp(t, false)

	resp, body := ta.do(t, "POST", "/auth/register", fiber.Map{
		"name":     "Asha",
		"email":    "Asha@Example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "asha@example.com", data["email"]) // normalized
	cookie := sessionCookie(t, resp)
	assert.True(t, cookie.HttpOnly)

	resp, body = ta.do(t, "GET", "/auth/me", nil, func(r *http.Request) {
		r.AddCookie(cookie)
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := body["data"].(map[string]interface{})
	assert.Equal(t, "Asha", me["name"])

	// fresh login with the same credentials
	resp, _ = ta.do(t, "POST", "/auth/login", fiber.Map{
		"email":    "asha@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ta.do(t, "POST", "/auth/login", fiber.Map{
		"email":    "asha@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegister_Validation(t *testing.T) {
	ta := newTestApp(t, false)

	resp, body := ta.do(t, "POST", "/auth/register", fiber.Map{
		"name":     "",
		"email":    "not-an-email",
		"password": "123",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ta := newTestApp(t, false)

	reg := fiber.Map{"name": "Asha", "email": "asha@example.com", "password": "secret123"}
	resp, _ := ta.do(t, "POST", "/auth/register", reg)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := ta.do(t, "POST", "/auth/register", reg)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
}

func TestAuthMe_RequiresSession(t *testing.T) {
	ta := newTestApp(t, false)

	resp, _ := ta.do(t, "GET", "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ta.do(t, "GET", "/users/me/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// A logged-in buyer's orders and publications land in their account; a
// guest checkout stays unowned.
func TestOwnerScopedListings(t *testing.T) {
	ta := newTestApp(t, true)

	resp, _ := ta.do(t, "POST", "/auth/register", fiber.Map{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := sessionCookie(t, resp)
	withSession := func(r *http.Request) { r.AddCookie(cookie) }

	// one order as the logged-in user, one as a guest
	_, body := ta.do(t, "POST", "/orders", fiber.Map{"theme": "cosmic"}, withSession)
	mine := body["order_id"].(string)
	_, _ = ta.do(t, "POST", "/orders", fiber.Map{"theme": "cosmic"})

	_, _ = ta.do(t, "POST", "/orders/"+mine+"/attest-payment", fiber.Map{
		"transaction_id": "TXN123456",
	}, withSession)

	resp, body = ta.do(t, "GET", "/users/me/orders", nil, withSession)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orders := body["data"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, mine, orders[0].(map[string]interface{})["order_id"])

	resp, body = ta.do(t, "GET", "/users/me/publications", nil, withSession)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pubs := body["data"].([]interface{})
	require.Len(t, pubs, 1)
}
