package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"priority-tasks.com/priority-tasks/internal/services"
)

const (
	viewCookieName = "view_id"
	viewContextKey = "view_id"
)

// openView resolves the view of the current browser session, opening a new
// one when the cookie is missing or names a view that no longer exists.
func (h *Handler) openView(c echo.Context) *services.TaskStore {
	if id, ok := c.Get(viewContextKey).(string); ok {
		store, _ := h.views.Open(id)
		return store
	}

	var requested string
	if cookie, err := c.Cookie(viewCookieName); err == nil {
		requested = cookie.Value
	}

	store, id := h.views.Open(requested)
	if id != requested {
		c.SetCookie(&http.Cookie{
			Name:     viewCookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	c.Set(viewContextKey, id)

	return store
}

func viewID(c echo.Context) string {
	id, _ := c.Get(viewContextKey).(string)
	return id
}
