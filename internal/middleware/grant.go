package middleware

import (
	"net/http"
	"time"
)

const editCookiePrefix = "edit_grant_"

// SetEditCookie кладёт edit-грант в cookie, привязанную к токену метки.
// Cookie — только транспорт: сам грант проверяет сервисный слой.
func SetEditCookie(w http.ResponseWriter, tagToken, grant string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     editCookiePrefix + tagToken,
		Value:    grant,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetEditGrant достаёт edit-грант для токена метки из cookie запроса.
// Пустая строка — гранта нет.
func GetEditGrant(r *http.Request, tagToken string) string {
	c, err := r.Cookie(editCookiePrefix + tagToken)
	if err != nil {
		return ""
	}
	return c.Value
}
