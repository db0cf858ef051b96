package session

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// CookieCarrier держит токен в httponly cookie с SameSite=Strict.
type CookieCarrier struct {
	r      *http.Request
	w      http.ResponseWriter
	name   string
	secure bool
}

func NewCookieCarrier(w http.ResponseWriter, r *http.Request, name string, secure bool) *CookieCarrier {
	return &CookieCarrier{r: r, w: w, name: name, secure: secure}
}

func (c *CookieCarrier) Token(_ context.Context) (string, error) {
	cookie, err := c.r.Cookie(c.name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func (c *CookieCarrier) SetToken(_ context.Context, token string, expiresAt time.Time) error {
	http.SetCookie(c.w, c.cookie(token, expiresAt))
	return nil
}

func (c *CookieCarrier) ClearToken(_ context.Context) error {
	cookie := c.cookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	http.SetCookie(c.w, cookie)
	return nil
}

func (c *CookieCarrier) cookie(value string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// PeerFromRequest берет адрес соединения. За доверенным прокси его уже
// переписал chi RealIP, заголовки клиента здесь не читаются.
func PeerFromRequest(r *http.Request) Peer {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return Peer{UserAgent: r.UserAgent(), IPAddr: ip}
}
