package session

import "aggyweb/internal/model"

// Phase - насколько сессия текущего запроса уже известна.
type Phase int

const (
	// Unresolved - токен еще не читали.
	Unresolved Phase = iota
	// IDOnly - токен проверен, известен только идентификатор.
	IDOnly
	// Full - запись сессии получена целиком, больше обращений к aggy в
	// рамках запроса не будет.
	Full
)

func (p Phase) String() string {
	switch p {
	case IDOnly:
		return "id_only"
	case Full:
		return "full"
	default:
		return "unresolved"
	}
}

// cache - неизменяемое значение, каждый переход возвращает новое.
type cache struct {
	phase   Phase
	id      string
	session model.Session
}

func (c cache) withID(id string) cache {
	return cache{phase: IDOnly, id: id}
}

func (c cache) withSession(s model.Session) cache {
	return cache{phase: Full, id: s.ID, session: s}
}

func (c cache) reset() cache {
	return cache{}
}

// full возвращает копию записи, если она уже загружена.
func (c cache) full() (*model.Session, bool) {
	if c.phase != Full {
		return nil, false
	}
	s := c.session
	return &s, true
}
