// Package model описывает данные вышестоящих сервисов aggy и epigram.
//
// Теги minLength/maxLength/pattern/format читает реестр схем: один и тот же
// тип служит и статическим типом, и источником схемы для проверки тел
// запросов и ответов.
package model

import "time"

// Session - веб-сессия, выданная сервисом aggy. Пока сессия не загружена
// целиком, у вызывающего кода есть только ее идентификатор.
type Session struct {
	_              struct{}   `json:"-" additionalProperties:"true"`
	ID             string     `json:"id" format:"uuid"`
	IPAddr         string     `json:"ipAddr"`
	UserAgent      string     `json:"userAgent"`
	ExpiresAt      time.Time  `json:"expiresAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	UserID         *string    `json:"userId,omitempty" format:"uuid"`
	Token          *string    `json:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`
}

// AuthToken возвращает токен пользователя, если сессия аутентифицирована.
func (s Session) AuthToken() (string, bool) {
	if s.Token == nil || *s.Token == "" {
		return "", false
	}
	return *s.Token, true
}

type User struct {
	_         struct{}  `json:"-" additionalProperties:"true"`
	ID        string    `json:"id" format:"uuid"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Username  string    `json:"username"`
	Email     *string   `json:"email,omitempty"`
	PicURL    *string   `json:"picUrl,omitempty"`
	PubKey    string    `json:"pubKey"`
}

// Post оборачивает ровно одну корневую граму (epigram).
type Post struct {
	_              struct{}  `json:"-" additionalProperties:"true"`
	ID             string    `json:"id" format:"uuid"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	EpigramID      string    `json:"epigramId"`
	Title          string    `json:"title"`
	URL            *string   `json:"url,omitempty"`
	Body           *string   `json:"body,omitempty"`
	AuthorUsername string    `json:"authorUsername"`
	AuthorPicURL   *string   `json:"authorPicUrl,omitempty"`
	AuthorPubKey   string    `json:"authorPubKey"`
	Epigram        *Gram     `json:"epigram,omitempty"`
}

// Gram - узел дерева комментариев. Родитель владеет ответами, обратных
// ссылок нет: обход всегда идет от корня.
type Gram struct {
	_            struct{}        `json:"-" additionalProperties:"true"`
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"createdAt"`
	Content      string          `json:"content"`
	Coty         string          `json:"coty"`
	ParentID     *string         `json:"parentId,omitempty"`
	AuthorPubkey string          `json:"authorPubkey"`
	AuthorAlias  *string         `json:"authorAlias,omitempty"`
	Sig          string          `json:"sig"`
	Replies      []Gram          `json:"replies,omitempty"`
	ReplyCount   *int            `json:"replyCount,omitempty"`
	TopFaces     map[string]Face `json:"topFaces,omitempty"`
}

// IsRoot сообщает, что грама открывает тред поста.
func (g Gram) IsRoot() bool {
	return g.ParentID == nil || *g.ParentID == ""
}

// Walk обходит дерево в глубину, начиная с самой грамы. Обход
// прекращается, если fn вернул false.
func (g Gram) Walk(fn func(g Gram, depth int) bool) {
	g.walk(fn, 0)
}

func (g Gram) walk(fn func(g Gram, depth int) bool, depth int) bool {
	if !fn(g, depth) {
		return false
	}
	for _, r := range g.Replies {
		if !r.walk(fn, depth+1) {
			return false
		}
	}
	return true
}

const (
	ActionFace   = "face"
	ActionUnface = "unface"
)

// FaceAction возвращает действие, которое предложить зрителю для реакции:
// если он уже реагировал, то снять ее.
func (g Gram) FaceAction(glyph string) string {
	if f, ok := g.TopFaces[glyph]; ok && f.Faced() {
		return ActionUnface
	}
	return ActionFace
}

// Face - сводка по одной реакции. UserFacedAt есть только если текущий
// зритель уже поставил эту реакцию.
type Face struct {
	_           struct{}   `json:"-" additionalProperties:"true"`
	Count       int        `json:"count" minimum:"0"`
	UserFacedAt *time.Time `json:"userFacedAt,omitempty"`
}

func (f Face) Faced() bool {
	return f.UserFacedAt != nil
}
