package model

import "time"

const (
	MinLengthUsername = 5
	MaxLengthUsername = 32
	MinLengthPassword = 8
	MaxLengthPassword = 1024
	MaxLengthTitle    = 80
	MaxListLimit      = 100
)

type CreateUserBody struct {
	Username string  `json:"username" minLength:"5" maxLength:"32" pattern:"^[a-zA-Z0-9]+([_-]?[a-zA-Z0-9])*$"`
	Email    *string `json:"email,omitempty" format:"email"`
	Password string  `json:"password" minLength:"8" maxLength:"1024"`
}

type UpdateUserBody struct {
	Username *string `json:"username,omitempty" minLength:"5" maxLength:"32" pattern:"^[a-zA-Z0-9]+([_-]?[a-zA-Z0-9])*$"`
	Email    *string `json:"email,omitempty" format:"email"`
	PicURL   *string `json:"picUrl,omitempty" format:"uri"`
	Password *string `json:"password,omitempty" minLength:"8" maxLength:"1024"`
}

type AuthenticateBody struct {
	Identifier string `json:"identifier" minLength:"1"`
	Password   string `json:"password" minLength:"1"`
}

type AuthResult struct {
	_         struct{}  `json:"-" additionalProperties:"true"`
	SessionID string    `json:"sessionId" format:"uuid"`
	UserID    string    `json:"userId" format:"uuid"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type CreateSessionBody struct {
	IPAddr        string  `json:"ipAddr" minLength:"1"`
	AuthSessionID *string `json:"authSessionId,omitempty" format:"uuid"`
	UserAgent     string  `json:"userAgent"`
}

// UpdateSessionBody всегда отправляет authSessionId: null отвязывает
// пользователя от веб-сессии.
type UpdateSessionBody struct {
	AuthSessionID *string `json:"authSessionId" required:"false" format:"uuid"`
}

type SortingField string

const (
	SortByCreatedAt SortingField = "createdAt"
	SortByUpdatedAt SortingField = "updatedAt"
	SortByUsername  SortingField = "username"
	SortByEmail     SortingField = "email"
)

type SortingOrder string

const (
	Ascending  SortingOrder = "ascending"
	Descending SortingOrder = "descending"
)

type ListPostsQuery struct {
	AuthToken    *string       `json:"authToken,omitempty"`
	Limit        *int          `json:"limit,omitempty" minimum:"1" maximum:"100"`
	AfterCursor  *string       `json:"afterCursor,omitempty"`
	BeforeCursor *string       `json:"beforeCursor,omitempty"`
	Filter       *string       `json:"filter,omitempty"`
	SortingField *SortingField `json:"sortingField,omitempty" enum:"createdAt,updatedAt"`
	SortingOrder *SortingOrder `json:"sortingOrder,omitempty" enum:"ascending,descending"`
}

type ListPostsResponse struct {
	_      struct{} `json:"-" additionalProperties:"true"`
	Cursor *string  `json:"cursor,omitempty"`
	Items  []Post   `json:"items"`
}

type ListUsersQuery struct {
	Limit        *int          `json:"limit,omitempty" minimum:"1" maximum:"100"`
	AfterCursor  *string       `json:"afterCursor,omitempty"`
	BeforeCursor *string       `json:"beforeCursor,omitempty"`
	Filter       *string       `json:"filter,omitempty"`
	SortingField *SortingField `json:"sortingField,omitempty" enum:"username,email,createdAt,updatedAt"`
	SortingOrder *SortingOrder `json:"sortingOrder,omitempty" enum:"ascending,descending"`
}

type ListUsersResponse struct {
	_      struct{} `json:"-" additionalProperties:"true"`
	Cursor *string  `json:"cursor,omitempty"`
	Items  []User   `json:"items"`
}

type RepliesQuery struct {
	IncludeReplies bool `json:"includeReplies,omitempty"`
}

type CreatePostBody struct {
	Title string  `json:"title" minLength:"1" maxLength:"80"`
	URL   *string `json:"url,omitempty" format:"uri"`
	Body  *string `json:"body,omitempty" minLength:"1"`
}

type ReplyBody struct {
	Body string `json:"body" minLength:"1"`
}

// CreateGramBody - подписанная грама для сервиса epigram.
type CreateGramBody struct {
	ID           string    `json:"id" minLength:"1"`
	CreatedAt    time.Time `json:"createdAt"`
	Content      string    `json:"content" minLength:"1"`
	Coty         string    `json:"coty" minLength:"1"`
	ParentID     *string   `json:"parentId,omitempty"`
	AuthorPubkey string    `json:"authorPubkey" minLength:"1"`
	AuthorAlias  *string   `json:"authorAlias,omitempty"`
	Sig          string    `json:"sig" minLength:"1"`
}

// Optional превращает пустую строку из формы в отсутствующее значение.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
