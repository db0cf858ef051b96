package schema

import (
	"net/http"
	"reflect"
	"slices"

	"aggyweb/internal/model"
)

type Service string

const (
	ServiceAggy    Service = "aggy"
	ServiceEpigram Service = "epigram"
)

// Auth - чей токен уходит в заголовке Authorization.
type Auth int

const (
	AuthNone Auth = iota
	// AuthService - статический секрет слоя представления.
	AuthService
	// AuthUser - токен пользователя из сессии.
	AuthUser
)

// EndpointID - стабильное имя операции, им же помечаются метрики и логи.
type EndpointID string

const (
	Register      EndpointID = "register"
	Authenticate  EndpointID = "authenticate"
	CreateSession EndpointID = "createSession"
	GetSession    EndpointID = "getSession"
	UpdateSession EndpointID = "updateSession"
	ListPosts     EndpointID = "listPosts"
	GetPost       EndpointID = "getPost"
	CreatePost    EndpointID = "createPost"
	Reply         EndpointID = "reply"
	GetUser       EndpointID = "getUser"
	UpdateUser    EndpointID = "updateUser"
	ListUsers     EndpointID = "listUsers"
	GetGram       EndpointID = "getGram"
	CreateGram    EndpointID = "createGram"
)

// IDFormat ограничивает идентификатор, подставляемый в путь.
type IDFormat int

const (
	IDNone IDFormat = iota
	IDAny
	IDUUID
)

// Endpoint - декларация одной операции вышестоящего сервиса. Body, Query и
// Response - Go-типы из пакета model, схемы для них строит Registry.
type Endpoint struct {
	ID       EndpointID
	Service  Service
	Method   string
	Path     string
	PathID   IDFormat
	Auth     Auth
	Body     reflect.Type
	Query    reflect.Type
	Response reflect.Type
	Errors   []ErrorCode
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

var endpoints = []Endpoint{
	{
		ID:       Register,
		Service:  ServiceAggy,
		Method:   http.MethodPost,
		Path:     "/users",
		Auth:     AuthNone,
		Body:     typeOf[model.CreateUserBody](),
		Response: typeOf[model.User](),
		Errors:   []ErrorCode{CodeUsernameOccupied, CodeEmailOccupied, CodeInvalidInput, CodeInternal},
	},
	{
		ID:       Authenticate,
		Service:  ServiceAggy,
		Method:   http.MethodPost,
		Path:     "/authenticate",
		Auth:     AuthNone,
		Body:     typeOf[model.AuthenticateBody](),
		Response: typeOf[model.AuthResult](),
		Errors:   []ErrorCode{CodeCredentialsRejected, CodeInternal},
	},
	{
		ID:       CreateSession,
		Service:  ServiceAggy,
		Method:   http.MethodPost,
		Path:     "/web/sessions",
		Auth:     AuthService,
		Body:     typeOf[model.CreateSessionBody](),
		Response: typeOf[model.Session](),
		Errors:   []ErrorCode{CodeAccessDenied, CodeAuthSessionNotFound, CodeInternal},
	},
	{
		ID:       GetSession,
		Service:  ServiceAggy,
		Method:   http.MethodGet,
		Path:     "/web/sessions/{id}",
		PathID:   IDUUID,
		Auth:     AuthService,
		Response: typeOf[model.Session](),
		Errors:   []ErrorCode{CodeAccessDenied, CodeNotFound, CodeInternal},
	},
	{
		ID:       UpdateSession,
		Service:  ServiceAggy,
		Method:   http.MethodPatch,
		Path:     "/web/sessions/{id}",
		PathID:   IDUUID,
		Auth:     AuthService,
		Body:     typeOf[model.UpdateSessionBody](),
		Response: typeOf[model.Session](),
		Errors:   []ErrorCode{CodeAccessDenied, CodeNotFound, CodeAuthSessionNotFound, CodeInternal},
	},
	{
		ID:       ListPosts,
		Service:  ServiceAggy,
		Method:   http.MethodGet,
		Path:     "/posts",
		Auth:     AuthService,
		Query:    typeOf[model.ListPostsQuery](),
		Response: typeOf[model.ListPostsResponse](),
		Errors:   []ErrorCode{CodeInvalidInput, CodeInternal},
	},
	{
		ID:       GetPost,
		Service:  ServiceAggy,
		Method:   http.MethodGet,
		Path:     "/posts/{id}",
		PathID:   IDUUID,
		Auth:     AuthService,
		Query:    typeOf[model.RepliesQuery](),
		Response: typeOf[model.Post](),
		Errors:   []ErrorCode{CodeNotFound, CodeInternal},
	},
	{
		ID:       CreatePost,
		Service:  ServiceAggy,
		Method:   http.MethodPost,
		Path:     "/posts",
		Auth:     AuthUser,
		Body:     typeOf[model.CreatePostBody](),
		Response: typeOf[model.Post](),
		Errors:   []ErrorCode{CodeAccessDenied, CodeInvalidInput, CodeInternal},
	},
	{
		ID:       Reply,
		Service:  ServiceAggy,
		Method:   http.MethodPost,
		Path:     "/grams/{id}/replies",
		PathID:   IDAny,
		Auth:     AuthUser,
		Body:     typeOf[model.ReplyBody](),
		Response: typeOf[model.Gram](),
		Errors:   []ErrorCode{CodeNotFound, CodeAccessDenied, CodeInvalidInput, CodeInternal},
	},
	{
		ID:       GetUser,
		Service:  ServiceAggy,
		Method:   http.MethodGet,
		Path:     "/users/{id}",
		PathID:   IDUUID,
		Auth:     AuthService,
		Response: typeOf[model.User](),
		Errors:   []ErrorCode{CodeNotFound, CodeAccessDenied, CodeInternal},
	},
	{
		ID:       UpdateUser,
		Service:  ServiceAggy,
		Method:   http.MethodPatch,
		Path:     "/users/{id}",
		PathID:   IDUUID,
		Auth:     AuthUser,
		Body:     typeOf[model.UpdateUserBody](),
		Response: typeOf[model.User](),
		Errors: []ErrorCode{
			CodeNotFound, CodeAccessDenied, CodeUsernameOccupied,
			CodeEmailOccupied, CodeInvalidInput, CodeInternal,
		},
	},
	{
		ID:       ListUsers,
		Service:  ServiceAggy,
		Method:   http.MethodGet,
		Path:     "/users",
		Auth:     AuthService,
		Query:    typeOf[model.ListUsersQuery](),
		Response: typeOf[model.ListUsersResponse](),
		Errors:   []ErrorCode{CodeAccessDenied, CodeInvalidInput, CodeInternal},
	},
	{
		ID:       GetGram,
		Service:  ServiceEpigram,
		Method:   http.MethodGet,
		Path:     "/grams/{id}",
		PathID:   IDAny,
		Auth:     AuthService,
		Query:    typeOf[model.RepliesQuery](),
		Response: typeOf[model.Gram](),
		Errors:   []ErrorCode{CodeNotFound, CodeInternal},
	},
	{
		ID:       CreateGram,
		Service:  ServiceEpigram,
		Method:   http.MethodPost,
		Path:     "/grams",
		Auth:     AuthService,
		Body:     typeOf[model.CreateGramBody](),
		Response: typeOf[model.Gram](),
		Errors:   []ErrorCode{CodeParentNotFound, CodeInvalidInput, CodeInternal},
	},
}

// Allows сообщает, входит ли код в закрытый набор ошибок операции.
func (e Endpoint) Allows(code ErrorCode) bool {
	return slices.Contains(e.Errors, code)
}
