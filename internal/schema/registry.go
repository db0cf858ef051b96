// Package schema - реестр схем вышестоящих сервисов aggy и epigram.
//
// Каждая операция объявлена один раз (см. endpoints.go): метод, шаблон пути,
// Go-типы тела, query и ответа, закрытый набор вариантов ошибок. Реестр при
// создании компилирует Go-типы в JSON Schema через huma, поэтому статический
// тип и проверка во время выполнения не расходятся.
package schema

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

type compiled struct {
	Endpoint
	body     *huma.Schema
	query    *huma.Schema
	response *huma.Schema
}

type variantSchema struct {
	typ    reflect.Type
	schema *huma.Schema
}

// Registry неизменяем после New и безопасен для конкурентного использования.
type Registry struct {
	reg       huma.Registry
	endpoints map[EndpointID]*compiled
	variants  map[ErrorCode]variantSchema
}

var variantTypes = map[ErrorCode]reflect.Type{
	CodeNotFound:            typeOf[NotFound](),
	CodeAccessDenied:        typeOf[AccessDenied](),
	CodeUsernameOccupied:    typeOf[UsernameOccupied](),
	CodeEmailOccupied:       typeOf[EmailOccupied](),
	CodeCredentialsRejected: typeOf[CredentialsRejected](),
	CodeInvalidInput:        typeOf[InvalidInput](),
	CodeInternal:            typeOf[Internal](),
	CodeAuthSessionNotFound: typeOf[AuthSessionNotFound](),
	CodeParentNotFound:      typeOf[ParentNotFound](),
}

// New компилирует все объявленные операции.
func New() *Registry {
	r := &Registry{
		reg:       huma.NewMapRegistry("#/components/schemas/", huma.DefaultSchemaNamer),
		endpoints: make(map[EndpointID]*compiled, len(endpoints)),
		variants:  make(map[ErrorCode]variantSchema, len(variantTypes)),
	}

	for _, ep := range endpoints {
		c := &compiled{Endpoint: ep}
		if ep.Body != nil {
			c.body = r.reg.Schema(ep.Body, false, string(ep.ID)+"Body")
		}
		if ep.Query != nil {
			c.query = r.reg.Schema(ep.Query, false, string(ep.ID)+"Query")
		}
		if ep.Response != nil {
			c.response = r.reg.Schema(ep.Response, false, string(ep.ID)+"Response")
		}
		r.endpoints[ep.ID] = c
	}

	for code, t := range variantTypes {
		r.variants[code] = variantSchema{typ: t, schema: r.reg.Schema(t, false, string(code))}
	}

	return r
}

// Endpoint возвращает декларацию операции.
func (r *Registry) Endpoint(id EndpointID) (Endpoint, bool) {
	c, ok := r.endpoints[id]
	if !ok {
		return Endpoint{}, false
	}
	return c.Endpoint, true
}

func (r *Registry) mustGet(id EndpointID) *compiled {
	c, ok := r.endpoints[id]
	if !ok {
		panic(fmt.Sprintf("schema: unknown endpoint %q", id))
	}
	return c
}

// Path подставляет идентификатор в шаблон пути операции.
func (r *Registry) Path(id EndpointID, pathID string) (string, error) {
	c := r.mustGet(id)

	switch c.PathID {
	case IDNone:
		return c.Path, nil
	case IDUUID:
		if _, err := uuid.Parse(pathID); err != nil {
			return "", &ValidationError{Endpoint: id, Issues: []Issue{{Field: "id", Message: "expected string to be RFC 4122 uuid"}}}
		}
	case IDAny:
		if pathID == "" {
			return "", &ValidationError{Endpoint: id, Issues: []Issue{{Field: "id", Message: "expected non-empty id"}}}
		}
	}

	return strings.Replace(c.Path, "{id}", url.PathEscape(pathID), 1), nil
}

// EncodeBody проверяет исходящее тело и возвращает его JSON для отправки.
func (r *Registry) EncodeBody(id EndpointID, v any) ([]byte, error) {
	c := r.mustGet(id)
	if c.body == nil {
		return nil, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal body: %w", id, err)
	}

	generic, err := toGeneric(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal body: %w", id, err)
	}

	if issues := r.validate(c.body, huma.ModeWriteToServer, generic); len(issues) > 0 {
		return nil, &ValidationError{Endpoint: id, Issues: issues}
	}

	return raw, nil
}

// EncodeQuery проверяет параметры запроса и кодирует их в строку query.
func (r *Registry) EncodeQuery(id EndpointID, v any) (url.Values, error) {
	c := r.mustGet(id)
	if c.query == nil || v == nil {
		return nil, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal query: %w", id, err)
	}

	generic, err := toGeneric(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal query: %w", id, err)
	}

	if issues := r.validate(c.query, huma.ModeWriteToServer, generic); len(issues) > 0 {
		return nil, &ValidationError{Endpoint: id, Issues: issues}
	}

	fields, _ := generic.(map[string]any)
	values := make(url.Values, len(fields))
	for k, val := range fields {
		values.Set(k, queryValue(val))
	}

	return values, nil
}

// DecodeResponse проверяет тело успешного ответа и раскладывает его в out.
// Несовпадение со схемой возвращается как *ContractError.
func (r *Registry) DecodeResponse(id EndpointID, status int, raw []byte, out any) error {
	c := r.mustGet(id)

	generic, err := toGeneric(raw)
	if err != nil {
		return &ContractError{Endpoint: id, Status: status, Reason: "body is not JSON: " + err.Error()}
	}

	if c.response != nil {
		if issues := r.validate(c.response, huma.ModeReadFromServer, generic); len(issues) > 0 {
			return &ContractError{Endpoint: id, Status: status, Reason: "response does not match schema", Issues: issues}
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &ContractError{Endpoint: id, Status: status, Reason: err.Error()}
	}

	return nil
}

// DecodeError разбирает JSON-тело ошибки. Код возвращается всегда, когда он
// есть в теле; *ContractError сообщает, что код не входит в набор операции
// или тело не совпало со схемой варианта.
func (r *Registry) DecodeError(id EndpointID, status int, raw []byte) (ErrorCode, Variant, error) {
	c := r.mustGet(id)

	if !gjson.ValidBytes(raw) {
		return "", nil, &ContractError{Endpoint: id, Status: status, Reason: "error body is not JSON"}
	}

	field := gjson.GetBytes(raw, "error")
	if field.Type != gjson.String {
		return "", nil, &ContractError{Endpoint: id, Status: status, Reason: "error body has no error discriminator"}
	}

	code := ErrorCode(field.String())
	if !c.Allows(code) {
		return code, nil, &ContractError{Endpoint: id, Status: status, Reason: fmt.Sprintf("unexpected error variant %q", code)}
	}

	vs, ok := r.variants[code]
	if !ok {
		return code, nil, &ContractError{Endpoint: id, Status: status, Reason: fmt.Sprintf("no schema for error variant %q", code)}
	}

	generic, _ := toGeneric(raw)
	if issues := r.validate(vs.schema, huma.ModeReadFromServer, generic); len(issues) > 0 {
		return code, nil, &ContractError{Endpoint: id, Status: status, Reason: fmt.Sprintf("error variant %q does not match schema", code), Issues: issues}
	}

	ptr := reflect.New(vs.typ)
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return code, nil, &ContractError{Endpoint: id, Status: status, Reason: err.Error()}
	}

	return code, ptr.Elem().Interface().(Variant), nil
}

func (r *Registry) validate(s *huma.Schema, mode huma.ValidateMode, v any) []Issue {
	pb := huma.NewPathBuffer([]byte(""), 0)
	res := &huma.ValidateResult{}
	huma.Validate(r.reg, s, pb, mode, v, res)

	if len(res.Errors) == 0 {
		return nil
	}

	issues := make([]Issue, 0, len(res.Errors))
	for _, e := range res.Errors {
		issues = append(issues, toIssue(e))
	}
	return issues
}

const requiredPrefix = "expected required property "

func toIssue(err error) Issue {
	d, ok := err.(*huma.ErrorDetail)
	if !ok {
		return Issue{Message: err.Error()}
	}

	field := strings.TrimPrefix(d.Location, ".")
	// Отсутствующее поле huma приписывает родителю, а форме нужно само поле.
	if rest, found := strings.CutPrefix(d.Message, requiredPrefix); found {
		name, _, _ := strings.Cut(rest, " ")
		if field == "" {
			field = name
		} else {
			field = field + "." + name
		}
	}

	return Issue{Field: field, Message: d.Message}
}

// toGeneric приводит JSON к map/slice и выбрасывает null-значения полей:
// сервисы присылают null там, где поле просто отсутствует.
func toGeneric(raw []byte) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return dropNulls(v), nil
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if val == nil {
				delete(t, k)
				continue
			}
			t[k] = dropNulls(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = dropNulls(val)
		}
		return t
	default:
		return v
	}
}

func queryValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
