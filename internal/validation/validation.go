// Package validation はリクエストペイロードのスキーマ検証を行います。
// 検証エラーはフィールド単位のレポートとして返され、永続化層に到達する前に処理を打ち切ります。
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"task-manager/internal/models"
)

// Report はフィールド単位のバリデーションエラーです。
type Report struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func newReport() *Report {
	return &Report{FormErrors: []string{}, FieldErrors: map[string][]string{}}
}

func (r *Report) Error() string {
	parts := append([]string{}, r.FormErrors...)
	fields := make([]string, 0, len(r.FieldErrors))
	for f := range r.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(r.FieldErrors[f], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (r *Report) addForm(msg string) {
	r.FormErrors = append(r.FormErrors, msg)
}

func (r *Report) addField(field, msg string) {
	r.FieldErrors[field] = append(r.FieldErrors[field], msg)
}

// result は空のレポートを nil error に変換します。
func (r *Report) result() error {
	if len(r.FormErrors) == 0 && len(r.FieldErrors) == 0 {
		return nil
	}
	return r
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// エラーのフィールド名を JSON 名に揃える
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// collect は validator のエラーをレポートに積みます。field が空なら FieldError の名前を使います。
func (r *Report) collect(err error, field string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		r.addForm(err.Error())
		return
	}
	for _, fe := range verrs {
		name := field
		if name == "" {
			name = fe.Field()
		}
		r.addField(name, message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Param() == "1" {
			return "must not be empty"
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}

// UserCreate はユーザー作成スキーマを検証します。
func UserCreate(req *models.UserCreateRequest) error {
	r := newReport()
	if err := validate.Struct(req); err != nil {
		r.collect(err, "")
	}
	return r.result()
}

// UserUpdate はユーザー更新スキーマを検証します。email か name のどちらかが必要です。
func UserUpdate(req *models.UserUpdateRequest) error {
	r := newReport()
	if req.Email == nil && req.Name == nil {
		r.addForm("send email or name")
		return r
	}
	if req.Email != nil {
		if err := validate.Var(*req.Email, "email"); err != nil {
			r.collect(err, "email")
		}
	}
	if req.Name != nil {
		if err := validate.Var(*req.Name, "min=1"); err != nil {
			r.collect(err, "name")
		}
	}
	return r.result()
}

// TaskCreate はタスク作成スキーマを検証します。userId は正の整数に変換できる必要があります。
func TaskCreate(req *models.TaskCreateRequest) error {
	r := newReport()
	if err := validate.Struct(req); err != nil {
		r.collect(err, "")
	}

	uid := req.UserID
	switch {
	case !uid.Present:
		r.addField("userId", "is required")
	case !uid.Numeric:
		r.addField("userId", "must be a number")
	case !uid.IsInteger():
		r.addField("userId", "must be an integer")
	case uid.Value <= 0 || uid.Value > math.MaxInt32:
		r.addField("userId", "must be a positive integer")
	}
	return r.result()
}

// TaskUpdate はタスク更新スキーマを検証します。少なくとも1つのフィールドが必要です。
func TaskUpdate(req *models.TaskUpdateRequest) error {
	r := newReport()
	if req.Title == nil && req.Description == nil && req.IsDone == nil {
		r.addForm("send at least one field")
		return r
	}
	if req.Title != nil {
		if err := validate.Var(*req.Title, "min=1"); err != nil {
			r.collect(err, "title")
		}
	}
	return r.result()
}

// FromDecodeError は JSON デコード時のエラーをレポートに変換します。
func FromDecodeError(err error) *Report {
	r := newReport()

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			r.addForm("request body must be a JSON object")
		} else {
			r.addField(typeErr.Field, fmt.Sprintf("expected %s, received %s", kindName(typeErr.Type), typeErr.Value))
		}
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		r.addForm("request body must be valid JSON")
	default:
		r.addForm(err.Error())
	}
	return r
}

func kindName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return t.Kind().String()
	}
}
