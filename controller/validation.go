package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 100 << 10

const notObjectMessage = `"value" must be of type object`

var (
	errMalformedBody = errors.New("malformed JSON body")
	errBodyTooLarge  = errors.New("request body too large")
)

var validate = newValidator()

// uriPattern accepts a scheme followed by RFC 3986 characters or
// percent-encoded octets.
var uriPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:(?:[A-Za-z0-9\-._~!$&'()*+,;=:@/?#\[\]]|%[0-9A-Fa-f]{2})*$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	if err := v.RegisterValidation("uri3986", isURI); err != nil {
		panic(err)
	}
	return v
}

func isURI(fl validator.FieldLevel) bool {
	return uriPattern.MatchString(fl.Field().String())
}

// SignUpRequest is the body of POST /sign-up.
type SignUpRequest struct {
	Username *string `json:"username" validate:"required,min=1"`
	Avatar   *string `json:"avatar" validate:"required,min=1,uri3986"`
}

// CreateTweetRequest is the body of POST /tweets.
type CreateTweetRequest struct {
	Username *string `json:"username" validate:"required,min=1"`
	Tweet    *string `json:"tweet" validate:"required,min=1"`
}

// UpdateTweetRequest is the body of PUT /tweets/{id}.
type UpdateTweetRequest struct {
	Tweet *string `json:"tweet" validate:"required,min=1"`
}

// bind decodes the body into dst and checks it against dst's validate tags.
// Violations come back as messages in field order, followed by any keys dst
// does not declare. The error is set only when the body is not JSON at all.
func bind(r *http.Request, dst any) ([]string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	if bytes.Equal(body, []byte("null")) {
		return []string{notObjectMessage}, nil
	}

	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return []string{typeMessage(typeErr)}, nil
		}
		return nil, errMalformedBody
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, errMalformedBody
	}

	byField := make(map[string]string)
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		for _, fe := range verrs {
			byField[fe.Field()] = fieldMessage(fe)
		}
	}
	// An explicit null decodes like a missing key but is a type error.
	for k, raw := range keys {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			if _, ok := byField[k]; ok {
				byField[k] = fmt.Sprintf("%q must be a string", k)
			}
		}
	}

	var msgs []string
	for _, name := range fieldNames(dst) {
		if msg, ok := byField[name]; ok {
			msgs = append(msgs, msg)
		}
	}
	for _, k := range unknownKeys(keys, dst) {
		msgs = append(msgs, fmt.Sprintf("%q is not allowed", k))
	}
	return msgs, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "min":
		return fmt.Sprintf("%q is not allowed to be empty", fe.Field())
	case "uri3986":
		return fmt.Sprintf("%q must be a valid uri", fe.Field())
	default:
		return fmt.Sprintf("%q failed on %s", fe.Field(), fe.Tag())
	}
}

func typeMessage(err *json.UnmarshalTypeError) string {
	if err.Field == "" {
		return notObjectMessage
	}
	want := "a string"
	if err.Type != nil && err.Type.Kind() != reflect.String && err.Type.Kind() != reflect.Ptr {
		want = "of type " + err.Type.Kind().String()
	}
	return fmt.Sprintf("%q must be %s", err.Field, want)
}

// fieldNames lists dst's JSON keys in declaration order.
func fieldNames(dst any) []string {
	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		names = append(names, jsonName(t.Field(i)))
	}
	return names
}

func unknownKeys(keys map[string]json.RawMessage, dst any) []string {
	known := make(map[string]struct{})
	for _, name := range fieldNames(dst) {
		known[name] = struct{}{}
	}

	var out []string
	for k := range keys {
		if _, ok := known[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
