package http

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorBody struct {
	Kind    domain.Kind         `json:"kind"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// statusMapper picks the HTTP status for an error kind.
type statusMapper func(domain.Kind) int

func defaultStatus(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// createBookingStatus reports every client-side booking failure as 400.
func createBookingStatus(kind domain.Kind) int {
	if kind == domain.KindServer {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// transitionStatus is used by pickup, return and cancel: a missing booking is
// 404 and any other client-side failure is 400.
func transitionStatus(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindServer:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorWith(w, r, err, defaultStatus)
}

func writeErrorWith(w http.ResponseWriter, r *http.Request, err error, statusFor statusMapper) {
	de, ok := domain.AsError(err)
	if !ok {
		de = domain.NewServerError("Internal server error", err)
	}

	status := statusFor(de.Kind)
	body := errorBody{Kind: de.Kind, Code: de.Code, Message: de.Message, Fields: de.Fields}
	if de.Kind == domain.KindServer {
		logger.FromContext(r.Context()).Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		body.Message = "Internal server error"
	}
	writeJSON(w, status, errorEnvelope{Error: body})
}

// pathID reads a positive integer route variable.
func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(domain.CodeValidationFailed, "Invalid "+name,
			domain.FieldError{Field: name, Message: "Must be a positive integer"})
	}
	return int32(id), nil
}

var errBodyRequired = domain.NewValidationError(domain.CodeValidationFailed, "Request body is required")

// decodeBody parses a JSON request body into dst. When the body is valid JSON
// but some values have the wrong type, every such field is reported together
// with the tag violations of the fields that did decode.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errBodyRequired
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return invalidBody(err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errBodyRequired
	}
	err = json.Unmarshal(body, dst)
	if err == nil {
		return nil
	}
	if !json.Valid(body) {
		return invalidBody(err)
	}

	var problems fieldErrors
	decodeLenient(body, reflect.ValueOf(dst).Elem(), "", &problems)
	if len(problems) == 0 {
		return invalidBody(err)
	}
	if reflect.Indirect(reflect.ValueOf(dst)).Kind() == reflect.Struct {
		var tagged fieldErrors
		tagged.check(dst)
		for _, fe := range tagged {
			if !problems.covers(fe.Field) {
				problems = append(problems, fe)
			}
		}
	}
	return problems.err()
}

func invalidBody(err error) error {
	return &domain.Error{
		Kind:    domain.KindValidation,
		Code:    domain.CodeValidationFailed,
		Message: "Invalid request body",
		Err:     err,
	}
}

var unmarshalerType = reflect.TypeOf((*stdjson.Unmarshaler)(nil)).Elem()

// decodeLenient fills v field by field, skipping and recording values whose
// JSON type does not match.
func decodeLenient(raw []byte, v reflect.Value, path string, problems *fieldErrors) {
	if string(bytes.TrimSpace(raw)) == "null" {
		return
	}
	if v.Kind() == reflect.Ptr {
		elem := reflect.New(v.Type().Elem())
		before := len(*problems)
		decodeLenient(raw, elem.Elem(), path, problems)
		if len(*problems) == before {
			v.Set(elem)
		}
		return
	}

	switch {
	case reflect.PtrTo(v.Type()).Implements(unmarshalerType):
	case v.Kind() == reflect.Struct:
		var fields map[string]stdjson.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			problems.add(pathOrBody(path), fmt.Sprintf("%s must be an object", pathOrBody(path)))
			return
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
			if !sf.IsExported() || name == "-" || name == "" {
				continue
			}
			if fieldRaw, ok := fields[name]; ok {
				decodeLenient(fieldRaw, v.Field(i), joinPath(path, name), problems)
			}
		}
		return
	case v.Kind() == reflect.Slice:
		var items []stdjson.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			problems.add(pathOrBody(path), fmt.Sprintf("%s must be an array", pathOrBody(path)))
			return
		}
		out := reflect.MakeSlice(v.Type(), len(items), len(items))
		for i, item := range items {
			decodeLenient(item, out.Index(i), fmt.Sprintf("%s[%d]", path, i), problems)
		}
		v.Set(out)
		return
	}

	target := reflect.New(v.Type())
	if err := json.Unmarshal(raw, target.Interface()); err != nil {
		problems.add(pathOrBody(path), fmt.Sprintf("%s has an invalid type", pathOrBody(path)))
		return
	}
	v.Set(target.Elem())
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func pathOrBody(path string) string {
	if path == "" {
		return "body"
	}
	return path
}

// decodeOptionalBody is decodeBody for endpoints whose body may be empty.
func decodeOptionalBody(r *http.Request, dst any) error {
	if err := decodeBody(r, dst); err != nil && err != errBodyRequired {
		return err
	}
	return nil
}
