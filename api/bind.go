package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"LotusLedger/api/constants"
	"LotusLedger/internal/models"

	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// DecodeBody fills dst, a pointer to a struct, from a JSON body or from form
// fields named after the struct's json tags.
func DecodeBody(r *http.Request, dst interface{}) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == constants.ContentTypeJSON {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return &models.ValidationError{Message: constants.ErrInvalidJSON}
		}
		return nil
	}
	form, err := postForm(r)
	if err != nil {
		return err
	}
	return bindForm(form, dst)
}

// FormOrJSONValue returns one field from a JSON object body or a form.
func FormOrJSONValue(r *http.Request, key string) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == constants.ContentTypeJSON {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", &models.ValidationError{Message: constants.ErrInvalidJSON}
		}
		s, _ := body[key].(string)
		return strings.TrimSpace(s), nil
	}
	form, err := postForm(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(form.Get(key)), nil
}

func postForm(r *http.Request) (url.Values, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if ct == "multipart/form-data" {
		err = r.ParseMultipartForm(constants.MaxUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, &models.ValidationError{Message: constants.ErrInvalidForm}
	}
	return r.PostForm, nil
}

func bindForm(form url.Values, dst interface{}) error {
	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		raw, ok := form[name]
		if !ok || len(raw) == 0 {
			continue
		}
		s := strings.TrimSpace(raw[0])
		field := v.Field(i)
		switch {
		case f.Type == decimalType:
			if s == "" {
				continue
			}
			d, err := decimal.NewFromString(s)
			if err != nil {
				return models.Validationf(constants.ErrInvalidNumber, name, s)
			}
			field.Set(reflect.ValueOf(d))
		case f.Type.Kind() == reflect.String:
			field.SetString(s)
		case f.Type.Kind() == reflect.Int64, f.Type.Kind() == reflect.Int:
			if s == "" {
				continue
			}
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return models.Validationf(constants.ErrInvalidNumber, name, s)
			}
			field.SetInt(n)
		}
	}
	return nil
}
