// Package validator checks request structs against `validate` tags and
// renders failures in English or Chinese. Field names come from json tags.
package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
	zhtrans "github.com/go-playground/validator/v10/translations/zh"
)

const (
	LangEN = "en"
	LangZH = "zh"
)

// rule is a custom tag with its messages per language.
type rule struct {
	tag  string
	fn   validator.Func
	text map[string]string
}

func oneOf(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// loginEmail 仅要求 @ 前非空。
func loginEmail(fl validator.FieldLevel) bool {
	return strings.Index(strings.TrimSpace(fl.Field().String()), "@") > 0
}

var rules = []rule{
	{
		tag:  "notblank",
		fn:   notBlank,
		text: map[string]string{LangEN: "{0} must not be blank", LangZH: "{0}不能为空"},
	},
	{
		tag:  "visibility",
		fn:   oneOf("public", "internal"),
		text: map[string]string{LangEN: "{0} must be either public or internal", LangZH: "{0}必须为 public 或 internal"},
	},
	{
		tag:  "ticketstat",
		fn:   oneOf("open", "resolved"),
		text: map[string]string{LangEN: "{0} must be either open or resolved", LangZH: "{0}必须为 open 或 resolved"},
	},
	{
		tag:  "loginemail",
		fn:   loginEmail,
		text: map[string]string{LangEN: "{0} must be a valid email address", LangZH: "{0}必须是有效的邮箱地址"},
	},
}

// Validator is safe for concurrent use once built.
type Validator struct {
	validate *validator.Validate
	trans    map[string]ut.Translator
}

var global = sync.OnceValue(New)

// Global returns the shared Validator.
func Global() *Validator { return global() }

func New() *Validator {
	v := &Validator{validate: validator.New(), trans: map[string]ut.Translator{}}
	v.validate.RegisterTagNameFunc(jsonName)

	uni := ut.New(en.New(), en.New(), zh.New())
	defaults := map[string]func(*validator.Validate, ut.Translator) error{
		LangEN: entrans.RegisterDefaultTranslations,
		LangZH: zhtrans.RegisterDefaultTranslations,
	}
	for lang, register := range defaults {
		t, _ := uni.GetTranslator(lang)
		_ = register(v.validate, t)
		v.trans[lang] = t
	}

	for _, r := range rules {
		_ = v.validate.RegisterValidation(r.tag, r.fn)
		for lang, text := range r.text {
			v.addMessage(lang, r.tag, text)
		}
	}
	return v
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

func (v *Validator) addMessage(lang, tag, text string) {
	_ = v.validate.RegisterTranslation(tag, v.trans[lang],
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field())
			return msg
		},
	)
}

// Validate reports failures in English.
func (v *Validator) Validate(obj any) error {
	return v.ValidateWithLang(obj, LangEN)
}

// ValidateWithLang returns a *ValidationErrors translated into lang, falling
// back to English for unknown languages.
func (v *Validator) ValidateWithLang(obj any, lang string) error {
	err := v.validate.Struct(obj)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	trans, ok := v.trans[lang]
	if !ok {
		trans = v.trans[LangEN]
	}
	out := &ValidationErrors{Errors: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Errors = append(out.Errors, FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: fe.Translate(trans)})
	}
	return out
}

type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationErrors lists failures in struct field order.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// First 返回第一条错误，没有时返回 nil。
func (e *ValidationErrors) First() *FieldError {
	if len(e.Errors) == 0 {
		return nil
	}
	return &e.Errors[0]
}
