package http

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/common"
)

// Source says where a Field is read from.
type Source int

const (
	Body Source = iota
	Params
)

// Field declares one accepted request value. Every field that is present must
// be non-empty; Optional fields may be absent or null.
type Field struct {
	Name     string
	In       Source
	Optional bool
	Trim     bool
	Rules    []validation.Rule
}

// Schema is the ordered list of fields a route accepts.
type Schema []Field

const matchedKey = "matched"

var (
	jwtShape = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*$`)

	isEmail  = is.Email
	isInt    = is.Int
	isJWT    = validation.Match(jwtShape).Error("must be a valid JWT")
	isLength = validation.RuneLength
)

var errNotString = errors.New("must be a string")

// Validate checks the request against schema. On failure every field error is
// reported at once as a validation error; on success only the declared fields
// are stored for the handler, see Matched.
func Validate(schema Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := map[string]any{}
		if len(c.Body()) > 0 {
			if err := c.App().Config().JSONDecoder(c.Body(), &body); err != nil {
				return common.Validation("Validation failed: body must be a JSON object.").WithCause(err)
			}
		}

		errs := validation.Errors{}
		matched := make(map[string]string, len(schema))

		for _, f := range schema {
			raw, present := lookup(c, body, f)
			if !present && f.Optional {
				continue
			}

			value, ok := toString(raw)
			if !ok {
				errs[f.Name] = errNotString
				continue
			}
			if f.Trim {
				value = strings.TrimSpace(value)
			}

			rules := append([]validation.Rule{validation.Required}, f.Rules...)
			if err := validation.Validate(value, rules...); err != nil {
				errs[f.Name] = err
				continue
			}

			matched[f.Name] = value
		}

		if len(errs) > 0 {
			return common.Validation("Validation failed: " + errs.Error()).WithCause(errs)
		}

		c.Locals(matchedKey, matched)
		return c.Next()
	}
}

// Matched returns the validated fields of the current request.
func Matched(c *fiber.Ctx) map[string]string {
	m, _ := c.Locals(matchedKey).(map[string]string)
	if m == nil {
		return map[string]string{}
	}
	return m
}

func lookup(c *fiber.Ctx, body map[string]any, f Field) (any, bool) {
	if f.In == Params {
		v := c.Params(f.Name)
		return v, v != ""
	}
	v, ok := body[f.Name]
	return v, ok && v != nil
}

func toString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// Route schemas.
var (
	loginSchema = Schema{
		{Name: "email", Trim: true, Rules: []validation.Rule{isEmail}},
		{Name: "password", Trim: true, Rules: []validation.Rule{isLength(2, 16)}},
	}

	registerSchema = Schema{
		{Name: "email", Trim: true, Rules: []validation.Rule{isEmail}},
		{Name: "password", Trim: true, Rules: []validation.Rule{isLength(4, 16)}},
		{Name: "confirmPassword", Trim: true, Rules: []validation.Rule{isLength(4, 16)}},
		{Name: "firstName", Trim: true, Rules: []validation.Rule{isLength(2, 32)}},
		{Name: "lastName", Trim: true, Rules: []validation.Rule{isLength(2, 32)}},
	}

	verifySchema = Schema{
		{Name: "token", In: Params, Rules: []validation.Rule{isJWT}},
	}

	userIDSchema = Schema{
		{Name: "userId", In: Params, Rules: []validation.Rule{isInt}},
	}

	createUserSchema = Schema{
		{Name: "email", Trim: true, Rules: []validation.Rule{isEmail}},
		{Name: "password", Trim: true, Rules: []validation.Rule{isLength(4, 16)}},
		{Name: "firstName", Trim: true, Rules: []validation.Rule{isLength(2, 32)}},
		{Name: "lastName", Trim: true, Rules: []validation.Rule{isLength(2, 32)}},
	}

	patchUserSchema = Schema{
		{Name: "userId", In: Params, Rules: []validation.Rule{isInt}},
		{Name: "email", Optional: true, Trim: true, Rules: []validation.Rule{isEmail}},
		{Name: "password", Optional: true, Trim: true, Rules: []validation.Rule{isLength(4, 16)}},
		{Name: "firstName", Optional: true, Trim: true, Rules: []validation.Rule{isLength(2, 32)}},
		{Name: "lastName", Optional: true, Trim: true, Rules: []validation.Rule{isLength(2, 32)}},
	}
)
