package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/common"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/services"
)

func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"users": users}})
}

func (s *Server) getUser(c *fiber.Ctx) error {
	id, err := pathUserID(c)
	if err != nil {
		return err
	}

	user, err := s.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": user}})
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	id, err := pathUserID(c)
	if err != nil {
		return err
	}

	if err := s.users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) createUser(c *fiber.Ctx) error {
	m := Matched(c)

	user, err := s.users.Create(c.UserContext(), services.CreateInput{
		Email:     m["email"],
		Password:  m["password"],
		FirstName: m["firstName"],
		LastName:  m["lastName"],
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": user}})
}

func (s *Server) patchUser(c *fiber.Ctx) error {
	id, err := pathUserID(c)
	if err != nil {
		return err
	}

	m := Matched(c)
	in := services.PatchInput{
		Email:     optional(m, "email"),
		Password:  optional(m, "password"),
		FirstName: optional(m, "firstName"),
		LastName:  optional(m, "lastName"),
	}

	user, err := s.users.Patch(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": user}})
}

// pathUserID parses the validated userId parameter.
func pathUserID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(Matched(c)["userId"], 10, 64)
	if err != nil {
		return 0, common.Validation("Validation failed: userId: must be an integer number.").WithCause(err)
	}
	return id, nil
}

func optional(m map[string]string, key string) *string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	return &v
}
