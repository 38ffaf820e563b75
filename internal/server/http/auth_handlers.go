package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/services"
)

func (s *Server) login(c *fiber.Ctx) error {
	m := Matched(c)

	user, err := s.auth.Login(c.UserContext(), m["email"], m["password"])
	if err != nil {
		return err
	}

	if err := s.session.set(c, user.ID); err != nil {
		return err
	}

	s.logger.Info(c.UserContext(), "user logged in", "user_id", user.ID)
	return c.JSON(fiber.Map{"data": fiber.Map{"user": user}})
}

func (s *Server) register(c *fiber.Ctx) error {
	m := Matched(c)

	err := s.auth.Register(c.UserContext(), services.RegisterInput{
		Email:           m["email"],
		Password:        m["password"],
		ConfirmPassword: m["confirmPassword"],
		FirstName:       m["firstName"],
		LastName:        m["lastName"],
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) verify(c *fiber.Ctx) error {
	if _, err := s.auth.Verify(c.UserContext(), Matched(c)["token"]); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) currentSession(c *fiber.Ctx) error {
	id, err := s.session.userID(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"userId": id}})
}

func (s *Server) logout(c *fiber.Ctx) error {
	s.session.clear(c)
	return c.JSON(fiber.Map{"success": true})
}
