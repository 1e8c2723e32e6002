package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/minhng/tripfund/internal/auth"
	"github.com/minhng/tripfund/internal/models"
)

type registerRequest struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || body.Name == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email, name and password are required")
	}

	role := body.Role
	switch role {
	case "":
		role = models.RolePlanner
	case models.RoleAdmin, models.RolePlanner:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "role must be admin or planner")
	}

	user, err := s.authn.Register(c.Context(), body.Email, body.Name, body.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrEmailTaken):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  toUserView(user),
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	body.Email = strings.TrimSpace(strings.ToLower(body.Email))

	user, err := s.authn.Authenticate(c.Context(), body.Email, body.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  toUserView(user),
	})
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	user, err := s.store.GetUserByID(c.Context(), currentUserID(c))
	if err != nil {
		return err
	}
	if user == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "account no longer exists")
	}
	return c.JSON(toUserView(user))
}
