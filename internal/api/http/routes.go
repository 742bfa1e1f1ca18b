package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/city-weather/internal/session"
	"github.com/i474232898/city-weather/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. bus may be nil,
// in which case the live stream endpoint is not available.
func RegisterRoutes(app *fiber.App, service *session.Service, bus *session.Bus) {
	v1 := app.Group("/api/v1")

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(weather.Cities())
	})

	v1.Get("/conditions/:code", func(c *fiber.Ctx) error {
		code, err := c.ParamsInt("code")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "condition code must be an integer")
		}
		return c.JSON(fiber.Map{
			"code":       code,
			"band":       weather.BandFor(code),
			"icon":       weather.IconFor(code),
			"background": weather.BackgroundFor(code),
		})
	})

	v1.Post("/sessions", func(c *fiber.Ctx) error {
		var req createSessionRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
			}
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctrl := service.Create(session.Mode(req.Mode))
		return c.Status(fiber.StatusCreated).JSON(ctrl.View())
	})

	v1.Get("/sessions/:id", func(c *fiber.Ctx) error {
		ctrl, err := service.Get(c.Params("id"))
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(ctrl.View())
	})

	v1.Put("/sessions/:id/city", func(c *fiber.Ctx) error {
		var req selectCityRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctrl, err := service.SelectCity(c.Params("id"), req.CityID)
		if ctrl == nil {
			return sessionError(err)
		}
		return c.Status(statusFor(err)).JSON(ctrl.View())
	})

	v1.Post("/sessions/:id/fetch", func(c *fiber.Ctx) error {
		ctrl, err := service.FetchWeather(c.UserContext(), c.Params("id"))
		if ctrl == nil {
			return sessionError(err)
		}
		return c.Status(statusFor(err)).JSON(ctrl.View())
	})

	v1.Delete("/sessions/:id", func(c *fiber.Ctx) error {
		if err := service.End(c.Params("id")); err != nil {
			return sessionError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	if bus != nil {
		registerStream(v1, service, bus)
	}
}

type createSessionRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=manual auto"`
}

type selectCityRequest struct {
	CityID string `json:"cityId" validate:"required"`
}

// statusFor maps the outcome of a controller action onto an HTTP status. The
// body always carries the session view, which holds the user-facing message.
func statusFor(err error) int {
	switch {
	case err == nil, errors.Is(err, session.ErrSuperseded):
		return fiber.StatusOK
	case errors.Is(err, session.ErrCityNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, session.ErrProvider):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func sessionError(err error) error {
	if errors.Is(err, session.ErrSessionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "session lookup failed")
}
