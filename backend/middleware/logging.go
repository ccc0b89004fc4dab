package middleware

import (
	"time"

	"skillpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	requestIDKey    = "request_id"
	HeaderRequestID = "X-Request-ID"
)

// RequestID keeps the caller's X-Request-ID or assigns a new one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(requestIDKey, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

func LoggingMiddleware(log *utils.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Передаем управление следующему обработчику
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = utils.StatusOf(err)
		}

		kv := []interface{}{
			"request_id", GetRequestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
			"ip", c.IP(),
		}
		if user := CurrentUser(c); user != nil {
			kv = append(kv, "user_id", user.ID)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("Request failed", append(kv, "error", err)...)
		case status >= fiber.StatusBadRequest:
			log.Warn("Request rejected", kv...)
		default:
			log.Info("Request handled", kv...)
		}
		return err
	}
}
