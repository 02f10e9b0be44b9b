package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/pkg/logger"
)

// LoggerMiddleware logs every request with its status and latency.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		logger.API("request", c.Method()+" "+c.Path(), map[string]interface{}{
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
			"ip":      c.IP(),
		})

		return err
	}
}
