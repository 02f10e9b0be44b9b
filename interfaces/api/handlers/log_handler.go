package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/pkg/config"
	"github.com/nbailey1776/facial-recognition-app/pkg/logger"
)

// LogHandler handles log-related API requests
type LogHandler struct {
	adminToken string
}

func NewLogHandler(cfg *config.Config) *LogHandler {
	return &LogHandler{
		adminToken: cfg.Admin.Token,
	}
}

func (h *LogHandler) authorized(c *fiber.Ctx) bool {
	token := c.Get("X-Admin-Token")
	if token == "" {
		token = c.Query("token")
	}
	return h.adminToken != "" && token == h.adminToken
}

// GetLogs returns filtered log entries
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid admin token",
		})
	}

	opts := logger.ReadLogsOptions{
		Lines:    c.QueryInt("lines", 100),
		Level:    logger.Level(c.Query("level")),
		Category: logger.Category(c.Query("category")),
		Search:   c.Query("search"),
	}

	entries, err := logger.ReadLogs(opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"entries": entries,
			"count":   len(entries),
			"filters": fiber.Map{
				"lines":    opts.Lines,
				"level":    opts.Level,
				"category": opts.Category,
				"search":   opts.Search,
			},
		},
	})
}

// GetLogFiles returns the list of log files
func (h *LogHandler) GetLogFiles(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid admin token",
		})
	}

	files, err := logger.ListLogFiles()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"files": files,
			"count": len(files),
		},
	})
}
