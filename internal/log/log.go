// Package log is a thin fiber-aware layer over zerolog. Handlers call
// Info/Audit/Security/Error with an action tag; request id, method, path and
// status are attached automatically when a request context is present.
package log

import (
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// SetOutput redirects all subsequent log writes (used for optional file
// logging from main).
func SetOutput(w io.Writer) {
	logger = zerolog.New(w).With().Timestamp().Logger()
}

func write(ev *zerolog.Event, c *fiber.Ctx, action string, fields map[string]any) {
	ev = ev.Str("action", action)
	if c != nil {
		ev = ev.Str("ip", c.IP()).Str("method", c.Method()).Str("path", c.Path())
		if code := c.Response().StatusCode(); code != 0 {
			ev = ev.Int("status", code)
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("req_id", rid)
		}
	}
	ev.Fields(fields).Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(logger.Info(), c, action, fields)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(logger.Info().Str("kind", "audit"), c, action, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(logger.Warn().Str("kind", "security"), c, action, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(logger.Error().Err(err), c, action, fields)
}
