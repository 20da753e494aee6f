package v1

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

// uploadPage is a minimal form for manual uploads.
//
//go:embed web/index.html
var uploadPage []byte

func (r *V1) showUI(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)

	return ctx.Send(uploadPage)
}
