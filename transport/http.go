package transport

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Webhook is an HTTP adapter: each inbound message is a POST and the reply
// travels back in the response body.
type Webhook struct {
	app     *fiber.App
	handler HandlerFunc
	log     *zap.Logger
}

type inboundMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type outboundMessage struct {
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
}

// NewWebhook creates the HTTP adapter around handler.
func NewWebhook(handler HandlerFunc, log *zap.Logger) *Webhook {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Webhook{
		app:     fiber.New(fiber.Config{DisableStartupMessage: true}),
		handler: handler,
		log:     log,
	}

	w.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	w.app.Post("/messages", w.postMessage)

	return w
}

func (w *Webhook) postMessage(c *fiber.Ctx) error {
	var msg inboundMessage
	if err := c.BodyParser(&msg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid message body"})
	}
	if msg.Sender == "" || msg.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "sender and text are required"})
	}

	id := uuid.NewString()
	w.log.Info("inbound message",
		zap.String("id", id),
		zap.String("sender", msg.Sender))

	reply, err := w.handler(c.UserContext(), msg.Sender, msg.Text)
	if err != nil {
		w.log.Error("handler failed", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.JSON(outboundMessage{Recipient: msg.Sender, Text: reply})
}

// Listen serves until the listener fails or Shutdown is called.
func (w *Webhook) Listen(addr string) error {
	return w.app.Listen(addr)
}

// Shutdown gracefully stops the adapter.
func (w *Webhook) Shutdown() error {
	return w.app.Shutdown()
}

// Test hook: fiber's app.Test lets handler tests run without a listener.
func (w *Webhook) App() *fiber.App {
	return w.app
}
