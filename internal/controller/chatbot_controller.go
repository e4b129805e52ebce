package controller

import (
	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/internal/dto"
	"erp-chatbot-be/internal/pkg/serverutils"
	"erp-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	GetUserConversations(ctx *fiber.Ctx) error
	GetConversationMessages(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
	}
}

// RegisterRoutes mounts the endpoints at the root, matching the paths the
// support widget calls.
func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Get("/user_conversations/:user_id", c.GetUserConversations)
	r.Get("/conversation/:conversation_id", c.GetConversationMessages)
}

func (c *chatbotController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatbotController) GetUserConversations(ctx *fiber.Ctx) error {
	userId := ctx.Params("user_id")

	res, err := c.chatbotService.GetUserConversations(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatbotController) GetConversationMessages(ctx *fiber.Ctx) error {
	conversationId := ctx.Params("conversation_id")

	res, err := c.chatbotService.GetConversationMessages(ctx.Context(), conversationId)
	if err != nil || res == nil {
		// Lookup failures and unknown ids answer the same way.
		return fiber.NewError(fiber.StatusNotFound, constant.ConversationNotFoundMessage)
	}

	return ctx.JSON(res)
}
