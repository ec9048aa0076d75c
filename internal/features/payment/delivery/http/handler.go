package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vpn-storefront/internal/common/errors"
	"vpn-storefront/internal/common/middleware"
	"vpn-storefront/internal/common/validation"
	"vpn-storefront/internal/features/payment/models"
	paymentservice "vpn-storefront/internal/features/payment/service"
)

type PaymentHandler struct {
	service paymentservice.PaymentService
}

func NewPaymentHandler(service paymentservice.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/payments")
	{
		payments.POST("", h.create)
		payments.POST("/stars/:payment_id/status", h.starsStatus)
		payments.GET("/state", h.state)
	}
}

// @Summary Создать платеж
// @Description Создает платеж выбранным способом и возвращает действие для Mini App: открыть ссылку или инвойс
// @Tags payments
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param input body models.CreatePaymentRequest true "Тариф, количество устройств и способ оплаты"
// @Success 200 {object} models.CreatePaymentResponse
// @Failure 400 {object} middleware.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} middleware.ErrorResponse "Нет Telegram ID"
// @Failure 502 {object} middleware.ErrorResponse "Ошибка VPN API"
// @Router /payments [post]
func (h *PaymentHandler) create(c *gin.Context) {
	var input models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid JSON body"))
		return
	}
	if err := validation.Struct(input); err != nil {
		c.Error(err)
		return
	}

	profile := middleware.ProfileFrom(c)
	id, _ := profile.Identity()

	resp, err := h.service.CreatePayment(c.Request.Context(), paymentservice.Customer{
		Identity: id,
		Username: profile.Username,
	}, input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Статус оплаты Stars
// @Description Передает статус, полученный колбэком openInvoice. Первый статус завершает ожидание, повторные отклоняются
// @Tags payments
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param payment_id path string true "ID платежа"
// @Param input body models.StarsStatusRequest true "Статус инвойса"
// @Success 200 {object} models.StarsStatusResponse
// @Failure 400 {object} middleware.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} middleware.ErrorResponse "Платеж не ожидает статуса"
// @Router /payments/stars/{payment_id}/status [post]
func (h *PaymentHandler) starsStatus(c *gin.Context) {
	paymentID := c.Param("payment_id")
	if paymentID == "" {
		c.Error(errors.NewValidationError("payment_id", "is required"))
		return
	}

	var input models.StarsStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid JSON body"))
		return
	}
	if err := validation.Struct(input); err != nil {
		c.Error(err)
		return
	}

	id, _ := middleware.IdentityFrom(c)
	resp, err := h.service.ReportStarsStatus(c.Request.Context(), id, paymentID, input.Status)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Состояние платежей
// @Description Последнее состояние каждого способа оплаты, сохраненные маркеры и активные опросы
// @Tags payments
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.StateResponse
// @Failure 401 {object} middleware.ErrorResponse "Нет Telegram ID"
// @Router /payments/state [get]
func (h *PaymentHandler) state(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	resp, err := h.service.State(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
