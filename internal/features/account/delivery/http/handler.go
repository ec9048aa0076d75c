package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vpn-storefront/internal/common/middleware"
	accountservice "vpn-storefront/internal/features/account/service"
)

type AccountHandler struct {
	service accountservice.AccountService
}

func NewAccountHandler(service accountservice.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/home", h.home)
	router.GET("/connect", h.connect)
	router.GET("/cabinet", h.cabinet)
}

// @Summary Главная
// @Description Профиль, статус подписки и ссылка-приглашение. Возобновляет ожидание подтверждения платежа, начатого через СБП или карту
// @Tags account
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.HomeResponse
// @Failure 401 {object} middleware.ErrorResponse "Нет Telegram ID"
// @Router /home [get]
func (h *AccountHandler) home(c *gin.Context) {
	resp, err := h.service.Home(c.Request.Context(), middleware.ProfileFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Подключение
// @Description Ссылки для импорта подписки в VPN клиенты. Без активной подписки ссылок нет
// @Tags account
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.ConnectResponse
// @Failure 401 {object} middleware.ErrorResponse "Нет Telegram ID"
// @Failure 502 {object} middleware.ErrorResponse "Ошибка VPN API"
// @Router /connect [get]
func (h *AccountHandler) connect(c *gin.Context) {
	resp, err := h.service.Connect(c.Request.Context(), middleware.ProfileFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Личный кабинет
// @Description Рефералы, бонусные дни, устройства и история покупок
// @Tags account
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.CabinetResponse
// @Failure 401 {object} middleware.ErrorResponse "Нет Telegram ID"
// @Failure 502 {object} middleware.ErrorResponse "Ошибка VPN API"
// @Router /cabinet [get]
func (h *AccountHandler) cabinet(c *gin.Context) {
	resp, err := h.service.Cabinet(c.Request.Context(), middleware.ProfileFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
