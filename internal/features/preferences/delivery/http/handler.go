package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vpn-storefront/internal/common/errors"
	"vpn-storefront/internal/common/middleware"
	"vpn-storefront/internal/common/validation"
	"vpn-storefront/internal/features/preferences/models"
	prefservice "vpn-storefront/internal/features/preferences/service"
)

type PreferencesHandler struct {
	service prefservice.PreferencesService
}

func NewPreferencesHandler(service prefservice.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{service: service}
}

func (h *PreferencesHandler) RegisterRoutes(router *gin.RouterGroup) {
	prefs := router.Group("/preferences")
	{
		prefs.GET("", h.get)
		prefs.PUT("", h.update)
	}
	router.POST("/navigation/swipe", h.swipe)
}

// @Summary Настройки
// @Description Тема оформления и признак пройденного обучения свайпам
// @Tags preferences
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.Preferences
// @Failure 401 {object} middleware.ErrorResponse "Нет Telegram ID"
// @Router /preferences [get]
func (h *PreferencesHandler) get(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	prefs, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// @Summary Обновить настройки
// @Tags preferences
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param input body models.UpdatePreferencesRequest true "Новые значения"
// @Success 200 {object} models.Preferences
// @Failure 400 {object} middleware.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} middleware.ErrorResponse "Ошибка хранилища"
// @Router /preferences [put]
func (h *PreferencesHandler) update(c *gin.Context) {
	var input models.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid JSON body"))
		return
	}
	if err := validation.Struct(input); err != nil {
		c.Error(err)
		return
	}

	id, _ := middleware.IdentityFrom(c)
	prefs, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// @Summary Свайп между вкладками
// @Description Влево: кабинет, главная, тарифы. Вправо: тарифы, главная, кабинет. Свайп вправо завершает обучение
// @Tags preferences
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param input body models.SwipeRequest true "Текущая вкладка и направление"
// @Success 200 {object} models.SwipeResponse
// @Failure 400 {object} middleware.ErrorResponse "Ошибка валидации"
// @Router /navigation/swipe [post]
func (h *PreferencesHandler) swipe(c *gin.Context) {
	var input models.SwipeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid JSON body"))
		return
	}
	if err := validation.Struct(input); err != nil {
		c.Error(err)
		return
	}

	id, _ := middleware.IdentityFrom(c)
	resp, err := h.service.Swipe(c.Request.Context(), id, input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
