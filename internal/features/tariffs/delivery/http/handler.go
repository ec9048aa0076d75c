package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vpn-storefront/internal/common/errors"
	"vpn-storefront/internal/common/middleware"
	"vpn-storefront/internal/common/validation"
	tariffservice "vpn-storefront/internal/features/tariffs/service"
	"vpn-storefront/internal/platform/vpnapi"
)

type TariffHandler struct {
	service tariffservice.TariffService
}

func NewTariffHandler(service tariffservice.TariffService) *TariffHandler {
	return &TariffHandler{service: service}
}

func (h *TariffHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tariffs", h.catalog)
}

// @Summary Тарифы
// @Description Каталог тарифов с ценами для выбранного количества устройств. При недоступности VPN API возвращается встроенный каталог. Загрузка страницы возобновляет опрос сохраненного крипто-инвойса
// @Tags tariffs
// @Produce json
// @Security TelegramInitData
// @Param devices query int false "Количество устройств (3-7)" default(3)
// @Param plan query string false "Выбранный тариф" Enums(1m, 3m, 6m, 1y)
// @Success 200 {object} models.CatalogResponse
// @Failure 400 {object} middleware.ErrorResponse "Некорректное количество устройств"
// @Router /tariffs [get]
func (h *TariffHandler) catalog(c *gin.Context) {
	devices := validation.DefaultDevices
	if raw := c.Query("devices"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.Error(errors.NewValidationError("devices", "must be a number"))
			return
		}
		devices = n
	}

	id, _ := middleware.IdentityFrom(c)

	resp, err := h.service.Catalog(c.Request.Context(), id, devices, vpnapi.PlanCode(c.Query("plan")))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
