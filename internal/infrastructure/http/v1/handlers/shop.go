package handlers

import (
	"tradereg/internal/domain/catalogs/shop"
	"tradereg/internal/domain/values"
	"tradereg/internal/infrastructure/http/v1/dto"
)

// ShopHTTPHandler is the catalog handler specialized for shops.
type ShopHTTPHandler = CatalogHandler[
	*shop.Shop,
	dto.CreateShopRequest,
	dto.UpdateShopRequest,
]

// NewShopHandler wires the shop service into the generic catalog handler.
func NewShopHandler(base *BaseHandler, service *shop.Service) *ShopHTTPHandler {
	config := CatalogHandlerConfig[
		*shop.Shop,
		dto.CreateShopRequest,
		dto.UpdateShopRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "shop",

		MapCreateDTO: func(req dto.CreateShopRequest) (*shop.Shop, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateShopRequest, existing *shop.Shop) (*shop.Shop, error) {
			req.ApplyTo(existing)
			return existing, nil
		},
		MapCustom:    func(req dto.CreateShopRequest) map[string]any { return req.Custom },
		MapCustomUpd: func(req dto.UpdateShopRequest) map[string]any { return req.Custom },
		MapToDTO: func(entity *shop.Shop, custom map[string]values.Value) any {
			return dto.FromShop(entity, customPayload(custom))
		},
	}

	return NewCatalogHandler(base, config)
}

// customPayload keeps empty cell maps out of the JSON output.
func customPayload(custom map[string]values.Value) any {
	if len(custom) == 0 {
		return nil
	}
	return custom
}
