package handlers

import (
	"tradereg/internal/domain/catalogs/licensetype"
	"tradereg/internal/domain/values"
	"tradereg/internal/infrastructure/http/v1/dto"
)

// LicenseTypeHTTPHandler is the catalog handler specialized for license types.
type LicenseTypeHTTPHandler = CatalogHandler[
	*licensetype.LicenseType,
	dto.CreateLicenseTypeRequest,
	dto.UpdateLicenseTypeRequest,
]

// NewLicenseTypeHandler wires the license type service into the generic
// catalog handler.
func NewLicenseTypeHandler(base *BaseHandler, service *licensetype.Service) *LicenseTypeHTTPHandler {
	config := CatalogHandlerConfig[
		*licensetype.LicenseType,
		dto.CreateLicenseTypeRequest,
		dto.UpdateLicenseTypeRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "license_type",

		MapCreateDTO: func(req dto.CreateLicenseTypeRequest) (*licensetype.LicenseType, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateLicenseTypeRequest, existing *licensetype.LicenseType) (*licensetype.LicenseType, error) {
			req.ApplyTo(existing)
			return existing, nil
		},
		MapCustom:    func(req dto.CreateLicenseTypeRequest) map[string]any { return req.Custom },
		MapCustomUpd: func(req dto.UpdateLicenseTypeRequest) map[string]any { return req.Custom },
		MapToDTO: func(entity *licensetype.LicenseType, custom map[string]values.Value) any {
			return dto.FromLicenseType(entity, customPayload(custom))
		},
	}

	return NewCatalogHandler(base, config)
}
