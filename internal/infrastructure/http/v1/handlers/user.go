package handlers

import (
	"tradereg/internal/domain/catalogs/user"
	"tradereg/internal/domain/values"
	"tradereg/internal/infrastructure/http/v1/dto"
)

// UserHTTPHandler is the catalog handler specialized for staff users.
type UserHTTPHandler = CatalogHandler[
	*user.User,
	dto.CreateUserRequest,
	dto.UpdateUserRequest,
]

// NewUserHandler wires the user service into the generic catalog handler.
// The password hash never appears in responses; hashing happens in the DTO
// mappers so the plain password stays inside the handler layer.
func NewUserHandler(base *BaseHandler, service *user.Service) *UserHTTPHandler {
	config := CatalogHandlerConfig[
		*user.User,
		dto.CreateUserRequest,
		dto.UpdateUserRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "user",

		MapCreateDTO: func(req dto.CreateUserRequest) (*user.User, error) {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateUserRequest, existing *user.User) (*user.User, error) {
			if err := req.ApplyTo(existing); err != nil {
				return nil, err
			}
			return existing, nil
		},
		MapCustom:    func(req dto.CreateUserRequest) map[string]any { return req.Custom },
		MapCustomUpd: func(req dto.UpdateUserRequest) map[string]any { return req.Custom },
		MapToDTO: func(entity *user.User, custom map[string]values.Value) any {
			resp := dto.FromUser(entity)
			resp.Custom = customPayload(custom)
			return resp
		},
	}

	return NewCatalogHandler(base, config)
}
