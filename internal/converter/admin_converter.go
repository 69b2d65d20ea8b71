package converter

import (
	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"
)

func AdminToResponse(admin *entity.Admin) *dto.AdminResponse {
	if admin == nil {
		return nil
	}
	return &dto.AdminResponse{
		ID:        admin.ID,
		FirstName: admin.FirstName,
		LastName:  admin.LastName,
		Email:     admin.Email,
		CreatedAt: admin.CreatedAt,
	}
}

func AccountToResponse(account *entity.Account) *dto.AccountResponse {
	if account == nil {
		return nil
	}
	return &dto.AccountResponse{
		ID:    account.ID,
		Role:  account.Role.String(),
		Name:  account.Name,
		Email: account.Email,
	}
}
