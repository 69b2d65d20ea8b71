package usecase

import (
	"context"
	"time"

	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/internal/service"
	"go-care-scheduling/pkg/apperror"

	"github.com/sirupsen/logrus"
)

// AuthUsecase covers the session concerns this service owns. Tokens are issued by the
// external auth service; here they are only revoked and resolved to accounts.
type AuthUsecase interface {
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	CurrentAccount(ctx context.Context, actor entity.Actor) (*dto.AccountResponse, error)
}

type authUsecase struct {
	log        *logrus.Logger
	revocation service.TokenRevocationService
	directory  DirectoryUsecase
	now        Clock
}

func NewAuthUsecase(
	log *logrus.Logger,
	revocation service.TokenRevocationService,
	directory DirectoryUsecase,
	now Clock,
) AuthUsecase {
	if now == nil {
		now = time.Now
	}
	return &authUsecase{
		log:        log,
		revocation: revocation,
		directory:  directory,
		now:        now,
	}
}

// Logout revokes the token until it would have expired anyway.
func (u *authUsecase) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return apperror.Validation("token has no id")
	}

	ttl := expiresAt.Sub(u.now())
	if ttl <= 0 {
		return nil
	}

	if err := u.revocation.Revoke(ctx, tokenID, ttl); err != nil {
		u.log.Warnf("Failed to revoke token: %+v", err)
		return apperror.Storage(err)
	}
	return nil
}

func (u *authUsecase) CurrentAccount(ctx context.Context, actor entity.Actor) (*dto.AccountResponse, error) {
	return u.directory.FindByID(ctx, actor.Role, actor.ID)
}
