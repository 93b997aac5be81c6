package service

import (
	"context"
	"fmt"
	"time"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/flixtify/rolegate/pkg/idx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TwoFAService manages second-factor methods. A method is born unverified
// and disabled; verifying it with a live code both verifies and enables it.
// At most one method is enabled at a time.
type TwoFAService struct {
	Store store.Store

	// Issuer is the name shown in authenticator apps.
	Issuer string
}

// EnrollTOTP creates an unverified TOTP method and returns its provisioning
// material. Login behavior does not change until the method is verified.
func (s *TwoFAService) EnrollTOTP(ctx context.Context, userID string) (domain.TwoFAEnrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.TwoFAEnrollment{}, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.TwoFAEnrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	method := domain.TwoFAMethod{
		ID:         idx.New().String(),
		UserID:     userID,
		MethodType: domain.TwoFATOTP,
		Secret:     key.Secret(),
	}
	if err := s.Store.TwoFAMethods().CreateMethod(ctx, method); err != nil {
		return domain.TwoFAEnrollment{}, err
	}

	return domain.TwoFAEnrollment{
		MethodID:        method.ID,
		Secret:          key.Secret(),
		ProvisioningURL: key.URL(),
		Issuer:          s.Issuer,
		Account:         user.Email,
	}, nil
}

// VerifyTOTP confirms possession of the enrolled secret. On success the
// method becomes the single enabled one and the account-level flag is set,
// so the next login demands a code.
func (s *TwoFAService) VerifyTOTP(ctx context.Context, userID, methodID, code string) error {
	method, err := s.Store.TwoFAMethods().GetMethod(ctx, methodID, userID)
	if err != nil {
		return err
	}
	if method.MethodType != domain.TwoFATOTP {
		return fmt.Errorf("%w: method is not TOTP", ErrValidation)
	}

	ok, err := totp.ValidateCustom(code, method.Secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      totpSkewPeriods,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !ok {
		return fmt.Errorf("%w: code did not match", ErrValidation)
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.TwoFAMethods().DisableAll(ctx, userID); err != nil {
			return err
		}
		if err := tx.TwoFAMethods().MarkVerified(ctx, methodID); err != nil {
			return err
		}
		return tx.Users().SetTwoFAEnabled(ctx, userID, true)
	})
}

// SetActiveMethod makes a previously verified method the single enabled
// one.
func (s *TwoFAService) SetActiveMethod(ctx context.Context, userID, methodID string) error {
	method, err := s.Store.TwoFAMethods().GetMethod(ctx, methodID, userID)
	if err != nil {
		return err
	}
	if !method.IsVerified {
		return ErrMethodNotVerified
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.TwoFAMethods().DisableAll(ctx, userID); err != nil {
			return err
		}
		if err := tx.TwoFAMethods().Enable(ctx, methodID); err != nil {
			return err
		}
		return tx.Users().SetTwoFAEnabled(ctx, userID, true)
	})
}

// DeleteMethod soft-deletes a method. When no enabled method remains the
// account-level flag is cleared so login stops demanding a code.
func (s *TwoFAService) DeleteMethod(ctx context.Context, userID, methodID string) error {
	if _, err := s.Store.TwoFAMethods().GetMethod(ctx, methodID, userID); err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.TwoFAMethods().SoftDeleteMethod(ctx, methodID); err != nil {
			return err
		}

		n, err := tx.TwoFAMethods().CountEnabled(ctx, userID)
		if err != nil {
			return err
		}
		if n == 0 {
			return tx.Users().SetTwoFAEnabled(ctx, userID, false)
		}
		return nil
	})
}

// ListMethods returns the user's non-deleted methods with secrets blanked.
func (s *TwoFAService) ListMethods(ctx context.Context, userID string) ([]domain.TwoFAMethod, error) {
	methods, err := s.Store.TwoFAMethods().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range methods {
		methods[i].Secret = ""
	}
	return methods, nil
}
