package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const resetTokenTTL = 15 * time.Minute

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
	Address  models.Address
}

type ProfileInput struct {
	Name    *string
	Phone   *string
	Bio     *string
	Avatar  *string
	Address *models.Address
	Skills  *[]string
}

func GetUser(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserActive switches an account on or off. Deactivated accounts keep
// their data but cannot log in or use an existing token.
func SetUserActive(db *gorm.DB, id uuid.UUID, active bool) (*models.User, error) {
	res := db.Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return GetUser(db, id)
}

func RegisterUser(db *gorm.DB, in RegisterInput) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role != models.RoleResident {
		role = models.RoleServiceProvider
	}

	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: string(hashed),
		Role:     role,
		Phone:    in.Phone,
		Address:  in.Address,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func UpdateProfile(db *gorm.DB, userID uuid.UUID, in ProfileInput) (*models.User, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.Avatar != nil {
		updates["avatar"] = *in.Avatar
	}
	if in.Address != nil {
		updates["address_street"] = in.Address.Street
		updates["address_city"] = in.Address.City
		updates["address_state"] = in.Address.State
		updates["address_zip_code"] = in.Address.ZipCode
	}
	if in.Skills != nil {
		updates["skills"] = datatypes.JSONSlice[string](*in.Skills)
	}
	if len(updates) > 0 {
		res := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}
	return GetUser(db, userID)
}

func ChangePassword(db *gorm.DB, userID uuid.UUID, current, next string) error {
	user, err := GetUser(db, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrIncorrectPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Model(&models.User{}).Where("id = ?", userID).Update("password", string(hashed)).Error
}

// CreatePasswordReset stores a fresh single-use token on the account. It
// returns ErrUserNotFound for unknown emails; callers should not reveal that.
func CreatePasswordReset(db *gorm.DB, email string) (*models.User, string, error) {
	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, "", err
	}
	token := hex.EncodeToString(tokenBytes)
	expiration := timeNow().UTC().Add(resetTokenTTL)

	err := db.Model(&user).Updates(map[string]interface{}{
		"reset_password_token":            token,
		"reset_password_token_expires_at": expiration,
	}).Error
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func ResetPassword(db *gorm.DB, token, newPassword string) error {
	var user models.User
	if err := db.Where("reset_password_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	reset := map[string]interface{}{
		"reset_password_token":            nil,
		"reset_password_token_expires_at": nil,
	}
	if user.ResetPasswordTokenExpiresAt == nil || user.ResetPasswordTokenExpiresAt.Before(timeNow()) {
		if err := db.Model(&user).Updates(reset).Error; err != nil {
			return fmt.Errorf("clearing expired reset token: %w", err)
		}
		return ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	reset["password"] = string(hashed)
	return db.Model(&user).Updates(reset).Error
}

// DeleteUserCascade removes the account and everything it owns in one
// transaction: posts with their likes and comments, the user's own likes and
// comments, services with their reviews, marketplace items, and bookings on
// either side.
func DeleteUserCascade(db *gorm.DB, userID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(lockingUpdate).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		postIDs := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", userID)
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.PostComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PostComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}

		serviceIDs := tx.Model(&models.Service{}).Select("id").Where("provider_id = ?", userID)
		if err := tx.Where("service_id IN (?)", serviceIDs).Delete(&models.ServiceReview{}).Error; err != nil {
			return err
		}

		var reviewedServices []uuid.UUID
		if err := tx.Model(&models.ServiceReview{}).Where("user_id = ?", userID).Distinct().Pluck("service_id", &reviewedServices).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.ServiceReview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("provider_id = ?", userID).Delete(&models.Service{}).Error; err != nil {
			return err
		}

		var ratedProviders []uuid.UUID
		err := tx.Model(&models.Booking{}).
			Where("user_id = ? AND user_rating IS NOT NULL", userID).
			Distinct().Pluck("provider_id", &ratedProviders).Error
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR provider_id = ?", userID, userID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}

		if err := tx.Where("seller_id = ?", userID).Delete(&models.MarketplaceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}

		for _, id := range reviewedServices {
			if err := RecomputeServiceRating(tx, id); err != nil {
				return err
			}
		}
		for _, id := range ratedProviders {
			if id == userID {
				continue
			}
			if err := RecomputeProviderRating(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}
