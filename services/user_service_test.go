package services

import (
	"errors"
	"testing"
	"time"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRegisterUserRoles(t *testing.T) {
	db := newTestDB(t)

	provider, err := RegisterUser(db, RegisterInput{Name: " Jane ", Email: "Jane@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleServiceProvider, provider.Role)
	assert.Equal(t, "jane@example.com", provider.Email)
	assert.Equal(t, "Jane", provider.Name)
	assert.NotEqual(t, "secret123", provider.Password)

	resident, err := RegisterUser(db, RegisterInput{Name: "Tom", Email: "tom@example.com", Password: "secret123", Role: models.RoleResident})
	require.NoError(t, err)
	assert.Equal(t, models.RoleResident, resident.Role)

	sneaky, err := RegisterUser(db, RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "secret123", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleServiceProvider, sneaky.Role)

	_, err = RegisterUser(db, RegisterInput{Name: "Jane", Email: "JANE@example.com", Password: "another1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	user, err := RegisterUser(db, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)

	got, err := Authenticate(db, "ANN@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = Authenticate(db, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = Authenticate(db, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	db.Model(user).Update("is_active", false)
	_, err = Authenticate(db, "ann@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfileAndPassword(t *testing.T) {
	db := newTestDB(t)
	user, err := RegisterUser(db, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)

	bio := "Plumber for 10 years"
	skills := []string{"plumbing", "tiling"}
	got, err := UpdateProfile(db, user.ID, ProfileInput{
		Bio:     &bio,
		Skills:  &skills,
		Address: &models.Address{Street: "1 Main", City: "Nairobi"},
	})
	require.NoError(t, err)
	assert.Equal(t, bio, got.Bio)
	assert.Equal(t, "Nairobi", got.Address.City)
	assert.ElementsMatch(t, skills, got.Skills)
	assert.Equal(t, "Ann", got.Name)

	assert.ErrorIs(t, ChangePassword(db, user.ID, "wrong", "newpass1"), ErrIncorrectPassword)
	require.NoError(t, ChangePassword(db, user.ID, "secret123", "newpass1"))
	_, err = Authenticate(db, "ann@example.com", "newpass1")
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	db := newTestDB(t)
	_, err := RegisterUser(db, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = CreatePasswordReset(db, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, token, err := CreatePasswordReset(db, "ann@example.com")
	require.NoError(t, err)
	require.Len(t, token, 64)

	assert.ErrorIs(t, ResetPassword(db, "bogus", "newpass1"), ErrInvalidResetToken)
	require.NoError(t, ResetPassword(db, token, "newpass1"))
	_, err = Authenticate(db, "ann@example.com", "newpass1")
	require.NoError(t, err)

	assert.ErrorIs(t, ResetPassword(db, token, "again123"), ErrInvalidResetToken)
}

func TestPasswordResetExpires(t *testing.T) {
	db := newTestDB(t)
	_, err := RegisterUser(db, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, token, err := CreatePasswordReset(db, "ann@example.com")
	require.NoError(t, err)

	now := time.Now()
	timeNow = func() time.Time { return now.Add(16 * time.Minute) }
	t.Cleanup(func() { timeNow = time.Now })

	assert.ErrorIs(t, ResetPassword(db, token, "newpass1"), ErrInvalidResetToken)
	_, err = Authenticate(db, "ann@example.com", "secret123")
	assert.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, "email = ?", "ann@example.com").Error)
	assert.Nil(t, stored.ResetPasswordToken)
}

func TestPasswordResetExpiredClearFailure(t *testing.T) {
	db := newTestDB(t)
	_, err := RegisterUser(db, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, token, err := CreatePasswordReset(db, "ann@example.com")
	require.NoError(t, err)

	now := time.Now()
	timeNow = func() time.Time { return now.Add(16 * time.Minute) }
	t.Cleanup(func() { timeNow = time.Now })

	writeErr := errors.New("database is read-only")
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_updates", func(tx *gorm.DB) {
		tx.AddError(writeErr)
	}))

	err = ResetPassword(db, token, "newpass1")
	assert.ErrorIs(t, err, writeErr)
	assert.NotErrorIs(t, err, ErrInvalidResetToken)
}

func TestDeleteUserCascade(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, models.RoleServiceProvider)
	victim := seedUser(t, db, models.RoleServiceProvider)
	neighbor := seedUser(t, db, models.RoleResident)

	// victim rated provider's service and booking
	theirs := seedService(t, db, provider, 40, models.PriceTypeFixed)
	b := seedBooking(t, db, theirs, victim, at(9), 1, models.StatusCompleted)
	_, err := AddBookingReview(db, b.ID, victim.ID, 2, "slow")
	require.NoError(t, err)
	_, err = AddServiceReview(db, theirs.ID, victim.ID, 2, "slow")
	require.NoError(t, err)

	// victim's own content
	mine := seedService(t, db, victim, 30, models.PriceTypeFixed)
	seedBooking(t, db, mine, neighbor, at(12), 1, models.StatusPending)
	post, err := CreatePost(db, victim.ID, &models.Post{Content: "Garage sale"})
	require.NoError(t, err)
	_, err = LikePost(db, post.ID, neighbor.ID)
	require.NoError(t, err)
	_, err = AddComment(db, post.ID, neighbor.ID, "What time?")
	require.NoError(t, err)
	_, err = CreateItem(db, victim.ID, newItem("Chair", "furniture", "good", 20))
	require.NoError(t, err)

	neighborPost, err := CreatePost(db, neighbor.ID, &models.Post{Content: "Hi all"})
	require.NoError(t, err)
	_, err = AddComment(db, neighborPost.ID, victim.ID, "Hello")
	require.NoError(t, err)

	require.NoError(t, DeleteUserCascade(db, victim.ID))

	_, err = GetUser(db, victim.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	counts := map[string]interface{}{
		"services": &models.Service{}, "bookings": &models.Booking{}, "posts": &models.Post{},
		"marketplace_items": &models.MarketplaceItem{}, "service_reviews": &models.ServiceReview{},
		"post_likes": &models.PostLike{},
	}
	for name, model := range counts {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		switch name {
		case "services", "posts":
			assert.Equal(t, int64(1), n, name)
		default:
			assert.Zero(t, n, name)
		}
	}
	var comments int64
	db.Model(&models.PostComment{}).Count(&comments)
	assert.Zero(t, comments)

	p, err := GetUser(db, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Rating)
	assert.Zero(t, p.ReviewCount)
	s, err := GetService(db, theirs.ID)
	require.NoError(t, err)
	assert.Zero(t, s.ReviewCount)

	assert.ErrorIs(t, DeleteUserCascade(db, victim.ID), ErrUserNotFound)
}
