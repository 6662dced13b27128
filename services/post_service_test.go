package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPostsPaginationAndType(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleResident)

	var ids []uuid.UUID
	for i := 0; i < 12; i++ {
		typ := "general"
		if i%4 == 0 {
			typ = "event"
		}
		p, err := CreatePost(db, author.ID, &models.Post{Content: "hello", Type: typ})
		require.NoError(t, err)
		db.Model(p).UpdateColumn("created_at", day.Add(time.Duration(i)*time.Minute))
		ids = append(ids, p.ID)
	}
	hidden, err := CreatePost(db, author.ID, &models.Post{Content: "gone"})
	require.NoError(t, err)
	db.Model(hidden).Update("is_active", false)

	posts, page, err := ListPosts(db, PostFilter{})
	require.NoError(t, err)
	assert.Len(t, posts, 10)
	assert.Equal(t, ids[11], posts[0].ID)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 2, page.Pages)

	posts, _, err = ListPosts(db, PostFilter{Page: 2})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, ids[0], posts[1].ID)

	posts, page, err = ListPosts(db, PostFilter{Type: "event"})
	require.NoError(t, err)
	assert.Len(t, posts, 3)
	assert.Equal(t, int64(3), page.Total)
}

func TestLikeAndUnlike(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleResident)
	fan := seedUser(t, db, models.RoleResident)
	post, err := CreatePost(db, author.ID, &models.Post{Content: "Block party Saturday", Type: "event"})
	require.NoError(t, err)

	likes, err := LikePost(db, post.ID, fan.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, fan.ID, likes[0].UserID)

	_, err = LikePost(db, post.ID, fan.ID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	likes, err = UnlikePost(db, post.ID, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)

	_, err = UnlikePost(db, post.ID, fan.ID)
	assert.ErrorIs(t, err, ErrNotLiked)

	_, err = LikePost(db, uuid.New(), fan.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCommentsNewestFirstAndDeletion(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleResident)
	neighbor := seedUser(t, db, models.RoleResident)
	admin := seedUser(t, db, models.RoleAdmin)
	post, err := CreatePost(db, author.ID, &models.Post{Content: "Lost cat"})
	require.NoError(t, err)

	comments, err := AddComment(db, post.ID, neighbor.ID, "Seen near the park")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	db.Model(&comments[0]).UpdateColumn("created_at", time.Now().Add(-time.Hour))

	comments, err = AddComment(db, post.ID, author.ID, "Thanks!")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Thanks!", comments[0].Text)
	require.NotNil(t, comments[0].User)

	neighborComment := comments[1].ID
	_, err = DeleteComment(db, post.ID, neighborComment, author)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = DeleteComment(db, post.ID, uuid.New(), admin)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	comments, err = DeleteComment(db, post.ID, neighborComment, admin)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestUpdateAndDeletePostPermissions(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleResident)
	other := seedUser(t, db, models.RoleResident)
	admin := seedUser(t, db, models.RoleAdmin)
	post, err := CreatePost(db, author.ID, &models.Post{Content: "Water outage"})
	require.NoError(t, err)
	_, err = LikePost(db, post.ID, other.ID)
	require.NoError(t, err)
	_, err = AddComment(db, post.ID, other.ID, "Same here")
	require.NoError(t, err)

	content := "Water outage until 5pm"
	_, err = UpdatePost(db, post.ID, other, PostInput{Content: &content})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	typ := "alert"
	got, err := UpdatePost(db, post.ID, author, PostInput{Content: &content, Type: &typ})
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)
	assert.Equal(t, "alert", got.Type)
	assert.Len(t, got.Likes, 1)
	assert.Len(t, got.Comments, 1)

	assert.ErrorIs(t, DeletePost(db, post.ID, other), ErrNotAuthorized)
	require.NoError(t, DeletePost(db, post.ID, admin))

	_, err = GetPost(db, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	var leftovers int64
	db.Model(&models.PostComment{}).Where("post_id = ?", post.ID).Count(&leftovers)
	assert.Zero(t, leftovers)
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&leftovers)
	assert.Zero(t, leftovers)
}

func TestCountUserPosts(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleResident)
	for i := 0; i < 3; i++ {
		_, err := CreatePost(db, author.ID, &models.Post{Content: "post"})
		require.NoError(t, err)
	}
	n, err := CountUserPosts(db, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestDeactivatedPostIsHiddenFromReaders(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleResident)
	reader := seedUser(t, db, models.RoleResident)
	post, err := CreatePost(db, author.ID, &models.Post{Content: "Lost cat"})
	require.NoError(t, err)
	require.NoError(t, db.Model(post).Update("is_active", false).Error)

	_, err = GetPost(db, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = LikePost(db, post.ID, reader.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = AddComment(db, post.ID, reader.ID, "Found it?")
	assert.ErrorIs(t, err, ErrPostNotFound)

	// the author can still edit and remove it
	content := "Lost cat, found"
	got, err := UpdatePost(db, post.ID, author, PostInput{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)
	assert.False(t, got.IsActive)
	require.NoError(t, DeletePost(db, post.ID, author))
}
