package services

import (
	"errors"
	"time"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultPostPageSize = 10

type PostFilter struct {
	Type  string
	Page  int
	Limit int
}

type PostInput struct {
	Content   *string
	Image     *string
	Type      *string
	EventDate *time.Time
	Location  *string
}

func withPostRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").
		Preload("Likes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Comments.User")
}

// activePosts limits a query to posts readers may see. Deactivated posts stay
// reachable only through editablePost.
func activePosts(db *gorm.DB) *gorm.DB {
	return db.Where("posts.is_active = ?", true)
}

func ListPosts(db *gorm.DB, f PostFilter) ([]models.Post, Pagination, error) {
	q := db.Model(&models.Post{}).Scopes(activePosts)
	if f.Type != "" && f.Type != "all" {
		q = q.Where("type = ?", f.Type)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var posts []models.Post
	err := q.Scopes(withPostRelations, pageScope(f.Page, f.Limit, defaultPostPageSize)).
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return posts, newPagination(f.Page, f.Limit, defaultPostPageSize, total), nil
}

func GetPost(db *gorm.DB, id uuid.UUID) (*models.Post, error) {
	return loadPost(db.Scopes(activePosts), id)
}

func loadPost(db *gorm.DB, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := db.Scopes(withPostRelations).First(&post, "posts.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func CreatePost(db *gorm.DB, authorID uuid.UUID, post *models.Post) (*models.Post, error) {
	post.ID = uuid.Nil
	post.AuthorID = authorID
	post.IsActive = true
	if post.Type == "" {
		post.Type = "general"
	}
	if err := db.Create(post).Error; err != nil {
		return nil, err
	}
	return GetPost(db, post.ID)
}

// editablePost loads a post the requester may modify: its author, or an admin.
func editablePost(tx *gorm.DB, id uuid.UUID, requester *models.User) (*models.Post, error) {
	var post models.Post
	if err := tx.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.AuthorID != requester.ID && !requester.IsAdmin() {
		return nil, ErrNotAuthorized
	}
	return &post, nil
}

func UpdatePost(db *gorm.DB, id uuid.UUID, requester *models.User, in PostInput) (*models.Post, error) {
	post, err := editablePost(db, id, requester)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Content != nil {
		updates["content"] = *in.Content
	}
	if in.Image != nil {
		updates["image"] = *in.Image
	}
	if in.Type != nil {
		updates["type"] = *in.Type
	}
	if in.EventDate != nil {
		updates["event_date"] = in.EventDate.UTC()
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if len(updates) > 0 {
		if err := db.Model(post).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return loadPost(db, id)
}

func DeletePost(db *gorm.DB, id uuid.UUID, requester *models.User) error {
	return db.Transaction(func(tx *gorm.DB) error {
		post, err := editablePost(tx, id, requester)
		if err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}

func postExists(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Post{}).Scopes(activePosts).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}

func LikePost(db *gorm.DB, postID, userID uuid.UUID) ([]models.PostLike, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&models.PostLike{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyLiked
		}
		err := tx.Create(&models.PostLike{PostID: postID, UserID: userID}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyLiked
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return postLikes(db, postID)
}

func UnlikePost(db *gorm.DB, postID, userID uuid.UUID) ([]models.PostLike, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotLiked
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return postLikes(db, postID)
}

func postLikes(db *gorm.DB, postID uuid.UUID) ([]models.PostLike, error) {
	likes := []models.PostLike{}
	err := db.Where("post_id = ?", postID).Order("created_at asc").Find(&likes).Error
	return likes, err
}

// postComments returns comments newest first.
func postComments(db *gorm.DB, postID uuid.UUID) ([]models.PostComment, error) {
	comments := []models.PostComment{}
	err := db.Preload("User").Where("post_id = ?", postID).Order("created_at desc").Find(&comments).Error
	return comments, err
}

func AddComment(db *gorm.DB, postID, userID uuid.UUID, text string) ([]models.PostComment, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}
		return tx.Create(&models.PostComment{PostID: postID, UserID: userID, Text: text}).Error
	})
	if err != nil {
		return nil, err
	}
	return postComments(db, postID)
}

func DeleteComment(db *gorm.DB, postID, commentID uuid.UUID, requester *models.User) ([]models.PostComment, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}
		var comment models.PostComment
		if err := tx.First(&comment, "id = ? AND post_id = ?", commentID, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		if comment.UserID != requester.ID && !requester.IsAdmin() {
			return ErrNotAuthorized
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		return nil, err
	}
	return postComments(db, postID)
}

func CountUserPosts(db *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&models.Post{}).Where("author_id = ? AND is_active = ?", userID, true).Count(&count).Error
	return count, err
}
