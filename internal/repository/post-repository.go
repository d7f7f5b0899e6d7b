package repository

import (
	"errors"
	"log"

	"github.com/faceofmind/server/internal/domain"
	"gorm.io/gorm"
)

type PostRepository interface {
	CreatePost(post *domain.CommunityPost) (*domain.CommunityPost, error)
	FindPostByID(postID uint) (*domain.CommunityPost, error)
	ListPosts(limit, offset int) ([]domain.CommunityPost, error)
	SavePost(post *domain.CommunityPost) error
	DeletePost(post *domain.CommunityPost) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) CreatePost(post *domain.CommunityPost) (*domain.CommunityPost, error) {
	if post == nil {
		return nil, errors.New("nil post")
	}

	if err := r.db.Create(post).Error; err != nil {
		log.Printf("create post error: %v", err)
		return nil, errors.New("failed to create post")
	}
	return post, nil
}

func (r *postRepository) FindPostByID(postID uint) (*domain.CommunityPost, error) {
	post := &domain.CommunityPost{}

	if err := r.db.First(post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("find post error: %v", err)
		return nil, errors.New("failed to find post")
	}
	return post, nil
}

func (r *postRepository) ListPosts(limit, offset int) ([]domain.CommunityPost, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var posts []domain.CommunityPost
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		log.Printf("list posts error: %v", err)
		return nil, errors.New("failed to list posts")
	}
	return posts, nil
}

func (r *postRepository) SavePost(post *domain.CommunityPost) error {
	if post == nil {
		return errors.New("nil post")
	}

	if err := r.db.Save(post).Error; err != nil {
		log.Printf("save post error: %v", err)
		return errors.New("failed to save post")
	}
	return nil
}

func (r *postRepository) DeletePost(post *domain.CommunityPost) error {
	if post == nil {
		return errors.New("nil post")
	}

	// Comments go with the post.
	if err := r.db.Where("post_id = ?", post.ID).Delete(&domain.CommunityComment{}).Error; err != nil {
		log.Printf("delete post comments error: %v", err)
		return errors.New("failed to delete post")
	}
	if err := r.db.Delete(post).Error; err != nil {
		log.Printf("delete post error: %v", err)
		return errors.New("failed to delete post")
	}
	return nil
}
