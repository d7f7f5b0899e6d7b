package repository

import (
	"errors"
	"log"

	"github.com/faceofmind/server/internal/domain"
	"gorm.io/gorm"
)

type CommentRepository interface {
	CreateComment(comment *domain.CommunityComment) (*domain.CommunityComment, error)
	FindCommentByID(commentID uint) (*domain.CommunityComment, error)
	ListCommentsByPost(postID uint) ([]domain.CommunityComment, error)
	SaveComment(comment *domain.CommunityComment) error
	DeleteComment(comment *domain.CommunityComment) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) CreateComment(comment *domain.CommunityComment) (*domain.CommunityComment, error) {
	if comment == nil {
		return nil, errors.New("nil comment")
	}

	if err := r.db.Create(comment).Error; err != nil {
		log.Printf("create comment error: %v", err)
		return nil, errors.New("failed to create comment")
	}
	return comment, nil
}

func (r *commentRepository) FindCommentByID(commentID uint) (*domain.CommunityComment, error) {
	comment := &domain.CommunityComment{}

	if err := r.db.First(comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("find comment error: %v", err)
		return nil, errors.New("failed to find comment")
	}
	return comment, nil
}

func (r *commentRepository) ListCommentsByPost(postID uint) ([]domain.CommunityComment, error) {
	var comments []domain.CommunityComment
	err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	if err != nil {
		log.Printf("list comments error: %v", err)
		return nil, errors.New("failed to list comments")
	}
	return comments, nil
}

func (r *commentRepository) SaveComment(comment *domain.CommunityComment) error {
	if comment == nil {
		return errors.New("nil comment")
	}

	if err := r.db.Save(comment).Error; err != nil {
		log.Printf("save comment error: %v", err)
		return errors.New("failed to save comment")
	}
	return nil
}

func (r *commentRepository) DeleteComment(comment *domain.CommunityComment) error {
	if comment == nil {
		return errors.New("nil comment")
	}

	if err := r.db.Delete(comment).Error; err != nil {
		log.Printf("delete comment error: %v", err)
		return errors.New("failed to delete comment")
	}
	return nil
}
