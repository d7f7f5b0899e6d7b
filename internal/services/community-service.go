package services

import (
	"errors"
	"strings"
	"time"

	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/repository"
	"gorm.io/gorm"
)

type CommunityService interface {
	CreatePost(userID uint, content string) (*domain.CommunityPost, error)
	ListPosts(limit, offset int) ([]domain.CommunityPost, error)
	GetPost(postID uint) (*domain.CommunityPost, error)
	UpdatePost(userID, postID uint, content string) (*domain.CommunityPost, error)
	DeletePost(userID, postID uint, isAdmin bool) error

	CreateComment(userID, postID uint, content string) (*domain.CommunityComment, error)
	ListComments(postID uint) ([]domain.CommunityComment, error)
	UpdateComment(userID, commentID uint, content string) (*domain.CommunityComment, error)
	DeleteComment(userID, commentID uint, isAdmin bool) error
}

type communityService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
}

func NewCommunityService(posts repository.PostRepository, comments repository.CommentRepository) CommunityService {
	return &communityService{posts: posts, comments: comments}
}

func (c *communityService) CreatePost(userID uint, content string) (*domain.CommunityPost, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("content is required")
	}
	return c.posts.CreatePost(&domain.CommunityPost{
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
}

func (c *communityService) ListPosts(limit, offset int) ([]domain.CommunityPost, error) {
	return c.posts.ListPosts(limit, offset)
}

func (c *communityService) GetPost(postID uint) (*domain.CommunityPost, error) {
	post, err := c.posts.FindPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (c *communityService) UpdatePost(userID, postID uint, content string) (*domain.CommunityPost, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("content is required")
	}

	post, err := c.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}

	now := time.Now().UTC()
	post.Content = content
	post.UpdatedAt = &now
	if err := c.posts.SavePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (c *communityService) DeletePost(userID, postID uint, isAdmin bool) error {
	post, err := c.GetPost(postID)
	if err != nil {
		return err
	}
	if post.UserID != userID && !isAdmin {
		return ErrForbidden
	}
	return c.posts.DeletePost(post)
}

func (c *communityService) CreateComment(userID, postID uint, content string) (*domain.CommunityComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("content is required")
	}

	// Commenting on a missing post is a 404, not an orphan row.
	if _, err := c.GetPost(postID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return c.comments.CreateComment(&domain.CommunityComment{
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (c *communityService) ListComments(postID uint) ([]domain.CommunityComment, error) {
	if _, err := c.GetPost(postID); err != nil {
		return nil, err
	}
	return c.comments.ListCommentsByPost(postID)
}

func (c *communityService) UpdateComment(userID, commentID uint, content string) (*domain.CommunityComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("content is required")
	}

	comment, err := c.comments.FindCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if err := c.comments.SaveComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (c *communityService) DeleteComment(userID, commentID uint, isAdmin bool) error {
	comment, err := c.comments.FindCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if comment.UserID != userID && !isAdmin {
		return ErrForbidden
	}
	return c.comments.DeleteComment(comment)
}
