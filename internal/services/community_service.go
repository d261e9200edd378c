package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/straytracker/stray-tracker-backend/internal/dto"
	"github.com/straytracker/stray-tracker-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrBountyNotFound     = errors.New("bounty not found")
	ErrSuggestionNotFound = errors.New("name suggestion not found")
	ErrNotPostOwner       = errors.New("you can only remove your own posts")
)

type CommunityService struct {
	db *gorm.DB
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{db: db}
}

func (s *CommunityService) CreatePost(ctx context.Context, userID uuid.UUID, req *dto.CreatePostRequest) (*models.CommunityPost, error) {
	if req.Title == "" || req.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	if req.SightingID != nil {
		var sighting models.Sighting
		if err := s.db.WithContext(ctx).First(&sighting, *req.SightingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSightingNotFound
			}
			return nil, fmt.Errorf("load sighting: %w", err)
		}
	}
	if req.StrayID != nil {
		var stray models.Stray
		if err := s.db.WithContext(ctx).First(&stray, *req.StrayID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStrayNotFound
			}
			return nil, fmt.Errorf("load stray: %w", err)
		}
	}

	post := models.CommunityPost{
		UserID:     userID,
		SightingID: req.SightingID,
		StrayID:    req.StrayID,
		Title:      req.Title,
		Content:    req.Content,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

func (s *CommunityService) ListPosts(ctx context.Context, sightingID, strayID *uint, page dto.PageParams) ([]models.CommunityPost, error) {
	page = page.Normalize()
	q := s.db.WithContext(ctx).Model(&models.CommunityPost{}).Preload("User")
	if sightingID != nil {
		q = q.Where("sighting_id = ?", *sightingID)
	}
	if strayID != nil {
		q = q.Where("stray_id = ?", *strayID)
	}

	var posts []models.CommunityPost
	err := q.Order("created_at DESC").Limit(page.Limit).Offset(page.Offset).Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *CommunityService) GetPost(ctx context.Context, postID uint) (*models.CommunityPost, error) {
	var post models.CommunityPost
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments.User").
		Preload("Reactions").
		First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	return &post, nil
}

// DeletePost soft-deletes a post. Owner or moderator+.
func (s *CommunityService) DeletePost(ctx context.Context, postID uint, callerID uuid.UUID, callerRole string) error {
	var post models.CommunityPost
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("load post: %w", err)
	}
	if post.UserID != callerID && !models.RoleAtLeast(callerRole, models.RoleModerator) {
		return ErrNotPostOwner
	}
	return s.db.WithContext(ctx).Delete(&post).Error
}

func (s *CommunityService) AddComment(ctx context.Context, postID uint, userID uuid.UUID, content string) (*models.PostComment, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	var post models.CommunityPost
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	comment := models.PostComment{PostID: postID, UserID: userID, Content: content}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&post).UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

func (s *CommunityService) DeleteComment(ctx context.Context, commentID uint, callerID uuid.UUID, callerRole string) error {
	var comment models.PostComment
	if err := s.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("load comment: %w", err)
	}
	if comment.UserID != callerID && !models.RoleAtLeast(callerRole, models.RoleModerator) {
		return ErrNotPostOwner
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.CommunityPost{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error
	})
}

// ToggleReaction adds the emoji reaction, or removes it when it already exists.
func (s *CommunityService) ToggleReaction(ctx context.Context, postID uint, userID uuid.UUID, emoji string) (added bool, err error) {
	if emoji == "" {
		return false, fmt.Errorf("%w: emoji is required", ErrValidation)
	}

	var existing models.PostReaction
	err = s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ? AND emoji = ?", postID, userID, emoji).
		First(&existing).Error
	if err == nil {
		if err := s.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, fmt.Errorf("remove reaction: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("load reaction: %w", err)
	}

	reaction := models.PostReaction{PostID: postID, UserID: userID, Emoji: emoji}
	if err := s.db.WithContext(ctx).Create(&reaction).Error; err != nil {
		return false, fmt.Errorf("create reaction: %w", err)
	}
	return true, nil
}

// SuggestName proposes a name for a stray that hasn't been named yet.
func (s *CommunityService) SuggestName(ctx context.Context, strayID uint, userID uuid.UUID, name string) (*models.NameSuggestion, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	var stray models.Stray
	if err := s.db.WithContext(ctx).First(&stray, strayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStrayNotFound
		}
		return nil, fmt.Errorf("load stray: %w", err)
	}

	suggestion := models.NameSuggestion{StrayID: strayID, UserID: userID, Name: name}
	if err := s.db.WithContext(ctx).Create(&suggestion).Error; err != nil {
		return nil, fmt.Errorf("create name suggestion: %w", err)
	}
	return &suggestion, nil
}

func (s *CommunityService) VoteName(ctx context.Context, suggestionID uint) (*models.NameSuggestion, error) {
	var suggestion models.NameSuggestion
	if err := s.db.WithContext(ctx).First(&suggestion, suggestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("load name suggestion: %w", err)
	}
	err := s.db.WithContext(ctx).Model(&suggestion).
		UpdateColumn("vote_count", gorm.Expr("vote_count + 1")).Error
	if err != nil {
		return nil, fmt.Errorf("vote name suggestion: %w", err)
	}
	suggestion.VoteCount++
	return &suggestion, nil
}

func (s *CommunityService) ListNameSuggestions(ctx context.Context, strayID uint) ([]models.NameSuggestion, error) {
	var suggestions []models.NameSuggestion
	err := s.db.WithContext(ctx).
		Where("stray_id = ?", strayID).
		Order("vote_count DESC, created_at ASC").
		Find(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("list name suggestions: %w", err)
	}
	return suggestions, nil
}

func (s *CommunityService) CreateBounty(ctx context.Context, strayID uint, userID uuid.UUID, req *dto.CreateBountyRequest) (*models.Bounty, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	var stray models.Stray
	if err := s.db.WithContext(ctx).First(&stray, strayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStrayNotFound
		}
		return nil, fmt.Errorf("load stray: %w", err)
	}

	bounty := models.Bounty{
		StrayID: strayID,
		UserID:  userID,
		Amount:  req.Amount,
		Note:    req.Note,
		Status:  "open",
	}
	if err := s.db.WithContext(ctx).Create(&bounty).Error; err != nil {
		return nil, fmt.Errorf("create bounty: %w", err)
	}
	return &bounty, nil
}

func (s *CommunityService) ListBounties(ctx context.Context, strayID uint) ([]models.Bounty, error) {
	var bounties []models.Bounty
	err := s.db.WithContext(ctx).
		Where("stray_id = ?", strayID).
		Order("created_at DESC").
		Find(&bounties).Error
	if err != nil {
		return nil, fmt.Errorf("list bounties: %w", err)
	}
	return bounties, nil
}

// CloseBounty marks a bounty claimed or closed. Owner or moderator+.
func (s *CommunityService) CloseBounty(ctx context.Context, bountyID uint, callerID uuid.UUID, callerRole, status string) (*models.Bounty, error) {
	if status != "claimed" && status != "closed" {
		return nil, fmt.Errorf("%w: status must be claimed or closed", ErrValidation)
	}
	var bounty models.Bounty
	if err := s.db.WithContext(ctx).First(&bounty, bountyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBountyNotFound
		}
		return nil, fmt.Errorf("load bounty: %w", err)
	}
	if bounty.UserID != callerID && !models.RoleAtLeast(callerRole, models.RoleModerator) {
		return nil, ErrNotPostOwner
	}
	if err := s.db.WithContext(ctx).Model(&bounty).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update bounty: %w", err)
	}
	return &bounty, nil
}
