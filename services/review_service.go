package services

import (
	"context"
	"fmt"

	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/policy"
	"github.com/learnhub-platform/learnhub-api/utils/validation"
	"gorm.io/gorm"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type ReviewInput struct {
	StudentID uint
	CourseID  uint
	Rating    int
	Comment   *string
}

// ReviewAuthor is the public slice of a user shown next to a review.
type ReviewAuthor struct {
	ID            uint    `json:"id"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	ProfilePicURL *string `json:"profilePicUrl"`
}

type ReviewWithAuthor struct {
	model.Review
	User *ReviewAuthor `json:"user"`
}

// Create stores a review. Ratings are not range-checked and a student may review a course more than once.
func (s *ReviewService) Create(ctx context.Context, actor policy.Actor, in ReviewInput) (*model.Review, error) {
	if !policy.CanActForStudent(actor, in.StudentID) {
		return nil, ErrForbidden
	}

	review := &model.Review{
		StudentID: in.StudentID,
		CourseID:  in.CourseID,
		Rating:    in.Rating,
		Comment:   validation.SanitizeOptional(in.Comment),
	}
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

// ListForCourse returns reviews newest first with authors loaded in one query.
func (s *ReviewService) ListForCourse(ctx context.Context, courseID uint) ([]ReviewWithAuthor, error) {
	db := s.db.WithContext(ctx)

	var reviews []model.Review
	if err := db.Where("course_id = ?", courseID).Order("created_at DESC, id DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	seen := map[uint]bool{}
	studentIDs := make([]uint, 0, len(reviews))
	for _, r := range reviews {
		if !seen[r.StudentID] {
			seen[r.StudentID] = true
			studentIDs = append(studentIDs, r.StudentID)
		}
	}

	authors := map[uint]*ReviewAuthor{}
	if len(studentIDs) > 0 {
		var users []model.User
		if err := db.Select("id", "first_name", "last_name", "profile_pic_url").
			Where("id IN ?", studentIDs).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("failed to load review authors: %w", err)
		}
		for _, u := range users {
			authors[u.ID] = &ReviewAuthor{
				ID:            u.ID,
				FirstName:     u.FirstName,
				LastName:      u.LastName,
				ProfilePicURL: u.ProfilePicURL,
			}
		}
	}

	out := make([]ReviewWithAuthor, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewWithAuthor{Review: r, User: authors[r.StudentID]})
	}
	return out, nil
}
