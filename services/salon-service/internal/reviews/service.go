package reviews

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/outbox"
)

const (
	maxCommentLen  = 1000
	maxNameLen     = 100
	publicPageSize = 10
	adminPageSize  = 20
)

type Store interface {
	Insert(ctx context.Context, r model.Review, evt outbox.Event) error
	List(ctx context.Context, filter model.ReviewFilter, publicOnly bool) ([]model.Review, int, error)
	Update(ctx context.Context, id string, fn func(*model.Review)) (model.Review, error)
	Delete(ctx context.Context, id string) error
	// RatingCounts counts approved and published reviews per star rating.
	RatingCounts(ctx context.Context) (map[int]int, error)
}

type Service struct {
	store    Store
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger, validate: validator.New(), now: time.Now}
}

type CreateInput struct {
	Name    string
	Email   string
	Rating  float64
	Comment string
	Service string
	UserID  string
}

type submittedPayload struct {
	ReviewID string `json:"reviewId"`
	Rating   int    `json:"rating"`
	Service  string `json:"service,omitempty"`
	UserID   string `json:"userId,omitempty"`
}

// Create stores a review awaiting moderation. New reviews are published but
// not approved, so they stay hidden until an admin approves them.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Review, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Comment = strings.TrimSpace(in.Comment)
	in.Service = strings.TrimSpace(in.Service)

	if in.Name == "" || in.Email == "" || in.Comment == "" || in.Rating == 0 {
		return model.Review{}, apperr.Validation("name, email, rating and comment are required")
	}
	rating, err := checkRating(in.Rating)
	if err != nil {
		return model.Review{}, err
	}
	if utf8.RuneCountInString(in.Name) > maxNameLen {
		return model.Review{}, apperr.Validation("name must be at most %d characters", maxNameLen)
	}
	if err := s.validate.Var(in.Email, "email"); err != nil {
		return model.Review{}, apperr.Validation("email is not valid")
	}
	if utf8.RuneCountInString(in.Comment) > maxCommentLen {
		return model.Review{}, apperr.Validation("comment must be at most %d characters", maxCommentLen)
	}

	now := s.now().UTC()
	review := model.Review{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Email:       in.Email,
		Rating:      rating,
		Comment:     in.Comment,
		Service:     in.Service,
		UserID:      in.UserID,
		IsApproved:  false,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	evt, err := outbox.NewEvent("review", review.ID, outbox.EventReviewSubmitted, submittedPayload{
		ReviewID: review.ID,
		Rating:   review.Rating,
		Service:  review.Service,
		UserID:   review.UserID,
	})
	if err != nil {
		return model.Review{}, err
	}
	if err := s.store.Insert(ctx, review, evt); err != nil {
		return model.Review{}, err
	}
	s.logger.Info("review submitted", "review_id", review.ID, "rating", review.Rating)
	return review, nil
}

func checkRating(v float64) (int, error) {
	if v != math.Trunc(v) {
		return 0, apperr.Validation("rating must be a whole number between 1 and 5")
	}
	if v < 1 || v > 5 {
		return 0, apperr.Validation("rating must be between 1 and 5")
	}
	return int(v), nil
}

// ListPublic returns approved and published reviews, newest first, without
// contact details.
func (s *Service) ListPublic(ctx context.Context, page model.Page, service string) ([]model.PublicReview, model.ReviewPagination, error) {
	page = model.NewPage(page.Number, page.Size, publicPageSize)
	items, total, err := s.store.List(ctx, model.ReviewFilter{Service: strings.TrimSpace(service), Page: page}, true)
	if err != nil {
		return nil, model.ReviewPagination{}, err
	}
	out := make([]model.PublicReview, 0, len(items))
	for _, r := range items {
		if !r.Visible() {
			continue
		}
		out = append(out, r.Public())
	}
	return out, model.PaginateReviews(page, total), nil
}

func (s *Service) ListAll(ctx context.Context, filter model.ReviewFilter) ([]model.Review, model.ReviewPagination, error) {
	filter.Page = model.NewPage(filter.Page.Number, filter.Page.Size, adminPageSize)
	filter.Service = strings.TrimSpace(filter.Service)
	items, total, err := s.store.List(ctx, filter, false)
	if err != nil {
		return nil, model.ReviewPagination{}, err
	}
	if items == nil {
		items = []model.Review{}
	}
	return items, model.PaginateReviews(filter.Page, total), nil
}

type StatusInput struct {
	IsApproved  *bool
	IsPublished *bool
}

// SetStatus applies a partial moderation update.
func (s *Service) SetStatus(ctx context.Context, id string, in StatusInput) (model.Review, error) {
	if strings.TrimSpace(id) == "" {
		return model.Review{}, apperr.Validation("review id is required")
	}
	if in.IsApproved == nil && in.IsPublished == nil {
		return model.Review{}, apperr.Validation("isApproved or isPublished is required")
	}
	review, err := s.store.Update(ctx, id, func(r *model.Review) {
		if in.IsApproved != nil {
			r.IsApproved = *in.IsApproved
		}
		if in.IsPublished != nil {
			r.IsPublished = *in.IsPublished
		}
		r.UpdatedAt = s.now().UTC()
	})
	if err != nil {
		return model.Review{}, err
	}
	s.logger.Info("review moderated", "review_id", id, "approved", review.IsApproved, "published", review.IsPublished)
	return review, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Validation("review id is required")
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (model.ReviewStats, error) {
	counts, err := s.store.RatingCounts(ctx)
	if err != nil {
		return model.ReviewStats{}, err
	}
	return ComputeStats(counts), nil
}

// ComputeStats folds per-rating counts into summary statistics. Ratings
// outside 1..5 are ignored.
func ComputeStats(counts map[int]int) model.ReviewStats {
	var st model.ReviewStats
	sum := 0
	for rating, n := range counts {
		if rating < 1 || rating > 5 || n <= 0 {
			continue
		}
		st.TotalReviews += n
		sum += rating * n
		switch rating {
		case 5:
			st.FiveStars = n
		case 4:
			st.FourStars = n
		case 3:
			st.ThreeStars = n
		case 2:
			st.TwoStars = n
		case 1:
			st.OneStar = n
		}
	}
	if st.TotalReviews > 0 {
		st.AverageRating = math.Round(float64(sum)/float64(st.TotalReviews)*100) / 100
	}
	return st
}
