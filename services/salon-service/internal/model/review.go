package model

import "time"

type Review struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	Service     string    `json:"service,omitempty"`
	UserID      string    `json:"userId,omitempty"`
	IsApproved  bool      `json:"isApproved"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PublicReview is the only review shape served to anonymous callers.
type PublicReview struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Service   string    `json:"service,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r Review) Public() PublicReview {
	return PublicReview{
		ID:        r.ID,
		Name:      r.Name,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Service:   r.Service,
		CreatedAt: r.CreatedAt,
	}
}

// Visible reports whether anonymous callers may see the review.
func (r Review) Visible() bool {
	return r.IsApproved && r.IsPublished
}

type ReviewFilter struct {
	Service  string
	Approved *bool
	Page     Page
}

type ReviewStats struct {
	TotalReviews  int     `json:"totalReviews"`
	AverageRating float64 `json:"averageRating"`
	FiveStars     int     `json:"fiveStars"`
	FourStars     int     `json:"fourStars"`
	ThreeStars    int     `json:"threeStars"`
	TwoStars      int     `json:"twoStars"`
	OneStar       int     `json:"oneStar"`
}

// ReviewPagination is the paging block returned with review listings.
type ReviewPagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalReviews int  `json:"totalReviews"`
	HasNext      bool `json:"hasNext"`
	HasPrev      bool `json:"hasPrev"`
}

func PaginateReviews(p Page, total int) ReviewPagination {
	pg := Paginate(p, total)
	return ReviewPagination{
		CurrentPage:  pg.CurrentPage,
		TotalPages:   pg.TotalPages,
		TotalReviews: pg.TotalItems,
		HasNext:      pg.HasNext,
		HasPrev:      pg.HasPrev,
	}
}
