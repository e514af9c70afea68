package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/palor/libs/auth"
	"github.com/md-rashed-zaman/palor/libs/httpx"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/reviews"
)

type ReviewService interface {
	Create(ctx context.Context, in reviews.CreateInput) (model.Review, error)
	ListPublic(ctx context.Context, page model.Page, service string) ([]model.PublicReview, model.ReviewPagination, error)
	ListAll(ctx context.Context, filter model.ReviewFilter) ([]model.Review, model.ReviewPagination, error)
	SetStatus(ctx context.Context, id string, in reviews.StatusInput) (model.Review, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (model.ReviewStats, error)
}

type ReviewHandler struct {
	svc    ReviewService
	logger *slog.Logger
}

func NewReviewHandler(svc ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, logger: logger}
}

type createReviewRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Email   string  `json:"email" validate:"required"`
	Rating  float64 `json:"rating" validate:"required"`
	Comment string  `json:"comment" validate:"required,max=1000"`
	Service string  `json:"service" validate:"max=100"`
}

type reviewStatusRequest struct {
	IsApproved  *bool `json:"isApproved"`
	IsPublished *bool `json:"isPublished"`
}

type publicReviewList struct {
	Reviews    []model.PublicReview   `json:"reviews"`
	Pagination model.ReviewPagination `json:"pagination"`
}

type reviewList struct {
	Reviews    []model.Review         `json:"reviews"`
	Pagination model.ReviewPagination `json:"pagination"`
}

// Create accepts anonymous reviews; a signed-in caller is linked by id.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	p, _ := auth.PrincipalFrom(r.Context())
	review, err := h.svc.Create(r.Context(), reviews.CreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Rating:  req.Rating,
		Comment: req.Comment,
		Service: req.Service,
		UserID:  p.UserID,
	})
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, review, "Review submitted successfully. It will be published after approval.")
}

func (h *ReviewHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	items, pg, err := h.svc.ListPublic(r.Context(), page, r.URL.Query().Get("service"))
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, publicReviewList{Reviews: items, Pagination: pg}, "Reviews retrieved successfully")
}

func (h *ReviewHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	approved, err := queryBool(r, "approved")
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	items, pg, err := h.svc.ListAll(r.Context(), model.ReviewFilter{
		Service:  r.URL.Query().Get("service"),
		Approved: approved,
		Page:     page,
	})
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, reviewList{Reviews: items, Pagination: pg}, "All reviews retrieved successfully")
}

func (h *ReviewHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req reviewStatusRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	review, err := h.svc.SetStatus(r.Context(), r.PathValue("id"), reviews.StatusInput{
		IsApproved:  req.IsApproved,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, review, "Review status updated successfully")
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, nil, "Review deleted successfully")
}

func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, st, "Review statistics retrieved successfully")
}
