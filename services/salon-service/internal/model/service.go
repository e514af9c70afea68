package model

import "time"

// Service is an item of the salon's catalog, e.g. a haircut.
type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       Money     `json:"price"`
	Duration    int       `json:"duration"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ServiceSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

func (s Service) Summary() ServiceSummary {
	return ServiceSummary{ID: s.ID, Name: s.Name, Price: s.Price}
}
