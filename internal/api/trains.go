package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nhle/trainadmin/internal/model"
)

var errEmptyID = errors.New("train id must not be empty")

// TrainService is the remote train collaborator.
type TrainService struct {
	client *Client
}

// NewTrainService creates a train service on top of client.
func NewTrainService(client *Client) *TrainService {
	return &TrainService{client: client}
}

// List returns every train known to the backend.
func (s *TrainService) List(ctx context.Context) ([]model.Train, error) {
	var trains []model.Train
	err := s.client.do(ctx, request{
		method:   http.MethodGet,
		path:     "/trains",
		result:   &trains,
		fallback: "Failed to load trains",
	})
	if err != nil {
		return nil, fmt.Errorf("listing trains: %w", err)
	}
	return trains, nil
}

// Search returns the trains matching query.
func (s *TrainService) Search(ctx context.Context, query string) ([]model.Train, error) {
	var trains []model.Train
	err := s.client.do(ctx, request{
		method:   http.MethodGet,
		path:     "/trains/search",
		query:    map[string]string{"query": query},
		result:   &trains,
		fallback: "Failed to search trains",
	})
	if err != nil {
		return nil, fmt.Errorf("searching trains for %q: %w", query, err)
	}
	return trains, nil
}

// Create stores a new train and returns it with its server-assigned ID.
func (s *TrainService) Create(ctx context.Context, draft model.CreateTrainDto) (model.Train, error) {
	var created model.Train
	err := s.client.do(ctx, request{
		method:   http.MethodPost,
		path:     "/trains",
		body:     draft,
		result:   &created,
		fallback: "Failed to create train",
	})
	if err != nil {
		return model.Train{}, fmt.Errorf("creating train: %w", err)
	}
	return created, nil
}

// Update applies patch to the train with the given id and returns the
// server's view of the record.
func (s *TrainService) Update(
	ctx context.Context,
	id string,
	patch model.UpdateTrainDto,
) (model.Train, error) {
	if id == "" {
		return model.Train{}, errEmptyID
	}
	var updated model.Train
	err := s.client.do(ctx, request{
		method:   http.MethodPatch,
		path:     "/trains/" + url.PathEscape(id),
		body:     patch,
		result:   &updated,
		fallback: "Failed to update train",
	})
	if err != nil {
		return model.Train{}, fmt.Errorf("updating train %s: %w", id, err)
	}
	return updated, nil
}
