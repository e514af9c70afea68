package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore map[string]model.Service

func (m memStore) Insert(_ context.Context, s model.Service) error {
	m[s.ID] = s
	return nil
}

func (m memStore) Get(_ context.Context, id string) (model.Service, error) {
	s, ok := m[id]
	if !ok {
		return model.Service{}, apperr.NotFound("service not found")
	}
	return s, nil
}

func (m memStore) List(_ context.Context, activeOnly bool) ([]model.Service, error) {
	var out []model.Service
	for _, s := range m {
		if !activeOnly || s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m memStore) Update(ctx context.Context, id string, fn func(*model.Service) error) (model.Service, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return model.Service{}, err
	}
	if err := fn(&s); err != nil {
		return model.Service{}, err
	}
	m[id] = s
	return s, nil
}

func (m memStore) Delete(_ context.Context, id string) error {
	if _, ok := m[id]; !ok {
		return apperr.NotFound("service not found")
	}
	delete(m, id)
	return nil
}

func newTestService() *Service {
	return NewService(memStore{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreate_DefaultsActive(t *testing.T) {
	svc := newTestService()
	s, err := svc.Create(context.Background(), Input{Name: " Haircut ", Price: 4500, Duration: 45})
	require.NoError(t, err)
	assert.Equal(t, "Haircut", s.Name)
	assert.True(t, s.IsActive)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	for name, in := range map[string]Input{
		"no name":        {Price: 100, Duration: 30},
		"negative price": {Name: "Cut", Price: -1, Duration: 30},
		"zero duration":  {Name: "Cut", Price: 100},
	} {
		_, err := svc.Create(context.Background(), in)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), name)
	}
}

func TestToggleAndListActive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	s, err := svc.Create(ctx, Input{Name: "Perm", Price: 9000, Duration: 120})
	require.NoError(t, err)

	toggled, err := svc.ToggleActive(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdate_KeepsActiveWhenUnset(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	inactive := false
	s, err := svc.Create(ctx, Input{Name: "Perm", Price: 9000, Duration: 120, IsActive: &inactive})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, s.ID, Input{Name: "Perm deluxe", Price: 9900, Duration: 150})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, model.Money(9900), updated.Price)

	_, err = svc.Update(ctx, "missing", Input{Name: "x", Price: 1, Duration: 1})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
