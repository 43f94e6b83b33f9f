package geoloc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defesacivil/citizen_incident_system/pkg/geo"
)

func TestStaticProvider(t *testing.T) {
	p := Static(geo.Point{Lat: -8.0476, Lng: -34.8770})

	pt, err := p.Position(context.Background())
	require.NoError(t, err)
	assert.Equal(t, geo.Point{Lat: -8.0476, Lng: -34.8770}, pt)
}

func TestWithTimeout_FastProviderPassesThrough(t *testing.T) {
	p := WithTimeout(Static(geo.Point{Lat: 1, Lng: 2}), 50*time.Millisecond)

	pt, err := p.Position(context.Background())
	require.NoError(t, err)
	assert.Equal(t, geo.Point{Lat: 1, Lng: 2}, pt)
}

func TestWithTimeout_HangingProviderFailsWithTimeout(t *testing.T) {
	hanging := ProviderFunc(func(ctx context.Context) (geo.Point, error) {
		<-ctx.Done()
		return geo.Point{}, ctx.Err()
	})
	p := WithTimeout(hanging, 20*time.Millisecond)

	_, err := p.Position(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestWithTimeout_PermissionDeniedSurvivesWrapping(t *testing.T) {
	denied := ProviderFunc(func(context.Context) (geo.Point, error) {
		return geo.Point{}, ErrPermissionDenied
	})
	p := WithTimeout(denied, time.Second)

	_, err := p.Position(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(ErrPermissionDenied))
	assert.True(t, IsUnavailable(ErrUnavailable))
	assert.True(t, IsUnavailable(ErrTimeout))
	assert.False(t, IsUnavailable(context.Canceled))
	assert.False(t, IsUnavailable(nil))
}
