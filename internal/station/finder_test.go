package station

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaipandu/pandu/backend-go/internal/cache"
	"github.com/kaipandu/pandu/backend-go/internal/config"
	"github.com/kaipandu/pandu/backend-go/internal/geo"
	"github.com/kaipandu/pandu/backend-go/internal/models"
)

type mockS3Cache struct {
	getStationsFunc  func(context.Context) ([]models.Station, error)
	saveStationsFunc func(context.Context, []models.Station) error
	getCalls         int
}

func (m *mockS3Cache) GetStations(ctx context.Context) ([]models.Station, error) {
	m.getCalls++
	if m.getStationsFunc != nil {
		return m.getStationsFunc(ctx)
	}
	return nil, nil
}

func (m *mockS3Cache) SaveStations(ctx context.Context, stations []models.Station) error {
	if m.saveStationsFunc != nil {
		return m.saveStationsFunc(ctx, stations)
	}
	return nil
}

var (
	gambir  = models.Location{Lat: -6.1761, Lng: 106.8310}
	bandung = models.Location{Lat: -6.9147, Lng: 107.6098}
)

func TestFindNearestStations(t *testing.T) {
	finder := NewFinder(nil)

	stations, err := finder.FindNearestStations(context.Background(), gambir, 5)
	require.NoError(t, err)
	require.Len(t, stations, 5)

	assert.Equal(t, "GMR", stations[0].Code)
	assert.InDelta(t, 0, stations[0].DistanceKm, 1e-9)
	for i := 1; i < len(stations); i++ {
		assert.LessOrEqual(t, stations[i-1].DistanceKm, stations[i].DistanceKm)
	}
	for _, s := range stations {
		assert.Contains(t, s.MapsURL, "https://www.google.com/maps/dir/?")
	}
}

func TestFindNearestStationsLimit(t *testing.T) {
	finder := NewFinder(nil)

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "default limit", limit: 0, want: 5},
		{name: "negative limit", limit: -3, want: 5},
		{name: "explicit limit", limit: 2, want: 2},
		{name: "limit above catalogue size", limit: 100, want: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stations, err := finder.FindNearestStations(context.Background(), bandung, tt.limit)
			require.NoError(t, err)
			assert.Len(t, stations, tt.want)
			assert.Equal(t, "BD", stations[0].Code)
		})
	}
}

func TestFindNearestStationsRejectsInvalidCoordinates(t *testing.T) {
	finder := NewFinder(nil)

	_, err := finder.FindNearestStations(context.Background(), models.Location{Lat: 91, Lng: 106.8}, 5)

	var coordErr *geo.InvalidCoordinatesError
	require.Error(t, err)
	assert.True(t, errors.As(err, &coordErr))
}

func TestFindStation(t *testing.T) {
	finder := NewFinder(nil)

	station, err := finder.FindStation(context.Background(), "gmr")
	require.NoError(t, err)
	require.NotNil(t, station)
	assert.Equal(t, "Gambir", station.Name)

	station, err = finder.FindStation(context.Background(), "XXX")
	require.NoError(t, err)
	assert.Nil(t, station)
}

func TestCheckPresence(t *testing.T) {
	finder := NewFinder(nil)

	tests := []struct {
		name        string
		loc         models.Location
		radiusKm    float64
		wantInArea  bool
		wantCurrent string
		wantNearest string
	}{
		{
			name:        "standing at Gambir",
			loc:         gambir,
			radiusKm:    0.5,
			wantInArea:  true,
			wantCurrent: "GMR",
			wantNearest: "GMR",
		},
		{
			name:        "two kilometres east of Bandung",
			loc:         models.Location{Lat: -6.9147, Lng: 107.6298},
			radiusKm:    0.5,
			wantInArea:  false,
			wantNearest: "BD",
		},
		{
			name:        "two kilometres east of Bandung with a wide radius",
			loc:         models.Location{Lat: -6.9147, Lng: 107.6298},
			radiusKm:    5,
			wantInArea:  true,
			wantCurrent: "BD",
			wantNearest: "BD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			presence, err := finder.CheckPresence(context.Background(), tt.loc, tt.radiusKm, 5)
			require.NoError(t, err)

			assert.Equal(t, tt.wantInArea, presence.InStationArea)
			assert.Equal(t, tt.loc, presence.Observer)
			assert.Equal(t, tt.radiusKm, presence.RadiusKm)
			assert.Equal(t, tt.wantInArea, geo.IsNearAnyStation(tt.loc, DefaultStations(), tt.radiusKm))
			require.NotEmpty(t, presence.Nearby)
			assert.Equal(t, tt.wantNearest, presence.Nearby[0].Code)
			if tt.wantCurrent == "" {
				assert.Nil(t, presence.CurrentStation)
			} else {
				require.NotNil(t, presence.CurrentStation)
				assert.Equal(t, tt.wantCurrent, presence.CurrentStation.Code)
			}
		})
	}
}

func TestCheckPresenceRejectsInvalidRadius(t *testing.T) {
	finder := NewFinder(nil)

	_, err := finder.CheckPresence(context.Background(), gambir, -1, 5)
	assert.ErrorIs(t, err, geo.ErrInvalidRadius)
}

func TestFinderUsesS3Catalogue(t *testing.T) {
	override := []models.Station{
		{Name: "Tanjung Priok", Code: "TPK", Lat: -6.1103, Lng: 106.8811},
		{Name: "Kampung Bandan", Code: "KPB", Lat: -6.1328, Lng: 106.8289},
	}
	s3Cache := &mockS3Cache{
		getStationsFunc: func(ctx context.Context) ([]models.Station, error) {
			return override, nil
		},
	}
	finder := NewFinder(cache.NewStationCache(time.Hour), WithS3Cache(s3Cache))

	stations, err := finder.FindNearestStations(context.Background(), gambir, 5)
	require.NoError(t, err)
	require.Len(t, stations, 2)
	assert.Equal(t, "KPB", stations[0].Code)

	station, err := finder.FindStation(context.Background(), "GMR")
	require.NoError(t, err)
	assert.Nil(t, station)

	assert.Equal(t, 1, s3Cache.getCalls, "memory cache should serve the second lookup")
}

func TestFinderFallsBackWhenS3Fails(t *testing.T) {
	s3Cache := &mockS3Cache{
		getStationsFunc: func(ctx context.Context) ([]models.Station, error) {
			return nil, errors.New("access denied")
		},
	}
	finder := NewFinder(nil, WithS3Cache(s3Cache))

	stations, err := finder.FindNearestStations(context.Background(), gambir, 1)
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "GMR", stations[0].Code)
}

func TestFinderSeedsEmptyS3Cache(t *testing.T) {
	saved := make(chan []models.Station, 1)
	s3Cache := &mockS3Cache{
		saveStationsFunc: func(ctx context.Context, stations []models.Station) error {
			saved <- stations
			return nil
		},
	}
	finder := NewFinder(nil, WithS3Cache(s3Cache))

	_, err := finder.FindStation(context.Background(), "GMR")
	require.NoError(t, err)

	select {
	case stations := <-saved:
		assert.Len(t, stations, len(DefaultStations()))
	case <-time.After(time.Second):
		t.Fatal("catalogue was not saved to S3")
	}
}

func TestFinderWithoutStations(t *testing.T) {
	finder := NewFinder(nil, WithCatalogue(nil))

	_, err := finder.FindNearestStations(context.Background(), gambir, 5)
	assert.Error(t, err)

	_, err = finder.FindStation(context.Background(), "GMR")
	assert.Error(t, err)
}

func TestFinderRankingCache(t *testing.T) {
	ranking, err := cache.NewRankingCache(&config.CacheConfig{RankingLRUSize: 10, RankingLRUTTLMinutes: 10})
	require.NoError(t, err)
	finder := NewFinder(nil, WithRankingCache(ranking))

	first, err := finder.FindNearestStations(context.Background(), gambir, 3)
	require.NoError(t, err)

	nearby := models.Location{Lat: gambir.Lat + 0.00002, Lng: gambir.Lng + 0.00002}
	second, err := finder.FindNearestStations(context.Background(), nearby, 3)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), ranking.GetCacheStats()["ranking_hits"])
	assert.Equal(t, first[0].Code, second[0].Code)
	assert.InDelta(t, geo.DistanceKm(nearby, gambir), second[0].DistanceKm, 1e-9)
	assert.NotEqual(t, first[0].DistanceKm, second[0].DistanceKm)
}

func TestFinderRankingCacheReranksWithinCell(t *testing.T) {
	stations := []models.Station{
		{Name: "Alpha", Code: "A", Lat: 0, Lng: 0},
		{Name: "Beta", Code: "B", Lat: 0, Lng: 0.0002},
	}
	first := models.Location{Lat: 0, Lng: 0.00009}
	second := models.Location{Lat: 0, Lng: 0.000109}
	require.Equal(t, cache.RankingKey(first), cache.RankingKey(second))

	ranking, err := cache.NewRankingCache(&config.CacheConfig{RankingLRUSize: 10, RankingLRUTTLMinutes: 10})
	require.NoError(t, err)
	finder := NewFinder(nil, WithCatalogue(stations), WithRankingCache(ranking))

	nearest, err := finder.FindNearestStations(context.Background(), first, 1)
	require.NoError(t, err)
	require.Len(t, nearest, 1)
	assert.Equal(t, "A", nearest[0].Code)

	nearest, err = finder.FindNearestStations(context.Background(), second, 1)
	require.NoError(t, err)
	require.Len(t, nearest, 1)
	assert.Equal(t, uint64(1), ranking.GetCacheStats()["ranking_hits"])
	assert.Equal(t, "B", nearest[0].Code)
	assert.InDelta(t, geo.DistanceKm(second, stations[1].Location()), nearest[0].DistanceKm, 1e-12)

	radius := 0.011
	require.True(t, geo.IsNearAnyStation(second, stations, radius))
	presence, err := finder.CheckPresence(context.Background(), second, radius, 1)
	require.NoError(t, err)
	assert.True(t, presence.InStationArea)
	require.NotNil(t, presence.CurrentStation)
	assert.Equal(t, "B", presence.CurrentStation.Code)
}
