package station

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/cache"
	"github.com/kaipandu/pandu/backend-go/internal/geo"
	"github.com/kaipandu/pandu/backend-go/internal/models"
)

const defaultLimit = 5

type FinderOption func(*Finder)

// WithS3Cache loads the catalogue from S3 before falling back to the built-in list
func WithS3Cache(s3Cache cache.StationListCacheProvider) FinderOption {
	return func(f *Finder) {
		f.s3Cache = s3Cache
	}
}

func WithRankingCache(ranking *cache.RankingCache) FinderOption {
	return func(f *Finder) {
		f.ranking = ranking
	}
}

// WithCatalogue replaces the built-in station list
func WithCatalogue(stations []models.Station) FinderOption {
	return func(f *Finder) {
		f.catalogue = stations
	}
}

// Finder resolves stations near an observer. The station list is read from
// memory, then S3, then the built-in catalogue.
type Finder struct {
	memCache  *cache.StationCache
	s3Cache   cache.StationListCacheProvider
	ranking   *cache.RankingCache
	catalogue []models.Station
}

var _ models.StationFinder = (*Finder)(nil)

func NewFinder(memCache *cache.StationCache, opts ...FinderOption) *Finder {
	if memCache == nil {
		memCache = cache.NewStationCache(0)
	}

	f := &Finder{
		memCache:  memCache,
		catalogue: DefaultStations(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindNearestStations returns up to limit stations nearest to loc, each with a
// directions link. A non-positive limit means 5.
func (f *Finder) FindNearestStations(ctx context.Context, loc models.Location, limit int) ([]models.RankedStation, error) {
	if err := geo.ValidateLocation(loc); err != nil {
		return nil, err
	}

	ranked, err := f.rank(ctx, loc)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}

	// Cached rankings are shared by every observer in the same cell, so the
	// whole list is re-ranked for loc before it is cut.
	result := make([]models.RankedStation, len(ranked))
	copy(result, ranked)
	for i := range result {
		result[i].DistanceKm = geo.DistanceKm(loc, result[i].Location())
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DistanceKm < result[j].DistanceKm
	})
	return result[:limit], nil
}

// FindStation looks a station up by code, case-insensitively. It returns nil
// without error when no station matches.
func (f *Finder) FindStation(ctx context.Context, code string) (*models.Station, error) {
	stations, err := f.getStationList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}

	for _, station := range stations {
		if strings.EqualFold(station.Code, code) {
			found := station
			return &found, nil
		}
	}

	log.Debug().Str("code", code).Msg("Station not found")
	return nil, nil
}

// CheckPresence reports whether loc lies within radiusKm of the nearest
// station, together with the limit nearest stations.
func (f *Finder) CheckPresence(ctx context.Context, loc models.Location, radiusKm float64, limit int) (*models.StationPresence, error) {
	if !geo.ValidRadius(radiusKm) {
		return nil, fmt.Errorf("checking presence: %w: %v", geo.ErrInvalidRadius, radiusKm)
	}

	nearby, err := f.FindNearestStations(ctx, loc, limit)
	if err != nil {
		return nil, err
	}

	presence := &models.StationPresence{
		Observer: loc,
		RadiusKm: radiusKm,
		Nearby:   nearby,
	}
	if len(nearby) > 0 && nearby[0].DistanceKm <= radiusKm {
		current := nearby[0]
		presence.InStationArea = true
		presence.CurrentStation = &current
	}

	log.Debug().
		Float64("lat", loc.Lat).
		Float64("lng", loc.Lng).
		Float64("radius_km", radiusKm).
		Bool("in_station_area", presence.InStationArea).
		Msg("Checked station presence")

	return presence, nil
}

func (f *Finder) rank(ctx context.Context, loc models.Location) ([]models.RankedStation, error) {
	if f.ranking != nil {
		if ranked, ok := f.ranking.Get(loc); ok {
			log.Debug().Str("key", cache.RankingKey(loc)).Msg("Ranking cache HIT")
			return ranked, nil
		}
	}

	stations, err := f.getStationList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}

	ranked := geo.RankStations(loc, stations)
	for i := range ranked {
		ranked[i].MapsURL = geo.MapsDirectionsURL(ranked[i].Station)
	}

	if f.ranking != nil {
		f.ranking.Add(loc, ranked)
	}
	return ranked, nil
}

func (f *Finder) getStationList(ctx context.Context) ([]models.Station, error) {
	if stations := f.memCache.GetStations(); stations != nil {
		log.Debug().Msg("Memory cache HIT for station list")
		return stations, nil
	}

	seedS3 := false
	if f.s3Cache != nil {
		stations, err := f.s3Cache.GetStations(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Error getting stations from S3 cache")
		} else if len(stations) > 0 {
			log.Debug().Int("station_count", len(stations)).Msg("S3 cache HIT for station list")
			f.setStations(stations)
			return stations, nil
		} else {
			seedS3 = true
		}
	}

	if len(f.catalogue) == 0 {
		return nil, fmt.Errorf("no stations configured")
	}

	log.Debug().Int("station_count", len(f.catalogue)).Msg("Using built-in station catalogue")
	f.setStations(f.catalogue)

	if seedS3 {
		stations := f.catalogue
		go func() {
			if err := f.s3Cache.SaveStations(context.Background(), stations); err != nil {
				log.Error().Err(err).Msg("Error saving station catalogue to S3")
			}
		}()
	}
	return f.catalogue, nil
}

func (f *Finder) setStations(stations []models.Station) {
	f.memCache.SetStations(stations)
	if f.ranking != nil {
		f.ranking.Clear()
	}
}
