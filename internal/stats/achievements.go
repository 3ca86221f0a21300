// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package stats

import "github.com/tomtom215/contravento/internal/models"

// Catalogue is the static list of achievements, ordered by metric and
// threshold.
var Catalogue = []models.Achievement{
	{Code: "first_trip", Name: "Primer viaje", Description: "Publica tu primer viaje", Metric: models.MetricTrips, Threshold: 1},
	{Code: "ten_trips", Name: "Viajero habitual", Description: "Publica 10 viajes", Metric: models.MetricTrips, Threshold: 10},
	{Code: "century", Name: "Centenario", Description: "Acumula 100 km en viajes publicados", Metric: models.MetricDistance, Threshold: 100},
	{Code: "thousand_km", Name: "Mil kilómetros", Description: "Acumula 1.000 km en viajes publicados", Metric: models.MetricDistance, Threshold: 1000},
	{Code: "five_thousand_km", Name: "Gran fondista", Description: "Acumula 5.000 km en viajes publicados", Metric: models.MetricDistance, Threshold: 5000},
	{Code: "photographer", Name: "Fotógrafo", Description: "Sube 50 fotos a viajes publicados", Metric: models.MetricPhotos, Threshold: 50},
	{Code: "influencer", Name: "Influencer", Description: "Consigue 100 seguidores", Metric: models.MetricFollowers, Threshold: 100},
}

var byCode = func() map[string]models.Achievement {
	m := make(map[string]models.Achievement, len(Catalogue))
	for _, a := range Catalogue {
		m[a.Code] = a
	}
	return m
}()

// Lookup returns the achievement with the given code.
func Lookup(code string) (models.Achievement, bool) {
	a, ok := byCode[code]
	return a, ok
}

// Reached reports whether s meets the threshold of a.
func Reached(a models.Achievement, s *models.UserStats) bool {
	var v float64
	switch a.Metric {
	case models.MetricTrips:
		v = float64(s.TripCount)
	case models.MetricDistance:
		v = s.TotalDistanceKm
	case models.MetricPhotos:
		v = float64(s.PhotoCount)
	case models.MetricFollowers:
		v = float64(s.FollowerCount)
	default:
		return false
	}
	return v >= a.Threshold
}
