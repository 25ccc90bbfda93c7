package handlers

import (
	"ae-dashboard-service/internal/api/dto"
	"ae-dashboard-service/internal/domain"
	"ae-dashboard-service/internal/services"
)

func hospitalResponse(h domain.Hospital) dto.HospitalResponse {
	return dto.HospitalResponse{
		ID:       h.ID,
		Name:     h.Name,
		Address:  h.Address,
		Phone:    h.Phone,
		Fax:      h.Fax,
		Lat:      h.Coordinates.Lat,
		Lon:      h.Coordinates.Lon,
		District: h.District,
		Region:   h.Region,
		Cluster:  h.Cluster,
	}
}

func waitTimeResponse(e services.Entry) dto.WaitTimeResponse {
	return dto.WaitTimeResponse{
		HospitalID:   e.Hospital.ID,
		HospitalName: e.Hospital.Name,
		District:     e.Hospital.District,
		Region:       e.Hospital.Region,
		Lat:          e.Hospital.Coordinates.Lat,
		Lon:          e.Hospital.Coordinates.Lon,
		WaitText:     e.Record.WaitText,
		WaitMinutes:  e.Record.WaitMinutes,
		Severity:     string(e.Record.Severity),
		Source:       string(e.Record.Source),
		FetchedAt:    e.Record.FetchedAt,
	}
}

func waitTimeResponses(entries []services.Entry) []dto.WaitTimeResponse {
	out := make([]dto.WaitTimeResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, waitTimeResponse(e))
	}
	return out
}

func statsResponse(s services.Stats) dto.StatsResponse {
	bySeverity := make(map[string]int, len(s.BySeverity))
	for k, v := range s.BySeverity {
		bySeverity[string(k)] = v
	}

	return dto.StatsResponse{
		Count:           s.Count,
		AverageMinutes:  s.AverageMinutes,
		MedianMinutes:   s.MedianMinutes,
		ShortestMinutes: s.ShortestMinutes,
		LongestMinutes:  s.LongestMinutes,
		WithinHour:      s.WithinHour,
		OverThreeHours:  s.OverThreeHours,
		BySeverity:      bySeverity,
	}
}

func routeOptionResponse(o domain.RouteOption) dto.RouteOptionResponse {
	geometry := make([][]float64, 0, len(o.Geometry))
	for _, c := range o.Geometry {
		geometry = append(geometry, c.CoordsToList())
	}

	return dto.RouteOptionResponse{
		Name:                   o.Name,
		DistanceMeters:         o.DistanceMeters,
		DurationSeconds:        o.DurationSeconds,
		TypicalDurationSeconds: o.TypicalDurationSeconds,
		TrafficDelaySeconds:    o.TrafficDelaySeconds,
		Traffic:                string(o.Traffic),
		Geometry:               geometry,
	}
}

func routeResponse(res *domain.RouteResult, hospitalName string) dto.RouteResponse {
	alts := make([]dto.RouteOptionResponse, 0, len(res.Alternatives))
	for _, a := range res.Alternatives {
		alts = append(alts, routeOptionResponse(a))
	}

	return dto.RouteResponse{
		Origin:       res.Origin,
		OriginLat:    res.OriginCoordinates.Lat,
		OriginLon:    res.OriginCoordinates.Lon,
		HospitalID:   res.HospitalID,
		HospitalName: hospitalName,
		Mode:         string(res.Mode),
		Route:        routeOptionResponse(res.Route),
		Alternatives: alts,
		RequestedAt:  res.RequestedAt,
	}
}
