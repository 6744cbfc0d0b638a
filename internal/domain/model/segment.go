// Package model defines the core domain entities for the fare calculation service:
// the priced itinerary graph (travel segments, fare components, pricing units,
// fare paths) consumed by the formatter, plus the display configuration records.
package model

import "time"

// SegmentKind discriminates the closed set of travel segment kinds.
type SegmentKind int

const (
	// SegmentAir is a flown air segment.
	SegmentAir SegmentKind = iota
	// SegmentArunk is an arrival-unknown gap between two air segments.
	SegmentArunk
	// SegmentSurface is a surface sector (ground transport between cities).
	SegmentSurface
	// SegmentOpen is an open (undated) segment.
	SegmentOpen
)

// String returns a short mnemonic for the segment kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentAir:
		return "AIR"
	case SegmentArunk:
		return "ARUNK"
	case SegmentSurface:
		return "SURFACE"
	case SegmentOpen:
		return "OPEN"
	}
	return "UNKNOWN"
}

// StopType expresses an explicit per-segment override entered by the agent.
type StopType int

const (
	// StopAuto means no override: connection vs stopover is computed.
	StopAuto StopType = iota
	// StopConnection forces the segment boundary to be a connection.
	StopConnection
	// StopStopover forces the segment boundary to be a stopover.
	StopStopover
)

// GeoTravelType classifies the geography of an itinerary or fare market.
type GeoTravelType int

const (
	GeoUnknown GeoTravelType = iota
	GeoDomestic
	GeoInternational
	GeoTransborder
	GeoForeignDomestic
)

// TravelSeg is one segment of the priced itinerary. Instances are built by the
// caller and treated as immutable by the formatter; identity (the ID field)
// keys all per-segment lookup maps.
type TravelSeg struct {
	ID   int         `json:"id"`
	Kind SegmentKind `json:"kind"`

	// Marketing carrier, empty for surface sectors.
	Carrier     string `json:"carrier,omitempty"`
	FlightNo    int    `json:"flight_no,omitempty"`
	BookingCode string `json:"booking_code,omitempty"`

	OrigAirport   string `json:"orig_airport"`
	DestAirport   string `json:"dest_airport"`
	BoardMultiCity string `json:"board_multi_city"`
	OffMultiCity   string `json:"off_multi_city"`

	Departure time.Time `json:"departure,omitempty"`
	Arrival   time.Time `json:"arrival,omitempty"`

	// Agent overrides.
	Stop           StopType `json:"stop,omitempty"`
	ForcedFareBrk  bool     `json:"forced_fare_break,omitempty"`
	GlobalDirOverride string `json:"global_dir_override,omitempty"`
}

// IsAir reports whether the segment is a flown air segment.
func (ts *TravelSeg) IsAir() bool { return ts.Kind == SegmentAir }

// Itin is the ordered itinerary a fare path covers.
type Itin struct {
	Segments      []*TravelSeg  `json:"segments"`
	GeoTravelType GeoTravelType `json:"geo_travel_type"`
	TravelDate    time.Time     `json:"travel_date,omitempty"`

	order map[int]int
}

// SegmentOrder returns the 1-based position of ts within the itinerary,
// or 0 when the segment does not belong to it.
func (it *Itin) SegmentOrder(ts *TravelSeg) int {
	if ts == nil {
		return 0
	}
	if it.order == nil {
		it.order = make(map[int]int, len(it.Segments))
		for i, s := range it.Segments {
			it.order[s.ID] = i + 1
		}
	}
	return it.order[ts.ID]
}

// LastSegment returns the final segment of the itinerary, or nil when empty.
func (it *Itin) LastSegment() *TravelSeg {
	if len(it.Segments) == 0 {
		return nil
	}
	return it.Segments[len(it.Segments)-1]
}
