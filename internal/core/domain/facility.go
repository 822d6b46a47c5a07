package domain

// FacilityType discriminates the facility variants.
type FacilityType string

const (
	TypeParking      FacilityType = "parking"
	TypeHotel        FacilityType = "hotel"
	TypeEmergency    FacilityType = "emergency"
	TypeTemple       FacilityType = "temple"
	TypeLostAndFound FacilityType = "lost_and_found"
	TypeGhat         FacilityType = "ghat"
	TypeAkhada       FacilityType = "akhada"
)

// FacilityTypes lists every concrete variant in display order.
var FacilityTypes = []FacilityType{
	TypeParking, TypeHotel, TypeEmergency, TypeTemple,
	TypeLostAndFound, TypeGhat, TypeAkhada,
}

// ParkingStatus is the derived state of a parking lot.
type ParkingStatus string

const (
	StatusNormal ParkingStatus = "normal"
	// StatusCrowded is set by the occupancy tick when the lot ratio
	// exceeds the crowding threshold.
	StatusCrowded ParkingStatus = "crowded"
	// StatusAlternative is only ever assigned by the crowding analysis,
	// never by the tick itself.
	StatusAlternative ParkingStatus = "alternative"
)

// EmergencyKind is the sub-type of an emergency facility.
type EmergencyKind string

const (
	KindHospital      EmergencyKind = "hospital"
	KindPolice        EmergencyKind = "police"
	KindFire          EmergencyKind = "fire"
	KindPoliceStation EmergencyKind = "police_station"
)

// ParkingInfo is the parking variant payload.
type ParkingInfo struct {
	Capacity  int           `json:"capacity"`
	Occupancy int           `json:"occupancy"`
	Status    ParkingStatus `json:"status"`
}

// Ratio returns occupancy as a fraction of capacity.
func (p ParkingInfo) Ratio() float64 {
	if p.Capacity <= 0 {
		return 0
	}
	return float64(p.Occupancy) / float64(p.Capacity)
}

// HotelInfo is the hotel variant payload. Distance is display-only text,
// not a computed value.
type HotelInfo struct {
	Amenities []string `json:"amenities"`
	Contact   string   `json:"contact"`
	Distance  string   `json:"distance"`
}

// EmergencyInfo is the emergency-service variant payload.
type EmergencyInfo struct {
	ServiceType EmergencyKind `json:"service_type"`
	Contact     string        `json:"contact"`
}

// TempleInfo is the temple variant payload.
type TempleInfo struct {
	Deity string `json:"deity"`
}

// LostAndFoundInfo is the lost-and-found variant payload.
type LostAndFoundInfo struct {
	Contact string `json:"contact"`
}

// GhatInfo is the ghat variant payload.
type GhatInfo struct {
	River string `json:"river"`
}

// AkhadaInfo is the akhada variant payload.
type AkhadaInfo struct {
	Sect string `json:"sect"`
}

// Facility is a point of interest on the event map. Type selects exactly
// one of the variant payloads; ID and Type are fixed for the lifetime of
// the process.
type Facility struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     FacilityType `json:"type"`
	Position Position     `json:"position"`

	Parking      *ParkingInfo      `json:"parking,omitempty"`
	Hotel        *HotelInfo        `json:"hotel,omitempty"`
	Emergency    *EmergencyInfo    `json:"emergency,omitempty"`
	Temple       *TempleInfo       `json:"temple,omitempty"`
	LostAndFound *LostAndFoundInfo `json:"lost_and_found,omitempty"`
	Ghat         *GhatInfo         `json:"ghat,omitempty"`
	Akhada       *AkhadaInfo       `json:"akhada,omitempty"`

	// Distance is a computed field for nearby queries, meters.
	Distance *float64 `json:"distance,omitempty"`
}

// IsPoliceStation reports whether the facility is an emergency service of
// the police_station sub-type (the synthetic filter pseudo-type).
func (f *Facility) IsPoliceStation() bool {
	return f.Type == TypeEmergency && f.Emergency != nil &&
		f.Emergency.ServiceType == KindPoliceStation
}

// ClampOccupancy bounds occ into [0, capacity].
func ClampOccupancy(occ, capacity int) int {
	if occ < 0 {
		return 0
	}
	if occ > capacity {
		return capacity
	}
	return occ
}

// WithParking returns a copy of the facility with a replaced parking
// payload. Occupancy is clamped on every mutation.
func (f Facility) WithParking(occupancy int, status ParkingStatus) Facility {
	if f.Parking == nil {
		return f
	}
	p := *f.Parking
	p.Occupancy = ClampOccupancy(occupancy, p.Capacity)
	p.Status = status
	f.Parking = &p
	return f
}
