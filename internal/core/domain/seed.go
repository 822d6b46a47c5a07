package domain

// SeedFacilities returns the static Ujjain facility catalog. The registry
// is built from this once at startup; the identity set never changes at
// runtime, only parking occupancy and status do.
func SeedFacilities() []Facility {
	return []Facility{
		// Parking
		{ID: "park_1", Name: "Ramghat Parking", Type: TypeParking, Position: Position{Lat: 23.1843, Lng: 75.7668},
			Parking: &ParkingInfo{Capacity: 500, Occupancy: 450, Status: StatusNormal}},
		{ID: "park_2", Name: "Mahakal Temple Parking", Type: TypeParking, Position: Position{Lat: 23.1815, Lng: 75.7681},
			Parking: &ParkingInfo{Capacity: 800, Occupancy: 780, Status: StatusNormal}},
		{ID: "park_3", Name: "Nanakheda Bus Stand Parking", Type: TypeParking, Position: Position{Lat: 23.1728, Lng: 75.7954},
			Parking: &ParkingInfo{Capacity: 1200, Occupancy: 600, Status: StatusNormal}},
		{ID: "park_4", Name: "Triveni Mela Ground", Type: TypeParking, Position: Position{Lat: 23.1611, Lng: 75.7633},
			Parking: &ParkingInfo{Capacity: 2000, Occupancy: 1500, Status: StatusNormal}},
		{ID: "park_5", Name: "Ujjain Railway Station Parking", Type: TypeParking, Position: Position{Lat: 23.178, Lng: 75.785},
			Parking: &ParkingInfo{Capacity: 300, Occupancy: 150, Status: StatusNormal}},
		{ID: "park_6", Name: "Freeganj Parking", Type: TypeParking, Position: Position{Lat: 23.17, Lng: 75.78},
			Parking: &ParkingInfo{Capacity: 400, Occupancy: 200, Status: StatusNormal}},

		// Hotels
		{ID: "hotel_1", Name: "Anjushree Hotel", Type: TypeHotel, Position: Position{Lat: 23.1765, Lng: 75.7885},
			Hotel: &HotelInfo{Amenities: []string{"Wi-Fi", "Restaurant", "AC", "Pool"}, Contact: "+91-734-2557711", Distance: "2km"}},
		{ID: "hotel_2", Name: "Hotel Imperial", Type: TypeHotel, Position: Position{Lat: 23.1851, Lng: 75.7725},
			Hotel: &HotelInfo{Amenities: []string{"Wi-Fi", "AC", "Room Service"}, Contact: "+91-734-2560560", Distance: "1km"}},
		{ID: "hotel_3", Name: "Hotel Abika Elite", Type: TypeHotel, Position: Position{Lat: 23.168, Lng: 75.7901},
			Hotel: &HotelInfo{Amenities: []string{"Wi-Fi", "Restaurant", "Parking"}, Contact: "+91-91091-09121", Distance: "3km"}},
		{ID: "hotel_4", Name: "Hotel Shanti Palace", Type: TypeHotel, Position: Position{Lat: 23.180, Lng: 75.791},
			Hotel: &HotelInfo{Amenities: []string{"Wi-Fi", "Restaurant"}, Contact: "+91-734-4010100", Distance: "2.5km"}},
		{ID: "hotel_5", Name: "Hotel Atharva", Type: TypeHotel, Position: Position{Lat: 23.165, Lng: 75.788},
			Hotel: &HotelInfo{Amenities: []string{"Wi-Fi", "AC", "Parking"}, Contact: "+91-734-2533300", Distance: "3.5km"}},
		{ID: "hotel_6", Name: "Hotel Kalpana Palace", Type: TypeHotel, Position: Position{Lat: 23.183, Lng: 75.771},
			Hotel: &HotelInfo{Amenities: []string{"Room Service", "Parking"}, Contact: "+91-734-2553332", Distance: "0.8km"}},

		// Emergency services
		{ID: "emer_1", Name: "District Hospital", Type: TypeEmergency, Position: Position{Lat: 23.1789, Lng: 75.7752},
			Emergency: &EmergencyInfo{ServiceType: KindHospital, Contact: "102"}},
		{ID: "emer_2", Name: "Police Control Room", Type: TypeEmergency, Position: Position{Lat: 23.1820, Lng: 75.7801},
			Emergency: &EmergencyInfo{ServiceType: KindPolice, Contact: "100"}},
		{ID: "emer_3", Name: "Fire Station Ujjain", Type: TypeEmergency, Position: Position{Lat: 23.1751, Lng: 75.7702},
			Emergency: &EmergencyInfo{ServiceType: KindFire, Contact: "101"}},
		{ID: "emer_4", Name: "RD Gardi Medical College", Type: TypeEmergency, Position: Position{Lat: 23.201, Lng: 75.795},
			Emergency: &EmergencyInfo{ServiceType: KindHospital, Contact: "+91-734-4015000"}},
		{ID: "emer_5", Name: "Mahakal Police Station", Type: TypeEmergency, Position: Position{Lat: 23.1825, Lng: 75.7675},
			Emergency: &EmergencyInfo{ServiceType: KindPoliceStation, Contact: "100"}},
		{ID: "emer_6", Name: "Kotwali Police Station", Type: TypeEmergency, Position: Position{Lat: 23.1848, Lng: 75.7786},
			Emergency: &EmergencyInfo{ServiceType: KindPoliceStation, Contact: "100"}},
		{ID: "emer_7", Name: "Jiwajiganj Police Station", Type: TypeEmergency, Position: Position{Lat: 23.1901, Lng: 75.7723},
			Emergency: &EmergencyInfo{ServiceType: KindPoliceStation, Contact: "100"}},
		{ID: "emer_8", Name: "Madhav Nagar Hospital", Type: TypeEmergency, Position: Position{Lat: 23.1695, Lng: 75.7891},
			Emergency: &EmergencyInfo{ServiceType: KindHospital, Contact: "+91-734-2511255"}},
		{ID: "emer_9", Name: "Charak Hospital", Type: TypeEmergency, Position: Position{Lat: 23.1852, Lng: 75.7813},
			Emergency: &EmergencyInfo{ServiceType: KindHospital, Contact: "+91-734-2550525"}},

		// Temples
		{ID: "temple_1", Name: "Mahakaleshwar Temple", Type: TypeTemple, Position: Position{Lat: 23.1828, Lng: 75.7687},
			Temple: &TempleInfo{Deity: "Lord Shiva"}},
		{ID: "temple_2", Name: "Harsiddhi Temple", Type: TypeTemple, Position: Position{Lat: 23.1830, Lng: 75.7648},
			Temple: &TempleInfo{Deity: "Goddess Harsiddhi"}},
		{ID: "temple_3", Name: "Kal Bhairav Temple", Type: TypeTemple, Position: Position{Lat: 23.1950, Lng: 75.7533},
			Temple: &TempleInfo{Deity: "Lord Kal Bhairav"}},
		{ID: "temple_4", Name: "Chintaman Ganesh Temple", Type: TypeTemple, Position: Position{Lat: 23.1583, Lng: 75.7334},
			Temple: &TempleInfo{Deity: "Lord Ganesha"}},
		{ID: "temple_5", Name: "Mangalnath Temple", Type: TypeTemple, Position: Position{Lat: 23.2038, Lng: 75.7663},
			Temple: &TempleInfo{Deity: "Lord Shiva (Mangal)"}},
		{ID: "temple_6", Name: "Sandipani Ashram", Type: TypeTemple, Position: Position{Lat: 23.2017, Lng: 75.7725},
			Temple: &TempleInfo{Deity: "Guru Sandipani"}},

		// Lost & found centres
		{ID: "lost_1", Name: "Lost & Found Center - Ramghat", Type: TypeLostAndFound, Position: Position{Lat: 23.1840, Lng: 75.7670},
			LostAndFound: &LostAndFoundInfo{Contact: "100"}},
		{ID: "lost_2", Name: "Lost & Found Center - Mahakal Temple", Type: TypeLostAndFound, Position: Position{Lat: 23.1818, Lng: 75.7685},
			LostAndFound: &LostAndFoundInfo{Contact: "100"}},
		{ID: "lost_3", Name: "Lost & Found Center - Nanakheda", Type: TypeLostAndFound, Position: Position{Lat: 23.1730, Lng: 75.7950},
			LostAndFound: &LostAndFoundInfo{Contact: "100"}},
		{ID: "lost_4", Name: "Lost & Found Center - Triveni Mela", Type: TypeLostAndFound, Position: Position{Lat: 23.1615, Lng: 75.7635},
			LostAndFound: &LostAndFoundInfo{Contact: "100"}},
		{ID: "lost_5", Name: "Lost & Found Center - Harsiddhi", Type: TypeLostAndFound, Position: Position{Lat: 23.1832, Lng: 75.7650},
			LostAndFound: &LostAndFoundInfo{Contact: "100"}},
		{ID: "lost_6", Name: "Lost & Found Center - Railway Station", Type: TypeLostAndFound, Position: Position{Lat: 23.1782, Lng: 75.7852},
			LostAndFound: &LostAndFoundInfo{Contact: "100"}},

		// Ghats
		{ID: "ghat_1", Name: "Ram Ghat", Type: TypeGhat, Position: Position{Lat: 23.1855, Lng: 75.7659},
			Ghat: &GhatInfo{River: "Shipra"}},
		{ID: "ghat_2", Name: "Datta Akhara Ghat", Type: TypeGhat, Position: Position{Lat: 23.1865, Lng: 75.7645},
			Ghat: &GhatInfo{River: "Shipra"}},
		{ID: "ghat_3", Name: "Narsingh Ghat", Type: TypeGhat, Position: Position{Lat: 23.1880, Lng: 75.7638},
			Ghat: &GhatInfo{River: "Shipra"}},
		{ID: "ghat_4", Name: "Siddhwat Ghat", Type: TypeGhat, Position: Position{Lat: 23.2081, Lng: 75.7502},
			Ghat: &GhatInfo{River: "Shipra"}},
		{ID: "ghat_5", Name: "Mangalnath Ghat", Type: TypeGhat, Position: Position{Lat: 23.2040, Lng: 75.7660},
			Ghat: &GhatInfo{River: "Shipra"}},
		{ID: "ghat_6", Name: "Triveni Ghat", Type: TypeGhat, Position: Position{Lat: 23.1600, Lng: 75.7620},
			Ghat: &GhatInfo{River: "Shipra"}},

		// Akhadas
		{ID: "akhada_1", Name: "Juna Akhada", Type: TypeAkhada, Position: Position{Lat: 23.1870, Lng: 75.7630},
			Akhada: &AkhadaInfo{Sect: "Shaiva"}},
		{ID: "akhada_2", Name: "Niranjani Akhada", Type: TypeAkhada, Position: Position{Lat: 23.1880, Lng: 75.7620},
			Akhada: &AkhadaInfo{Sect: "Shaiva"}},
		{ID: "akhada_3", Name: "Mahanirvani Akhada", Type: TypeAkhada, Position: Position{Lat: 23.182, Lng: 75.763},
			Akhada: &AkhadaInfo{Sect: "Shaiva"}},
		{ID: "akhada_4", Name: "Atal Akhada", Type: TypeAkhada, Position: Position{Lat: 23.181, Lng: 75.764},
			Akhada: &AkhadaInfo{Sect: "Shaiva"}},
		{ID: "akhada_5", Name: "Avahan Akhada", Type: TypeAkhada, Position: Position{Lat: 23.189, Lng: 75.761},
			Akhada: &AkhadaInfo{Sect: "Shaiva"}},
		{ID: "akhada_6", Name: "Nirmal Akhada", Type: TypeAkhada, Position: Position{Lat: 23.190, Lng: 75.760},
			Akhada: &AkhadaInfo{Sect: "Sikh"}},
	}
}
