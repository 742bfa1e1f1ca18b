package weather

// cities is the fixed, ordered city list offered by the picker.
var cities = []CityEntry{
	{ID: "tokyo", DisplayName: "東京", QueryName: "Tokyo", Lat: 35.6895, Lon: 139.6917},
	{ID: "osaka", DisplayName: "大阪", QueryName: "Osaka", Lat: 34.6937, Lon: 135.5023},
	{ID: "yokohama", DisplayName: "横浜", QueryName: "Yokohama", Lat: 35.4437, Lon: 139.6380},
	{ID: "nagoya", DisplayName: "名古屋", QueryName: "Nagoya", Lat: 35.1815, Lon: 136.9066},
	{ID: "sapporo", DisplayName: "札幌", QueryName: "Sapporo", Lat: 43.0618, Lon: 141.3545},
	{ID: "fukuoka", DisplayName: "福岡", QueryName: "Fukuoka", Lat: 33.5904, Lon: 130.4017},
	{ID: "kyoto", DisplayName: "京都", QueryName: "Kyoto", Lat: 35.0116, Lon: 135.7681},
	{ID: "kobe", DisplayName: "神戸", QueryName: "Kobe", Lat: 34.6901, Lon: 135.1955},
	{ID: "sendai", DisplayName: "仙台", QueryName: "Sendai", Lat: 38.2682, Lon: 140.8694},
	{ID: "hiroshima", DisplayName: "広島", QueryName: "Hiroshima", Lat: 34.3853, Lon: 132.4553},
	{ID: "okinawa", DisplayName: "沖縄", QueryName: "Okinawa", Lat: 26.3344, Lon: 127.8056},
}

// Cities returns a copy of the catalog in display order.
func Cities() []CityEntry {
	out := make([]CityEntry, len(cities))
	copy(out, cities)
	return out
}

// LookupCity finds a catalog entry by its identifier.
func LookupCity(id string) (CityEntry, bool) {
	for _, c := range cities {
		if c.ID == id {
			return c, true
		}
	}
	return CityEntry{}, false
}
