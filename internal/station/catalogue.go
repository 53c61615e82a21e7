package station

import "github.com/kaipandu/pandu/backend-go/internal/models"

// defaultStations covers the Jabodetabek commuter line plus the main
// intercity stops served by the app.
var defaultStations = []models.Station{
	// Jakarta and Bekasi line
	{Name: "Gambir", Code: "GMR", Lat: -6.1761, Lng: 106.8310},
	{Name: "Pasar Senen", Code: "PSE", Lat: -6.1760, Lng: 106.8446},
	{Name: "Jatinegara", Code: "JNG", Lat: -6.2156, Lng: 106.8707},
	{Name: "Manggarai", Code: "MRI", Lat: -6.2107, Lng: 106.8503},
	{Name: "Cikini", Code: "CKI", Lat: -6.1967, Lng: 106.8378},
	{Name: "Gondangdia", Code: "GDD", Lat: -6.1853, Lng: 106.8351},
	{Name: "Klender Baru", Code: "KLB", Lat: -6.2168, Lng: 106.9217},
	{Name: "Cakung", Code: "CKG", Lat: -6.1751, Lng: 106.9486},
	{Name: "Kranji", Code: "KRJ", Lat: -6.1362, Lng: 107.0028},
	{Name: "Bekasi", Code: "BKS", Lat: -6.2368, Lng: 107.0012},
	{Name: "Bekasi Timur", Code: "BKT", Lat: -6.2447, Lng: 107.0243},
	{Name: "Tambun", Code: "TMB", Lat: -6.2645, Lng: 107.0505},
	{Name: "Cibitung", Code: "CBT", Lat: -6.2557, Lng: 107.0899},
	{Name: "Metland Telagamurni", Code: "MTM", Lat: -6.2650, Lng: 107.1350},
	{Name: "Cikarang", Code: "CKR", Lat: -6.2608, Lng: 107.1526},
	{Name: "Cipinang", Code: "CPN", Lat: -6.2168, Lng: 106.8787},

	// West Java
	{Name: "Purwakarta", Code: "PWK", Lat: -6.5569, Lng: 107.4437},
	{Name: "Bandung", Code: "BD", Lat: -6.9147, Lng: 107.6098},
	{Name: "Cirebon", Code: "CN", Lat: -6.7058, Lng: 108.5571},

	// Central Java and Yogyakarta
	{Name: "Semarang Tawang", Code: "SMT", Lat: -6.9672, Lng: 110.4215},
	{Name: "Solo Balapan", Code: "SLO", Lat: -7.5561, Lng: 110.8245},
	{Name: "Yogyakarta", Code: "YK", Lat: -7.7897, Lng: 110.3642},

	// East Java
	{Name: "Surabaya Gubeng", Code: "SGU", Lat: -7.2650, Lng: 112.7520},
	{Name: "Surabaya Pasarturi", Code: "SPT", Lat: -7.2407, Lng: 112.7341},
	{Name: "Malang", Code: "ML", Lat: -7.9785, Lng: 112.6304},
}

// DefaultStations returns a copy of the built-in catalogue
func DefaultStations() []models.Station {
	stations := make([]models.Station, len(defaultStations))
	copy(stations, defaultStations)
	return stations
}
