package zones

// worldCities is the selectable catalogue. It is never mutated.
var worldCities = []TimeZoneRef{
	// North America
	{ID: "1", DisplayName: "New York", IANAZone: "America/New_York", Flag: "🇺🇸", Country: "United States", CountryCode: "US"},
	{ID: "2", DisplayName: "Los Angeles", IANAZone: "America/Los_Angeles", Flag: "🇺🇸", Country: "United States", CountryCode: "US"},
	{ID: "3", DisplayName: "Chicago", IANAZone: "America/Chicago", Flag: "🇺🇸", Country: "United States", CountryCode: "US"},
	{ID: "4", DisplayName: "Denver", IANAZone: "America/Denver", Flag: "🇺🇸", Country: "United States", CountryCode: "US"},
	{ID: "5", DisplayName: "Toronto", IANAZone: "America/Toronto", Flag: "🇨🇦", Country: "Canada", CountryCode: "CA"},
	{ID: "6", DisplayName: "Vancouver", IANAZone: "America/Vancouver", Flag: "🇨🇦", Country: "Canada", CountryCode: "CA"},
	{ID: "7", DisplayName: "Mexico City", IANAZone: "America/Mexico_City", Flag: "🇲🇽", Country: "Mexico", CountryCode: "MX"},

	// Europe
	{ID: "8", DisplayName: "London", IANAZone: "Europe/London", Flag: "🇬🇧", Country: "United Kingdom", CountryCode: "UK"},
	{ID: "9", DisplayName: "Paris", IANAZone: "Europe/Paris", Flag: "🇫🇷", Country: "France", CountryCode: "FR"},
	{ID: "10", DisplayName: "Berlin", IANAZone: "Europe/Berlin", Flag: "🇩🇪", Country: "Germany", CountryCode: "DE"},
	{ID: "11", DisplayName: "Rome", IANAZone: "Europe/Rome", Flag: "🇮🇹", Country: "Italy", CountryCode: "IT"},
	{ID: "12", DisplayName: "Madrid", IANAZone: "Europe/Madrid", Flag: "🇪🇸", Country: "Spain", CountryCode: "ES"},
	{ID: "13", DisplayName: "Amsterdam", IANAZone: "Europe/Amsterdam", Flag: "🇳🇱", Country: "Netherlands", CountryCode: "NL"},
	{ID: "14", DisplayName: "Stockholm", IANAZone: "Europe/Stockholm", Flag: "🇸🇪", Country: "Sweden", CountryCode: "SE"},
	{ID: "15", DisplayName: "Copenhagen", IANAZone: "Europe/Copenhagen", Flag: "🇩🇰", Country: "Denmark", CountryCode: "DK"},
	{ID: "16", DisplayName: "Oslo", IANAZone: "Europe/Oslo", Flag: "🇳🇴", Country: "Norway", CountryCode: "NO"},
	{ID: "17", DisplayName: "Helsinki", IANAZone: "Europe/Helsinki", Flag: "🇫🇮", Country: "Finland", CountryCode: "FI"},
	{ID: "18", DisplayName: "Moscow", IANAZone: "Europe/Moscow", Flag: "🇷🇺", Country: "Russia", CountryCode: "RU"},
	{ID: "19", DisplayName: "Warsaw", IANAZone: "Europe/Warsaw", Flag: "🇵🇱", Country: "Poland", CountryCode: "PL"},
	{ID: "20", DisplayName: "Prague", IANAZone: "Europe/Prague", Flag: "🇨🇿", Country: "Czech Republic", CountryCode: "CZ"},
	{ID: "21", DisplayName: "Vienna", IANAZone: "Europe/Vienna", Flag: "🇦🇹", Country: "Austria", CountryCode: "AT"},
	{ID: "22", DisplayName: "Zurich", IANAZone: "Europe/Zurich", Flag: "🇨🇭", Country: "Switzerland", CountryCode: "CH"},

	// Asia
	{ID: "23", DisplayName: "Tokyo", IANAZone: "Asia/Tokyo", Flag: "🇯🇵", Country: "Japan", CountryCode: "JP"},
	{ID: "24", DisplayName: "Seoul", IANAZone: "Asia/Seoul", Flag: "🇰🇷", Country: "South Korea", CountryCode: "KR"},
	{ID: "25", DisplayName: "Beijing", IANAZone: "Asia/Shanghai", Flag: "🇨🇳", Country: "China", CountryCode: "CN"},
	{ID: "26", DisplayName: "Shanghai", IANAZone: "Asia/Shanghai", Flag: "🇨🇳", Country: "China", CountryCode: "CN"},
	{ID: "27", DisplayName: "Hong Kong", IANAZone: "Asia/Hong_Kong", Flag: "🇭🇰", Country: "Hong Kong", CountryCode: "HK"},
	{ID: "28", DisplayName: "Singapore", IANAZone: "Asia/Singapore", Flag: "🇸🇬", Country: "Singapore", CountryCode: "SG"},
	{ID: "29", DisplayName: "Bangkok", IANAZone: "Asia/Bangkok", Flag: "🇹🇭", Country: "Thailand", CountryCode: "TH"},
	{ID: "30", DisplayName: "Mumbai", IANAZone: "Asia/Kolkata", Flag: "🇮🇳", Country: "India", CountryCode: "IN"},
	{ID: "31", DisplayName: "Delhi", IANAZone: "Asia/Kolkata", Flag: "🇮🇳", Country: "India", CountryCode: "IN"},
	{ID: "32", DisplayName: "Dubai", IANAZone: "Asia/Dubai", Flag: "🇦🇪", Country: "UAE", CountryCode: "AE"},
	{ID: "33", DisplayName: "Jakarta", IANAZone: "Asia/Jakarta", Flag: "🇮🇩", Country: "Indonesia", CountryCode: "ID"},
	{ID: "34", DisplayName: "Manila", IANAZone: "Asia/Manila", Flag: "🇵🇭", Country: "Philippines", CountryCode: "PH"},
	{ID: "35", DisplayName: "Kuala Lumpur", IANAZone: "Asia/Kuala_Lumpur", Flag: "🇲🇾", Country: "Malaysia", CountryCode: "MY"},
	{ID: "36", DisplayName: "Tel Aviv", IANAZone: "Asia/Jerusalem", Flag: "🇮🇱", Country: "Israel", CountryCode: "IL"},
	{ID: "37", DisplayName: "Istanbul", IANAZone: "Europe/Istanbul", Flag: "🇹🇷", Country: "Turkey", CountryCode: "TR"},

	// Australia & Oceania
	{ID: "38", DisplayName: "Sydney", IANAZone: "Australia/Sydney", Flag: "🇦🇺", Country: "Australia", CountryCode: "AU"},
	{ID: "39", DisplayName: "Melbourne", IANAZone: "Australia/Melbourne", Flag: "🇦🇺", Country: "Australia", CountryCode: "AU"},
	{ID: "40", DisplayName: "Perth", IANAZone: "Australia/Perth", Flag: "🇦🇺", Country: "Australia", CountryCode: "AU"},
	{ID: "41", DisplayName: "Auckland", IANAZone: "Pacific/Auckland", Flag: "🇳🇿", Country: "New Zealand", CountryCode: "NZ"},

	// Africa
	{ID: "42", DisplayName: "Cairo", IANAZone: "Africa/Cairo", Flag: "🇪🇬", Country: "Egypt", CountryCode: "EG"},
	{ID: "43", DisplayName: "Cape Town", IANAZone: "Africa/Johannesburg", Flag: "🇿🇦", Country: "South Africa", CountryCode: "ZA"},
	{ID: "44", DisplayName: "Lagos", IANAZone: "Africa/Lagos", Flag: "🇳🇬", Country: "Nigeria", CountryCode: "NG"},
	{ID: "45", DisplayName: "Nairobi", IANAZone: "Africa/Nairobi", Flag: "🇰🇪", Country: "Kenya", CountryCode: "KE"},

	// South America
	{ID: "46", DisplayName: "São Paulo", IANAZone: "America/Sao_Paulo", Flag: "🇧🇷", Country: "Brazil", CountryCode: "BR"},
	{ID: "47", DisplayName: "Buenos Aires", IANAZone: "America/Argentina/Buenos_Aires", Flag: "🇦🇷", Country: "Argentina", CountryCode: "AR"},
	{ID: "48", DisplayName: "Lima", IANAZone: "America/Lima", Flag: "🇵🇪", Country: "Peru", CountryCode: "PE"},
	{ID: "49", DisplayName: "Santiago", IANAZone: "America/Santiago", Flag: "🇨🇱", Country: "Chile", CountryCode: "CL"},
	{ID: "50", DisplayName: "Bogotá", IANAZone: "America/Bogota", Flag: "🇨🇴", Country: "Colombia", CountryCode: "CO"},
}

var defaultCityNames = []string{"New York", "London", "Tokyo"}
