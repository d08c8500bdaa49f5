package entity

// UnknownCondition is reported for weather codes outside the known table.
const UnknownCondition = "Unknown"

var conditionsByCode = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear, partly cloudy, and overcast",
	2:  "Mainly clear, partly cloudy, and overcast",
	3:  "Mainly clear, partly cloudy, and overcast",
	45: "Fog and depositing rime fog",
	48: "Fog and depositing rime fog",
	51: "Drizzle: Light, moderate, and dense intensity",
	53: "Drizzle: Light, moderate, and dense intensity",
	55: "Drizzle: Light, moderate, and dense intensity",
	61: "Rain: Slight, moderate and heavy intensity",
	63: "Rain: Slight, moderate and heavy intensity",
	65: "Rain: Slight, moderate and heavy intensity",
	71: "Snow fall: Slight, moderate, and heavy intensity",
	73: "Snow fall: Slight, moderate, and heavy intensity",
	75: "Snow fall: Slight, moderate, and heavy intensity",
	95: "Thunderstorm: Slight or moderate",
	96: "Thunderstorm with slight and heavy hail",
	99: "Thunderstorm with slight and heavy hail",
}

// ConditionFromCode maps a WMO weather code to its description.
func ConditionFromCode(code int) string {
	if condition, ok := conditionsByCode[code]; ok {
		return condition
	}
	return UnknownCondition
}
