// utils/airports.go
package utils

import "strings"

// allCode is the portal's "every carrier / every airport" option, spelled in mixed case.
const allCode = "All"

// NormalizeAirportCode converts 4-letter US ICAO codes (e.g., "KJFK") to 3-letter codes ("JFK").
// Other codes are returned as is. Converts to uppercase.
func NormalizeAirportCode(code string) string {
	upperCode := strings.ToUpper(strings.TrimSpace(code))
	if upperCode == "ALL" {
		return allCode
	}
	if len(upperCode) == 4 && strings.HasPrefix(upperCode, "K") {
		return upperCode[1:]
	}
	return upperCode
}

// NormalizeAirlineCode uppercases a two-character carrier code ("dl" -> "DL").
func NormalizeAirlineCode(code string) string {
	upperCode := strings.ToUpper(strings.TrimSpace(code))
	if upperCode == "ALL" {
		return allCode
	}
	return upperCode
}
