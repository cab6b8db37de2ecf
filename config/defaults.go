// config/defaults.go
package config

import (
	"sort"
	"strings"
)

const (
	DefaultLandingURL = "https://www.transtats.bts.gov/Data_Elements.aspx?%2fData=2"
	DefaultSubmitURL  = "https://www.transtats.bts.gov/Data_Elements.aspx?Data=2"
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

// CodeTables holds the airline and airport codes accepted by the Data Elements form.
// Airlines maps a carrier code to the name used for its output directory.
type CodeTables struct {
	Airlines map[string]string `yaml:"airlines"`
	Airports []string          `yaml:"airports"`
}

// AirlineName returns the directory name of an airline code.
func (t CodeTables) AirlineName(code string) (string, bool) {
	name, ok := t.Airlines[code]
	return name, ok
}

// HasAirport reports whether code is in the airport table.
func (t CodeTables) HasAirport(code string) bool {
	for _, a := range t.Airports {
		if strings.EqualFold(a, code) {
			return true
		}
	}
	return false
}

// AirlineCodes returns the airline codes sorted alphabetically.
func (t CodeTables) AirlineCodes() []string {
	codes := make([]string, 0, len(t.Airlines))
	for code := range t.Airlines {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DefaultCodeTables returns the carriers and airports offered by the portal form.
func DefaultCodeTables() CodeTables {
	return CodeTables{
		Airlines: map[string]string{
			"All": "All",
			"AS":  "Alaska_Airlines",
			"G4":  "Allegient_Air",
			"AA":  "American_Airlines",
			"5Y":  "Atlas_Air",
			"DL":  "Delta_Airlines",
			"MQ":  "Envoy_Air",
			"EV":  "ExpressJet",
			"F9":  "Frontier_Airlines",
			"HA":  "Hawaiian_Airlines",
			"B6":  "JetBlue_Airways",
			"OO":  "SkyWest_Airlines",
			"WN":  "Southwest_Airlines",
			"NK":  "Spirit_Airlines",
			"UA":  "United_Airlines",
			"VX":  "Virgin_America",
		},
		Airports: []string{
			"All", "ATL", "BWI", "BOS", "CLT", "MDW", "ORD", "DAL", "DFW", "DEN",
			"DTW", "FLL", "IAH", "LAS", "LAX", "MIA", "MSP", "JFK", "LGA",
			"EWR", "MCO", "PHL", "PHX", "PDX", "SLC", "SAN", "SFO", "SEA",
			"TPA", "DCA", "IAD",
		},
	}
}

// Default returns a configuration that works without any file: live portal URLs,
// CSV output under ./aviation_data and no database.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "aviation_data/airtraffic.db",
			Host:   "localhost",
			Port:   "3306",
		},
		Portal: PortalConfig{
			LandingURL:        DefaultLandingURL,
			SubmitURL:         DefaultSubmitURL,
			UserAgent:         DefaultUserAgent,
			RequestTimeoutStr: "30s",
			SubmitIntervalStr: "500ms",
		},
		Output: OutputConfig{
			DataDir: "aviation_data",
			Format:  "csv",
		},
		Codes: DefaultCodeTables(),
		Refresh: RefreshConfig{
			Concurrency: 2,
		},
		Cache: CacheConfig{TTLStr: "1h"},
	}
}
