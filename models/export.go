// models/export.go
package models

// MonthlyFlights is the nested value object of a JSON record.
// International is omitted entirely when international data was not requested.
type MonthlyFlights struct {
	Domestic      Count  `json:"domestic"`
	International *Count `json:"international,omitempty"`
}

// JSONRecord is one month of one airline/airport pair in the JSON export.
// Flights carries the primary (passenger) series; additional metrics go in Metrics.
type JSONRecord struct {
	Airport string                    `json:"airport"`
	Courier string                    `json:"courier"`
	Year    int                       `json:"year"`
	Month   int                       `json:"month"`
	Flights MonthlyFlights            `json:"flights"`
	Metrics map[Metric]MonthlyFlights `json:"metrics,omitempty"`
}

// CSVRow is the superset of CSV export columns. Columns absent from a file decode as missing.
type CSVRow struct {
	Date                    string `csv:"Date"`
	PassengersDomestic      Count  `csv:"Passengers_Domestic"`
	PassengersInternational Count  `csv:"Passengers_International"`
	FlightsDomestic         Count  `csv:"Flights_Domestic"`
	FlightsInternational    Count  `csv:"Flights_International"`
	RPMDomestic             Count  `csv:"RPM_Domestic"`
	RPMInternational        Count  `csv:"RPM_International"`
	ASMDomestic             Count  `csv:"ASM_Domestic"`
	ASMInternational        Count  `csv:"ASM_International"`
}

// Values returns the domestic and international values stored for m.
func (r CSVRow) Values(m Metric) (domestic, international Count) {
	switch m {
	case MetricPassengers:
		return r.PassengersDomestic, r.PassengersInternational
	case MetricFlights:
		return r.FlightsDomestic, r.FlightsInternational
	case MetricRPM:
		return r.RPMDomestic, r.RPMInternational
	case MetricASM:
		return r.ASMDomestic, r.ASMInternational
	}
	return Missing, Missing
}
