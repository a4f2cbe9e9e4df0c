package calendar

import "context"

// StaticSource serves the built-in holiday table
type StaticSource struct {
	records []HolidayRecord
}

// NewStaticSource creates a source over the built-in table
func NewStaticSource() *StaticSource {
	return &StaticSource{records: builtinHolidays}
}

// NewStaticSourceFrom creates a source over a caller-supplied table
func NewStaticSourceFrom(records []HolidayRecord) *StaticSource {
	return &StaticSource{records: copyRecords(records)}
}

// Holidays returns the table; the year is irrelevant for recurring records
func (s *StaticSource) Holidays(ctx context.Context, year int) ([]HolidayRecord, error) {
	return copyRecords(s.records), nil
}

// Builtin returns a copy of the built-in table
func Builtin() []HolidayRecord {
	return copyRecords(builtinHolidays)
}

var builtinHolidays = []HolidayRecord{
	{Name: "New Year's Day", MonthDay: "01-01", Countries: []string{
		"US", "CA", "MX", "UK", "FR", "DE", "IT", "ES", "NL", "SE", "DK", "NO", "FI", "RU", "PL", "CZ", "AT", "CH",
		"JP", "KR", "CN", "HK", "SG", "TH", "AE", "ID", "PH", "MY", "TR", "AU", "NZ", "ZA", "NG", "KE",
		"BR", "AR", "PE", "CL", "CO",
	}},
	{Name: "Australia Day", MonthDay: "01-26", Countries: []string{"AU"}},
	{Name: "Republic Day", MonthDay: "01-26", Countries: []string{"IN"}},
	{Name: "National Foundation Day", MonthDay: "02-11", Countries: []string{"JP"}},
	{Name: "Independence Movement Day", MonthDay: "03-01", Countries: []string{"KR"}},
	{Name: "Anzac Day", MonthDay: "04-25", Countries: []string{"AU", "NZ"}},
	{Name: "Liberation Day", MonthDay: "04-25", Countries: []string{"IT"}},
	{Name: "Labour Day", MonthDay: "05-01", Countries: []string{
		"FR", "DE", "IT", "ES", "SE", "NO", "FI", "RU", "PL", "CZ", "AT", "CN", "HK", "SG", "TH", "MY", "PH",
		"ID", "TR", "EG", "ZA", "NG", "KE", "MX", "BR", "AR", "PE", "CL", "CO",
	}},
	{Name: "Constitution Day", MonthDay: "05-03", Countries: []string{"JP", "PL"}},
	{Name: "Victory Day", MonthDay: "05-09", Countries: []string{"RU"}},
	{Name: "Constitution Day", MonthDay: "05-17", Countries: []string{"NO"}},
	{Name: "National Day", MonthDay: "06-06", Countries: []string{"SE"}},
	{Name: "Canada Day", MonthDay: "07-01", Countries: []string{"CA"}},
	{Name: "Independence Day", MonthDay: "07-04", Countries: []string{"US"}},
	{Name: "Bastille Day", MonthDay: "07-14", Countries: []string{"FR"}},
	{Name: "Independence Day", MonthDay: "08-15", Countries: []string{"IN"}},
	{Name: "Assumption Day", MonthDay: "08-15", Countries: []string{"FR", "IT", "ES", "AT", "PL"}},
	{Name: "National Day", MonthDay: "10-01", Countries: []string{"CN"}},
	{Name: "Gandhi Jayanti", MonthDay: "10-02", Countries: []string{"IN"}},
	{Name: "German Unity Day", MonthDay: "10-03", Countries: []string{"DE"}},
	{Name: "National Foundation Day", MonthDay: "10-03", Countries: []string{"KR"}},
	{Name: "Veterans Day", MonthDay: "11-11", Countries: []string{"US"}},
	{Name: "Armistice Day", MonthDay: "11-11", Countries: []string{"FR"}},
	{Name: "Christmas Day", MonthDay: "12-25", Countries: []string{
		"US", "CA", "MX", "UK", "FR", "DE", "IT", "ES", "NL", "SE", "DK", "NO", "FI", "PL", "CZ", "AT", "CH",
		"HK", "SG", "IN", "PH", "MY", "ID", "AU", "NZ", "ZA", "NG", "KE", "BR", "AR", "PE", "CL", "CO",
	}},
	{Name: "Boxing Day", MonthDay: "12-26", Countries: []string{
		"UK", "CA", "AU", "NZ", "DE", "NL", "SE", "DK", "NO", "FI", "PL", "CZ", "AT", "CH", "HK", "ZA", "KE", "NG",
	}},
}
