package store

import "sort"

var dayOrder = map[string]int{
	"Monday":    0,
	"Tuesday":   1,
	"Wednesday": 2,
	"Thursday":  3,
	"Friday":    4,
	"Saturday":  5,
	"Sunday":    6,
}

const unknownDay = 7

// DayRank is the position of day in a Monday-first week; unrecognized days rank after Sunday.
func DayRank(day string) int {
	if rank, ok := dayOrder[day]; ok {
		return rank
	}
	return unknownDay
}

// SortOpeningHours orders hours Monday to Sunday in place, keeping unknown
// days last in their original order.
func SortOpeningHours(hours []OpeningHours) {
	sort.SliceStable(hours, func(i, j int) bool {
		return DayRank(hours[i].DayOfWeek) < DayRank(hours[j].DayOfWeek)
	})
}

// SortRecords orders records by ref ascending in place; records without a ref sort first.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RefKey() < records[j].RefKey()
	})
}
