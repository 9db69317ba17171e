package models

// Report names. Each one is also the HTTP path (without the slash) and the
// suffix of the output file name.
const (
	ReportRoomList     = "room_list"
	ReportSmallAverage = "small_ave"
	ReportBiggestDiff  = "biggest_diff"
	ReportDiffSex      = "diff_sex"
)

// ReportNames lists every report in menu order.
var ReportNames = []string{
	ReportRoomList,
	ReportSmallAverage,
	ReportBiggestDiff,
	ReportDiffSex,
}

// RoomStudentCount is a row of the room_list report.
type RoomStudentCount struct {
	RoomID   int    `json:"room_id" xml:"room_id"`
	Room     string `json:"room" xml:"room"`
	Students int    `json:"students" xml:"students"`
}

// RoomAverageAge is a row of the small_ave report. AverageAge is in years.
type RoomAverageAge struct {
	RoomID     int     `json:"room_id" xml:"room_id"`
	Room       string  `json:"room" xml:"room"`
	AverageAge float64 `json:"average_age" xml:"average_age"`
}

// RoomAgeDiff is a row of the biggest_diff report: days between the oldest
// and the youngest student's birthday.
type RoomAgeDiff struct {
	RoomID      int    `json:"room_id" xml:"room_id"`
	Room        string `json:"room" xml:"room"`
	AgeDiffDays int    `json:"age_diff_days" xml:"age_diff_days"`
}

// RoomMixedSex is a row of the diff_sex report.
type RoomMixedSex struct {
	RoomID int    `json:"room_id" xml:"room_id"`
	Room   string `json:"room" xml:"room"`
}
