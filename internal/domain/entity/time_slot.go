package entity

// TimeSlot is static reference data: the fixed catalog of bookable
// time-of-day slots. Seeded once by migration, never mutated at runtime.
type TimeSlot struct {
	ID        int    `gorm:"primaryKey;autoIncrement" json:"id"`
	StartTime string `gorm:"type:time;not null" json:"start_time"`
	EndTime   string `gorm:"type:time;not null" json:"end_time"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}
