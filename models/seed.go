package models

// SeedClassrooms returns the fixed classroom roster the system ships with.
func SeedClassrooms() []Classroom {
	return []Classroom{
		{ID: "c1", Name: "電腦教室 (A)", Capacity: 40, Color: "#3b82f6"},
		{ID: "c2", Name: "物理實驗室", Capacity: 30, Color: "#10b981"},
		{ID: "c3", Name: "音樂教室", Capacity: 50, Color: "#8b5cf6"},
		{ID: "c4", Name: "美術教室", Capacity: 35, Color: "#ef4444"},
		{ID: "c5", Name: "語言教室", Capacity: 40, Color: "#f97316"},
	}
}
