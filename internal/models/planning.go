package models

// HeatmapCell is the total assigned hours of a person in one week.
type HeatmapCell struct {
	PersonID   string  `db:"person_id" json:"person_id"`
	PersonName string  `db:"person_name" json:"person_name"`
	Week       Date    `db:"week" json:"week"`
	Hours      float64 `db:"hours" json:"hours"`
}

// HeatmapFilter bounds a heatmap query.
type HeatmapFilter struct {
	From     Date
	To       Date
	PersonID string
}

// HeatmapRow groups one person's weeks.
type HeatmapRow struct {
	PersonID   string             `json:"person_id"`
	PersonName string             `json:"person_name"`
	Weeks      map[string]float64 `json:"weeks"`
	Total      float64            `json:"total"`
}

// Heatmap is the planning view over a range of weeks.
type Heatmap struct {
	From  Date         `json:"from"`
	To    Date         `json:"to"`
	Weeks []string     `json:"weeks"`
	Rows  []HeatmapRow `json:"rows"`
}
