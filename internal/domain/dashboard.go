package domain

// Dashboard aggregates application statistics
type Dashboard struct {
	TotalJobs             int            `json:"totalJobs"`
	RecentApplications    int            `json:"recentApplications"`
	StatusStats           StatusStats    `json:"statusStats"`
	ApplicationsByCompany []CompanyCount `json:"applicationsByCompany"`
	DailyApplications     []DailyCount   `json:"dailyApplications"`
}

// StatusStats counts jobs per status
type StatusStats struct {
	Draft   int `json:"draft"`
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

// CompanyCount is the number of sent applications for one company
type CompanyCount struct {
	Company string `db:"company" json:"company"`
	Count   int    `db:"count" json:"count"`
}

// DailyCount is the number of applications sent on one UTC day (YYYY-MM-DD)
type DailyCount struct {
	Date  string `db:"day" json:"date"`
	Count int    `db:"count" json:"count"`
}
