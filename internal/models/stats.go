package models

// ApplicationStats aggregates ledger counters for the admin dashboard.
type ApplicationStats struct {
	Total      int64         `json:"total_count"`
	Today      int64         `json:"today_count"`
	Week       int64         `json:"week_count"`
	Month      int64         `json:"month_count"`
	Successful int64         `json:"successful_count"`
	Failed     int64         `json:"failed_count"`
	Deleted    int64         `json:"deleted_count"`
	Recent     []GrantRecord `json:"recent_applications"`
}

// SystemStatus reports connectivity of both stores plus headline counters.
type SystemStatus struct {
	Uptime       string `json:"uptime"`
	LedgerStatus string `json:"ledger_status"`
	MySQLStatus  string `json:"mysql_status"`
	Total        int64  `json:"total_applications"`
	Today        int64  `json:"today_applications"`
	Version      string `json:"version"`
}

// ReconcileReport is the outcome of one consistency pass over the ledger.
type ReconcileReport struct {
	Checked      int      `json:"checked"`
	Inconsistent int      `json:"inconsistent"`
	Repaired     int      `json:"repaired"`
	Failed       int      `json:"failed"`
	Details      []string `json:"details,omitempty"`
}
