package models

// Operation entry categories
const (
	OpCategoryBackup     = "Backup"
	OpCategoryDataFetch  = "Data Fetch"
	OpCategorySystem     = "System"
	OpCategoryMonitoring = "Monitoring"
)

// Operation entry statuses
const (
	OpStatusSuccess = "success"
	OpStatusWarning = "warning"
	OpStatusError   = "error"
	OpStatusInfo    = "info"
)

// OperationEntry is one line of the daily operations log
type OperationEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Category  string `json:"category"`
	Operation string `json:"operation"`
	Status    string `json:"status"`
	Details   string `json:"details,omitempty"`
}

// OperationsSummary aggregates one day of operation entries
type OperationsSummary struct {
	Date            string          `json:"date"`
	TotalOperations int             `json:"total_operations"`
	ByCategory      map[string]int  `json:"by_category"`
	ByStatus        map[string]int  `json:"by_status"`
	Timeline        []TimelineEvent `json:"timeline"`
}

// TimelineEvent is a compact view of an operation for the summary timeline
type TimelineEvent struct {
	Time      string `json:"time"`
	Category  string `json:"category"`
	Operation string `json:"operation"`
	Status    string `json:"status"`
}
