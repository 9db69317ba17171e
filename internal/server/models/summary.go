package models

// TableLoad is the outcome of importing one JSON file.
type TableLoad struct {
	Table    string `json:"table"`
	File     string `json:"file"`
	Inserted int64  `json:"inserted"`
	// Skipped is set when the table already held the file's rows.
	Skipped bool `json:"skipped"`
}

// LoadSummary is returned by a bulk import of all tables.
type LoadSummary struct {
	Tables []TableLoad `json:"tables"`
}

// ClearSummary reports how many rows each table lost.
type ClearSummary struct {
	Students int64 `json:"students"`
	Rooms    int64 `json:"rooms"`
}
