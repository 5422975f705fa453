package customers

// Column layout of the customer sheet. One row per customer, keyed by the
// LINE user ID in column A.
const (
	colIdentityKey = iota
	colNickname
	colDisplayName
	colStatus
	colPrice
)

// Defaults substituted for absent optional fields.
const (
	DefaultDisplayName = "ลูกค้า"
	DefaultStatus      = "ไม่มีข้อมูล"
	DefaultPrice       = "0"
)

// Record is one customer's row from the sheet.
type Record struct {
	IdentityKey string
	Nickname    string
	DisplayName string
	Status      string
	Price       string
}

// RecordFromRow maps a sheet row to a Record. A short row is still a valid
// record; missing or blank optional fields fall back to defaults.
func RecordFromRow(row []string) *Record {
	return &Record{
		IdentityKey: cell(row, colIdentityKey, ""),
		Nickname:    cell(row, colNickname, ""),
		DisplayName: cell(row, colDisplayName, DefaultDisplayName),
		Status:      cell(row, colStatus, DefaultStatus),
		Price:       cell(row, colPrice, DefaultPrice),
	}
}

func cell(row []string, idx int, fallback string) string {
	if idx < len(row) && row[idx] != "" {
		return row[idx]
	}
	return fallback
}
