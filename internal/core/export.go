package core

import "strconv"

// templateExample is the illustrative row shipped with the import template.
// It is a valid row: importing the template unmodified succeeds.
var templateExample = Record{
	ColName:               "Wireless Microphone",
	ColDescription:        "Handheld UHF microphone",
	ColSerialNumber:       "WM-100-0001",
	ColBarcode:            "012345678905",
	ColCondition:          string(ConditionGood),
	ColCategoryName:       "Audio",
	ColLocationName:       "Storage A",
	ColIsConsumable:       "false",
	ColPurchaseDate:       "2024-01-15",
	ColPurchasePrice:      "199.99",
	ColWarrantyExpiration: "2026-01-15",
	ColNotes:              "Spare batteries in the case",
}

// Export renders items as CSV in the canonical column order. Items must carry
// their category and location names.
func Export(items []Item) string {
	records := make([]Record, len(items))
	for i, item := range items {
		records[i] = itemRecord(item.ItemFields)
	}
	return SerializeCSV(CanonicalHeader(), records)
}

// GenerateTemplate returns the canonical header and one example row.
func GenerateTemplate() string {
	return SerializeCSV(CanonicalHeader(), []Record{templateExample})
}

func itemRecord(f ItemFields) Record {
	return Record{
		ColName:               f.Name,
		ColDescription:        f.Description,
		ColSerialNumber:       f.SerialNumber,
		ColBarcode:            f.Barcode,
		ColCondition:          string(f.Condition),
		ColCategoryName:       f.CategoryName,
		ColLocationName:       f.LocationName,
		ColIsConsumable:       strconv.FormatBool(f.IsConsumable),
		ColQuantity:           FormatInt(f.Quantity),
		ColMinimumQuantity:    FormatInt(f.MinimumQuantity),
		ColPurchaseDate:       FormatDate(f.PurchaseDate),
		ColPurchasePrice:      FormatDecimal(f.PurchasePrice),
		ColWarrantyExpiration: FormatDate(f.WarrantyExpiration),
		ColNotes:              f.Notes,
	}
}
