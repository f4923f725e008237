package core

// Canonical CSV column names, shared by import, export and the template.
const (
	ColName               = "name"
	ColDescription        = "description"
	ColSerialNumber       = "serial_number"
	ColBarcode            = "barcode"
	ColCondition          = "condition"
	ColCategoryName       = "category_name"
	ColLocationName       = "location_name"
	ColIsConsumable       = "is_consumable"
	ColQuantity           = "quantity"
	ColMinimumQuantity    = "minimum_quantity"
	ColPurchaseDate       = "purchase_date"
	ColPurchasePrice      = "purchase_price"
	ColWarrantyExpiration = "warranty_expiration"
	ColNotes              = "notes"
)

// ItemFieldSpecs defines the item CSV layout. The slice order is the
// canonical column order used for export and the template.
var ItemFieldSpecs = []FieldSpec{
	{Name: ColName, Type: FieldText, Required: true},
	{Name: ColDescription, Type: FieldText},
	{Name: ColSerialNumber, Type: FieldText},
	{Name: ColBarcode, Type: FieldText},
	{Name: ColCondition, Type: FieldEnum, Required: true, EnumValues: conditionValues()},
	{Name: ColCategoryName, Type: FieldText, Required: true},
	{Name: ColLocationName, Type: FieldText, Required: true},
	{Name: ColIsConsumable, Type: FieldBool},
	{Name: ColQuantity, Type: FieldInteger},
	{Name: ColMinimumQuantity, Type: FieldInteger},
	{Name: ColPurchaseDate, Type: FieldDate},
	{Name: ColPurchasePrice, Type: FieldDecimal},
	{Name: ColWarrantyExpiration, Type: FieldDate},
	{Name: ColNotes, Type: FieldText},
}

// CanonicalHeader returns the item CSV header in canonical order.
func CanonicalHeader() []string {
	header := make([]string, len(ItemFieldSpecs))
	for i, spec := range ItemFieldSpecs {
		header[i] = spec.Name
	}
	return header
}

func conditionValues() []string {
	values := make([]string, len(Conditions))
	for i, c := range Conditions {
		values[i] = string(c)
	}
	return values
}

func lookupFieldSpec(column string) (FieldSpec, bool) {
	for _, spec := range ItemFieldSpecs {
		if spec.Name == column {
			return spec, true
		}
	}
	return FieldSpec{}, false
}
