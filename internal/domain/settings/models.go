package settings

import "time"

const (
	DataTypeString  = "string"
	DataTypeNumber  = "number"
	DataTypeBoolean = "boolean"
)

type Setting struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	DataType    string    `json:"dataType"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	IsEditable  bool      `json:"isEditable"`
	UpdatedBy   string    `json:"updatedBy"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Default struct {
	Key         string
	Value       string
	DataType    string
	Category    string
	Description string
	IsEditable  bool
}

// Defaults lists the keys the service expects to exist. Seeded at startup;
// existing rows are never overwritten.
func Defaults() []Default {
	return []Default{
		{Key: "org.name", Value: "Head Office", DataType: DataTypeString, Category: "organization", Description: "Organization display name", IsEditable: true},
		{Key: "org.currency", Value: "USD", DataType: DataTypeString, Category: "organization", Description: "Reporting currency code", IsEditable: true},
		{Key: "payroll.default_allowances", Value: "0", DataType: DataTypeNumber, Category: "payroll", Description: "Default monthly allowances for new payroll rows", IsEditable: true},
		{Key: "leave.annual_entitlement_days", Value: "30", DataType: DataTypeNumber, Category: "leave", Description: "Annual leave entitlement in days", IsEditable: true},
		{Key: "reminders.due_soon_days", Value: "3", DataType: DataTypeNumber, Category: "reminders", Description: "Days before due date a reminder counts as due soon", IsEditable: true},
		{Key: "governance.maker_checker_enabled", Value: "true", DataType: DataTypeBoolean, Category: "governance", Description: "Route financial mutations through approval", IsEditable: true},
		{Key: "system.schema_rev", Value: "1", DataType: DataTypeNumber, Category: "system", Description: "Internal schema revision marker", IsEditable: false},
	}
}
