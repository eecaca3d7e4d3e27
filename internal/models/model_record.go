package models

import "time"

type InterventionStatus string

const (
	InterventionStatusPaid   InterventionStatus = "PAID"
	InterventionStatusUnpaid InterventionStatus = "UNPAID"
)

// Intervention is a billable job; its price counts as income.
// Price is nullable because legacy rows were imported without one.
type Intervention struct {
	ID         string             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     string             `gorm:"column:user_id;type:varchar(64);not null;index:idx_intervention_user_created,priority:1" json:"user_id"`
	CategoryID *string            `gorm:"column:category_id;type:varchar(64)" json:"category_id"`
	Price      *float64           `gorm:"column:price;type:numeric(14,2)" json:"price"`
	Note       string             `gorm:"column:note;type:text" json:"note"`
	Status     InterventionStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	CreatedAt  time.Time          `gorm:"index:idx_intervention_user_created,priority:2" json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func (Intervention) TableName() string {
	return "intervention"
}

type Expense struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);not null;index:idx_expense_user_created,priority:1" json:"user_id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Category  string    `gorm:"column:category;type:varchar(128)" json:"category"`
	Price     *float64  `gorm:"column:price;type:numeric(14,2)" json:"price"`
	Note      string    `gorm:"column:note;type:text" json:"note"`
	CreatedAt time.Time `gorm:"index:idx_expense_user_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Expense) TableName() string {
	return "expense"
}
