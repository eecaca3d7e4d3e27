package models

import "time"

type UserRole string

const (
	UserRoleUser       UserRole = "user"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "superadmin"
)

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin || r == UserRoleSuperAdmin
}

// UserPlanSnapshot is the denormalized plan state shown to clients.
// It is a projection of the SubscriptionRecord whose external id is
// ExternalSubscriptionID, or of a free trial / store entitlement when that is empty.
type UserPlanSnapshot struct {
	PlanID                 string     `gorm:"column:plan_id;type:varchar(64)" json:"plan_id"`
	IsActive               bool       `gorm:"column:is_active;not null" json:"is_active"`
	IsTrial                bool       `gorm:"column:is_trial;not null" json:"is_trial"`
	StartDate              *time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate                *time.Time `gorm:"column:end_date" json:"end_date"`
	ExternalSubscriptionID string     `gorm:"column:external_id;type:varchar(128);index" json:"external_subscription_id,omitempty"`
}

type User struct {
	ID               string           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FirstName        string           `gorm:"column:first_name;type:varchar(128)" json:"first_name"`
	LastName         string           `gorm:"column:last_name;type:varchar(128)" json:"last_name"`
	Email            string           `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	Role             UserRole         `gorm:"column:role;type:varchar(32);not null" json:"role"`
	IsBlocked        bool             `gorm:"column:is_blocked;not null" json:"is_blocked"`
	StripeCustomerID *string          `gorm:"column:stripe_customer_id;type:varchar(128)" json:"stripe_customer_id"`
	Subscription     UserPlanSnapshot `gorm:"embedded;embeddedPrefix:subscription_" json:"subscription"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (User) TableName() string {
	return "user_account"
}
