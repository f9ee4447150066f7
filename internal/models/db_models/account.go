package db_models

type Account struct {
	BaseModel
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	Email        string `gorm:"size:254;index"`
	FirstName    string `gorm:"size:150"`
	PasswordHash string `gorm:"not null"`
	IsStaff      bool   `gorm:"default:false"`

	Profile *Profile `gorm:"foreignKey:AccountID"`
}

// DisplayName is the greeting name used in mails and views.
func (a Account) DisplayName() string {
	if a.FirstName != "" {
		return a.FirstName
	}
	return a.Username
}

func (a Account) Role() string {
	if a.IsStaff {
		return RoleStaff
	}
	return RoleUser
}

const (
	RoleUser  = "user"
	RoleStaff = "staff"
)
