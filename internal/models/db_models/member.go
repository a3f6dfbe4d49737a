package db_models

type Member struct {
	BaseModel
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	DisplayName  string
	PasswordHash string
	Preferences  StringList
}
